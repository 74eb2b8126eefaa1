package scale

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/brewcode/internal/model"
)

// TokenGenerator produces worksheet tokens.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 worksheet tokens.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for deterministic tests
// and golden-file comparison.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
// Generate panics once all tokens are consumed; the panic catches test
// misconfiguration early.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// Worksheet is a complete scaled rendition of a recipe for one target
// batch size. The token identifies the worksheet in output and logs.
type Worksheet struct {
	Token        string           `json:"token"`
	RecipeID     int64            `json:"recipeID"`
	RecipeName   string           `json:"recipeName"`
	BaseBatchL   float64          `json:"baseBatchL"`
	TargetBatchL float64          `json:"targetBatchL"`
	Stages       []WorksheetStage `json:"stages"`
}

// WorksheetStage is one recipe stage with its scaled ingredient lines,
// in stage order.
type WorksheetStage struct {
	StageID     int64              `json:"stageID"`
	StageOrder  int                `json:"stageOrder"`
	Name        string             `json:"name"`
	IsOptional  bool               `json:"isOptional"`
	Ingredients []ScaledIngredient `json:"ingredients"`
}

// Recipe scales every stage of a loaded recipe to the target batch
// size. The recipe value is not mutated. A nil generator defaults to
// UUIDv7 tokens.
func Recipe(r model.Recipe, targetL float64, gen TokenGenerator) (*Worksheet, error) {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	if r.BatchSizeL <= 0 {
		return nil, NewInvalidVolumeError("base", r.BatchSizeL)
	}
	if targetL <= 0 {
		return nil, NewInvalidVolumeError("target", targetL)
	}

	ws := &Worksheet{
		Token:        gen.Generate(),
		RecipeID:     r.RecipeID,
		RecipeName:   r.Name,
		BaseBatchL:   r.BatchSizeL,
		TargetBatchL: targetL,
		Stages:       make([]WorksheetStage, 0, len(r.Stages)),
	}

	for _, stage := range r.Stages {
		scaled, err := Amounts(r.BatchSizeL, targetL, stage.Ingredients)
		if err != nil {
			return nil, err
		}
		ws.Stages = append(ws.Stages, WorksheetStage{
			StageID:     stage.StageID,
			StageOrder:  stage.StageOrder,
			Name:        stage.Name,
			IsOptional:  stage.IsOptional,
			Ingredients: scaled,
		})
	}

	return ws, nil
}
