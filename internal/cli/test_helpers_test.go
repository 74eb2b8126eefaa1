package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/brewcode/internal/compiler"
	"github.com/roach88/brewcode/internal/store"
)

// newSeededStore opens a fresh database in a temp directory and loads
// the reference catalog into it.
func newSeededStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Seed(context.Background()))
	return s, dbPath
}

// createMeadRecipe stores a small mead recipe exercising all three
// scaling methods and both selection kinds, and returns its ID.
func createMeadRecipe(t *testing.T, s *store.Store) int64 {
	t.Helper()
	ctx := context.Background()

	cat, err := loadCatalog(ctx, s)
	require.NoError(t, err)

	step := 5.0
	def := compiler.RecipeDef{
		Name:       "Traditional Mead",
		BatchSizeL: 20,
		Stages: []compiler.StageDef{
			{
				Type:  "Preparation",
				Name:  "Must Preparation",
				Order: 1,
				Ingredients: []compiler.IngredientDef{
					{Item: "Wildflower Honey", Amount: 3500, Unit: "g", Timing: "at start", Scaling: "linear"},
				},
			},
			{
				Type:  "Fermentation",
				Name:  "Primary Fermentation",
				Order: 2,
				Ingredients: []compiler.IngredientDef{
					{Group: "Wine Yeast", Amount: 5, Unit: "g", Scaling: "fixed"},
					{Item: "Fermaid-O", Amount: 4.5, Unit: "g", Scaling: "step", StepSizeL: &step},
				},
			},
		},
	}

	recipe, errs := cat.resolveRecipe(def)
	require.Empty(t, errs)

	id, err := s.CreateRecipe(ctx, recipe)
	require.NoError(t, err)
	return id
}
