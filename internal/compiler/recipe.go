// Package compiler parses CUE recipe definitions into recipe
// definitions ready for import. Definitions reference items, groups
// and stage types by name; the import step resolves names to IDs
// against the catalog.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// RecipeDef is a compiled recipe definition. All cross references are
// by name, not ID, so a definition file is portable across databases.
type RecipeDef struct {
	Name        string
	Description string
	BatchSizeL  float64
	Notes       string
	Stages      []StageDef
}

// StageDef is one stage of a definition. Order is the 1-based list
// position; definitions cannot express gaps or duplicates.
type StageDef struct {
	Type         string
	Name         string
	Order        int
	Instructions string
	DurationDays *int
	Optional     bool
	Ingredients  []IngredientDef
}

// IngredientDef is one ingredient line. Exactly one of Item or Group
// must be set.
type IngredientDef struct {
	Item      string
	Group     string
	Amount    float64
	Unit      string
	Timing    string
	Scaling   string
	StepSizeL *float64
	Notes     string
}

// CompileRecipe parses a CUE value into a RecipeDef.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the recipe struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`recipe: { name: "Mead", ... }`)
//	def, err := CompileRecipe(v.LookupPath(cue.ParsePath("recipe")))
func CompileRecipe(v cue.Value) (*RecipeDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &RecipeDef{}

	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	def.Name = name

	batchVal := v.LookupPath(cue.ParsePath("batchSizeL"))
	if !batchVal.Exists() {
		return nil, &CompileError{
			Field:   "batchSizeL",
			Message: "batchSizeL is required",
			Pos:     v.Pos(),
		}
	}
	batch, err := batchVal.Float64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if batch <= 0 {
		return nil, &CompileError{
			Field:   "batchSizeL",
			Message: fmt.Sprintf("batchSizeL must be positive, got %v", batch),
			Pos:     batchVal.Pos(),
		}
	}
	def.BatchSizeL = batch

	def.Description, err = optionalString(v, "description")
	if err != nil {
		return nil, err
	}
	def.Notes, err = optionalString(v, "notes")
	if err != nil {
		return nil, err
	}

	def.Stages, err = parseStages(v)
	if err != nil {
		return nil, err
	}
	if len(def.Stages) == 0 {
		return nil, &CompileError{
			Field:   "stages",
			Message: "at least one stage is required",
			Pos:     v.Pos(),
		}
	}

	return def, nil
}

// parseStages extracts the stage list. Stage order is the list
// position, starting at 1.
func parseStages(v cue.Value) ([]StageDef, error) {
	stagesVal := v.LookupPath(cue.ParsePath("stages"))
	if !stagesVal.Exists() {
		return nil, nil
	}

	iter, err := stagesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var stages []StageDef
	order := 0
	for iter.Next() {
		order++
		stage, err := parseStage(iter.Value(), order)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

func parseStage(v cue.Value, order int) (StageDef, error) {
	stage := StageDef{Order: order}

	typ, err := requiredString(v, "type")
	if err != nil {
		return stage, err
	}
	stage.Type = typ

	stage.Name, err = optionalString(v, "name")
	if err != nil {
		return stage, err
	}
	if stage.Name == "" {
		stage.Name = stage.Type
	}

	stage.Instructions, err = optionalString(v, "instructions")
	if err != nil {
		return stage, err
	}

	durVal := v.LookupPath(cue.ParsePath("durationDays"))
	if durVal.Exists() {
		dur, err := durVal.Int64()
		if err != nil {
			return stage, formatCUEError(err)
		}
		days := int(dur)
		stage.DurationDays = &days
	}

	optVal := v.LookupPath(cue.ParsePath("optional"))
	if optVal.Exists() {
		opt, err := optVal.Bool()
		if err != nil {
			return stage, formatCUEError(err)
		}
		stage.Optional = opt
	}

	ingVal := v.LookupPath(cue.ParsePath("ingredients"))
	if ingVal.Exists() {
		ingIter, err := ingVal.List()
		if err != nil {
			return stage, formatCUEError(err)
		}
		for ingIter.Next() {
			ing, err := parseIngredient(ingIter.Value())
			if err != nil {
				return stage, err
			}
			stage.Ingredients = append(stage.Ingredients, ing)
		}
	}

	return stage, nil
}

func parseIngredient(v cue.Value) (IngredientDef, error) {
	var ing IngredientDef
	var err error

	ing.Item, err = optionalString(v, "item")
	if err != nil {
		return ing, err
	}
	ing.Group, err = optionalString(v, "group")
	if err != nil {
		return ing, err
	}

	// Exactly one of item or group, mirroring the storage constraint
	if (ing.Item == "") == (ing.Group == "") {
		return ing, &CompileError{
			Field:   "ingredient",
			Message: "exactly one of item or group must be set",
			Pos:     v.Pos(),
		}
	}

	amountVal := v.LookupPath(cue.ParsePath("amount"))
	if !amountVal.Exists() {
		return ing, &CompileError{
			Field:   "ingredient.amount",
			Message: "amount is required",
			Pos:     v.Pos(),
		}
	}
	ing.Amount, err = amountVal.Float64()
	if err != nil {
		return ing, formatCUEError(err)
	}
	if ing.Amount < 0 {
		return ing, &CompileError{
			Field:   "ingredient.amount",
			Message: fmt.Sprintf("amount must not be negative, got %v", ing.Amount),
			Pos:     amountVal.Pos(),
		}
	}

	ing.Unit, err = requiredString(v, "unit")
	if err != nil {
		return ing, err
	}
	ing.Timing, err = optionalString(v, "timing")
	if err != nil {
		return ing, err
	}
	ing.Notes, err = optionalString(v, "notes")
	if err != nil {
		return ing, err
	}

	ing.Scaling, err = optionalString(v, "scaling")
	if err != nil {
		return ing, err
	}
	if ing.Scaling == "" {
		ing.Scaling = "linear"
	}

	stepVal := v.LookupPath(cue.ParsePath("stepSizeL"))
	if stepVal.Exists() {
		step, err := stepVal.Float64()
		if err != nil {
			return ing, formatCUEError(err)
		}
		ing.StepSizeL = &step
	}

	switch ing.Scaling {
	case "linear", "fixed":
		if ing.StepSizeL != nil {
			return ing, &CompileError{
				Field:   "ingredient.stepSizeL",
				Message: fmt.Sprintf("stepSizeL only applies to step scaling, not %s", ing.Scaling),
				Pos:     stepVal.Pos(),
			}
		}
	case "step":
		if ing.StepSizeL == nil || *ing.StepSizeL <= 0 {
			return ing, &CompileError{
				Field:   "ingredient.stepSizeL",
				Message: "step scaling requires a positive stepSizeL",
				Pos:     v.Pos(),
			}
		}
	default:
		return ing, &CompileError{
			Field:   "ingredient.scaling",
			Message: fmt.Sprintf("unknown scaling method %q", ing.Scaling),
			Pos:     v.Pos(),
		}
	}

	return ing, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
