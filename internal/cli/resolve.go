package cli

import (
	"context"
	"fmt"

	"github.com/roach88/brewcode/internal/compiler"
	"github.com/roach88/brewcode/internal/model"
	"github.com/roach88/brewcode/internal/rules"
	"github.com/roach88/brewcode/internal/store"
)

// catalog is the name→ID view of the reference data a recipe
// definition is resolved against.
type catalog struct {
	items      map[string]int64
	groups     map[string]int64
	stageTypes map[string]int64
	ruleTable  []model.StageType
}

// loadCatalog reads the lookup tables a definition needs.
func loadCatalog(ctx context.Context, st *store.Store) (*catalog, error) {
	c := &catalog{
		items:      make(map[string]int64),
		groups:     make(map[string]int64),
		stageTypes: make(map[string]int64),
	}

	items, err := st.ListItems(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		c.items[it.Name] = it.ItemID
	}

	groups, err := st.ListSubstituteGroups(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		c.groups[g.Name] = g.GroupID
	}

	types, err := st.ListStageTypes(ctx)
	if err != nil {
		return nil, err
	}
	c.ruleTable = types
	for _, t := range types {
		c.stageTypes[t.Name] = t.StageTypeID
	}

	return c, nil
}

// resolveRecipe turns a compiled definition into a model.Recipe,
// resolving every name reference against the catalog. All resolution
// failures are collected, not fail-fast.
func (c *catalog) resolveRecipe(def compiler.RecipeDef) (model.Recipe, []error) {
	var errs []error

	r := model.Recipe{
		Name:        def.Name,
		Description: def.Description,
		BatchSizeL:  def.BatchSizeL,
		Notes:       def.Notes,
	}

	for _, sd := range def.Stages {
		stage := model.RecipeStage{
			StageOrder:   sd.Order,
			Name:         sd.Name,
			Instructions: sd.Instructions,
			DurationDays: sd.DurationDays,
			IsOptional:   sd.Optional,
		}

		typeID, ok := c.stageTypes[sd.Type]
		if !ok {
			errs = append(errs, &LoadError{
				Code:    ErrCodeUnknownName,
				Message: fmt.Sprintf("recipe %q stage %d: unknown stage type %q", def.Name, sd.Order, sd.Type),
			})
			continue
		}
		stage.StageTypeID = typeID

		for _, id := range sd.Ingredients {
			ing, err := c.resolveIngredient(def.Name, sd.Order, id)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			stage.Ingredients = append(stage.Ingredients, ing)
		}

		r.Stages = append(r.Stages, stage)
	}

	return r, errs
}

func (c *catalog) resolveIngredient(recipeName string, order int, id compiler.IngredientDef) (model.RecipeIngredient, error) {
	var sel model.Selection
	switch {
	case id.Item != "":
		itemID, ok := c.items[id.Item]
		if !ok {
			return model.RecipeIngredient{}, &LoadError{
				Code:    ErrCodeUnknownName,
				Message: fmt.Sprintf("recipe %q stage %d: unknown item %q", recipeName, order, id.Item),
			}
		}
		sel = model.SelectItem(itemID)
	case id.Group != "":
		groupID, ok := c.groups[id.Group]
		if !ok {
			return model.RecipeIngredient{}, &LoadError{
				Code:    ErrCodeUnknownName,
				Message: fmt.Sprintf("recipe %q stage %d: unknown substitute group %q", recipeName, order, id.Group),
			}
		}
		sel = model.SelectGroup(groupID)
	}

	method, err := model.ParseMethod(id.Scaling, id.StepSizeL)
	if err != nil {
		return model.RecipeIngredient{}, &LoadError{
			Code:    ErrCodeScalingMethod,
			Message: fmt.Sprintf("recipe %q stage %d: %v", recipeName, order, err),
		}
	}

	return model.RecipeIngredient{
		Selection: sel,
		Amount:    id.Amount,
		Unit:      id.Unit,
		Timing:    id.Timing,
		Scaling:   method,
		Notes:     id.Notes,
	}, nil
}

// checkStageRules runs the stage constraint validator over a resolved
// recipe.
func (c *catalog) checkStageRules(r model.Recipe) []rules.Violation {
	refs := make([]rules.StageRef, 0, len(r.Stages))
	for _, s := range r.Stages {
		refs = append(refs, rules.StageRef{StageTypeID: s.StageTypeID, StageOrder: s.StageOrder})
	}
	return rules.Validate(refs, c.ruleTable)
}
