package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/brewcode/internal/model"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("not found")

// GetCategory returns one category by ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	var isActive int
	err := s.db.QueryRowContext(ctx, `
		SELECT categoryID, name, description, isActive
		FROM categories WHERE categoryID = ?
	`, id).Scan(&c.CategoryID, &c.Name, &c.Description, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.IsActive = isActive == 1
	return c, nil
}

// ListCategories returns all active categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT categoryID, name, description, isActive
		FROM categories WHERE isActive = 1
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		var isActive int
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Description, &isActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsActive = isActive == 1
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetItem returns one item by ID, active or not.
func (s *Store) GetItem(ctx context.Context, id int64) (model.Item, error) {
	var it model.Item
	var onDemand, tracked, isActive int
	err := s.db.QueryRowContext(ctx, `
		SELECT itemID, categoryID, subcategoryID, name, unit, onDemand, isInventoryTracked, isActive
		FROM items WHERE itemID = ?
	`, id).Scan(&it.ItemID, &it.CategoryID, &it.SubcategoryID, &it.Name, &it.Unit,
		&onDemand, &tracked, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get item: %w", err)
	}
	it.OnDemand = onDemand == 1
	it.IsInventoryTracked = tracked == 1
	it.IsActive = isActive == 1
	return it, nil
}

// ListItems returns active items, optionally filtered to one category
// (categoryID <= 0 means no filter). Ordered by name.
func (s *Store) ListItems(ctx context.Context, categoryID int64) ([]model.Item, error) {
	query := `
		SELECT itemID, categoryID, subcategoryID, name, unit, onDemand, isInventoryTracked, isActive
		FROM items WHERE isActive = 1
	`
	args := []any{}
	if categoryID > 0 {
		query += ` AND categoryID = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		var onDemand, tracked, isActive int
		if err := rows.Scan(&it.ItemID, &it.CategoryID, &it.SubcategoryID, &it.Name, &it.Unit,
			&onDemand, &tracked, &isActive); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.OnDemand = onDemand == 1
		it.IsInventoryTracked = tracked == 1
		it.IsActive = isActive == 1
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetSubstituteGroup returns one group with its members, joined to item
// names so callers can present candidates without another round trip.
func (s *Store) GetSubstituteGroup(ctx context.Context, id int64) (model.SubstituteGroup, error) {
	var g model.SubstituteGroup
	err := s.db.QueryRowContext(ctx, `
		SELECT groupID, name, notes FROM substituteGroups WHERE groupID = ?
	`, id).Scan(&g.GroupID, &g.Name, &g.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SubstituteGroup{}, fmt.Errorf("substitute group %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.SubstituteGroup{}, fmt.Errorf("get substitute group: %w", err)
	}

	members, err := s.groupMembers(ctx, id)
	if err != nil {
		return model.SubstituteGroup{}, err
	}
	g.Members = members
	return g, nil
}

// ListSubstituteGroups returns all groups with members, ordered by name.
func (s *Store) ListSubstituteGroups(ctx context.Context) ([]model.SubstituteGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT groupID, name, notes FROM substituteGroups ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list substitute groups: %w", err)
	}
	defer rows.Close()

	groups := []model.SubstituteGroup{}
	for rows.Next() {
		var g model.SubstituteGroup
		if err := rows.Scan(&g.GroupID, &g.Name, &g.Notes); err != nil {
			return nil, fmt.Errorf("scan substitute group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate substitute groups: %w", err)
	}

	for i := range groups {
		members, err := s.groupMembers(ctx, groups[i].GroupID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (s *Store) groupMembers(ctx context.Context, groupID int64) ([]model.SubstituteGroupMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.groupID, m.itemID, i.name, m.isPreferred
		FROM substituteGroupMembers m
		JOIN items i ON i.itemID = m.itemID
		WHERE m.groupID = ?
		ORDER BY i.name ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query group members: %w", err)
	}
	defer rows.Close()

	members := []model.SubstituteGroupMember{}
	for rows.Next() {
		var m model.SubstituteGroupMember
		var preferred int
		if err := rows.Scan(&m.GroupID, &m.ItemID, &m.ItemName, &preferred); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		m.IsPreferred = preferred == 1
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}
	return members, nil
}

// ListStageTypes returns the full stage-type rule table ordered by ID,
// which is the form the validator consumes.
func (s *Store) ListStageTypes(ctx context.Context) ([]model.StageType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stageTypeID, name, description, isRequired, malolactic,
		       requiresStageTypeID, excludesStageTypeID
		FROM stageTypes
		ORDER BY stageTypeID ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list stage types: %w", err)
	}
	defer rows.Close()

	types := []model.StageType{}
	for rows.Next() {
		var st model.StageType
		var required, malolactic int
		if err := rows.Scan(&st.StageTypeID, &st.Name, &st.Description, &required, &malolactic,
			&st.RequiresStageTypeID, &st.ExcludesStageTypeID); err != nil {
			return nil, fmt.Errorf("scan stage type: %w", err)
		}
		st.IsRequired = required == 1
		st.Malolactic = malolactic == 1
		types = append(types, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage types: %w", err)
	}
	return types, nil
}

// ListRecipes returns active recipe headers (no stages) ordered by name.
func (s *Store) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipeID, name, description, batchSizeL, notes, isActive
		FROM recipes WHERE isActive = 1
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		var r model.Recipe
		var isActive int
		if err := rows.Scan(&r.RecipeID, &r.Name, &r.Description, &r.BatchSizeL, &r.Notes, &isActive); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		r.IsActive = isActive == 1
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return recipes, nil
}

// LoadRecipe returns one recipe with its full stage and ingredient
// tree. Stages come back ordered by stageOrder; ingredient lines by
// their row ID, which preserves authoring order.
func (s *Store) LoadRecipe(ctx context.Context, recipeID int64) (model.Recipe, error) {
	var r model.Recipe
	var isActive int
	err := s.db.QueryRowContext(ctx, `
		SELECT recipeID, name, description, batchSizeL, notes, isActive
		FROM recipes WHERE recipeID = ?
	`, recipeID).Scan(&r.RecipeID, &r.Name, &r.Description, &r.BatchSizeL, &r.Notes, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Recipe{}, fmt.Errorf("recipe %d: %w", recipeID, ErrNotFound)
	}
	if err != nil {
		return model.Recipe{}, fmt.Errorf("load recipe: %w", err)
	}
	r.IsActive = isActive == 1

	stages, err := s.recipeStages(ctx, recipeID)
	if err != nil {
		return model.Recipe{}, err
	}
	r.Stages = stages
	return r, nil
}

func (s *Store) recipeStages(ctx context.Context, recipeID int64) ([]model.RecipeStage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stageID, recipeID, stageTypeID, stageOrder, name, instructions, durationDays, isOptional
		FROM recipeStages
		WHERE recipeID = ?
		ORDER BY stageOrder ASC
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe stages: %w", err)
	}
	defer rows.Close()

	stages := []model.RecipeStage{}
	for rows.Next() {
		var st model.RecipeStage
		var optional int
		if err := rows.Scan(&st.StageID, &st.RecipeID, &st.StageTypeID, &st.StageOrder,
			&st.Name, &st.Instructions, &st.DurationDays, &optional); err != nil {
			return nil, fmt.Errorf("scan recipe stage: %w", err)
		}
		st.IsOptional = optional == 1
		stages = append(stages, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe stages: %w", err)
	}

	for i := range stages {
		ingredients, err := s.stageIngredients(ctx, stages[i].StageID)
		if err != nil {
			return nil, err
		}
		stages[i].Ingredients = ingredients
	}
	return stages, nil
}

func (s *Store) stageIngredients(ctx context.Context, stageID int64) ([]model.RecipeIngredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipeIngredientID, stageID, itemID, substituteGroupID,
		       amount, unit, timing, scalingMethod, stepSizeL, notes
		FROM recipeIngredients
		WHERE stageID = ?
		ORDER BY recipeIngredientID ASC
	`, stageID)
	if err != nil {
		return nil, fmt.Errorf("query stage ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []model.RecipeIngredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage ingredients: %w", err)
	}
	return ingredients, nil
}

// scanIngredient rebuilds a RecipeIngredient from its row, converting
// the nullable itemID/substituteGroupID pair back into a tagged
// selection and the method name plus optional step size back into a
// ScalingMethod. Rows that satisfy the schema's CHECK constraints
// always convert cleanly; anything else is reported as corruption.
func scanIngredient(rows *sql.Rows) (model.RecipeIngredient, error) {
	var (
		ing        model.RecipeIngredient
		itemID     sql.NullInt64
		groupID    sql.NullInt64
		timing     sql.NullString
		methodName string
		stepSizeL  sql.NullFloat64
		notes      sql.NullString
	)
	if err := rows.Scan(&ing.RecipeIngredientID, &ing.StageID, &itemID, &groupID,
		&ing.Amount, &ing.Unit, &timing, &methodName, &stepSizeL, &notes); err != nil {
		return model.RecipeIngredient{}, fmt.Errorf("scan ingredient: %w", err)
	}

	switch {
	case itemID.Valid && !groupID.Valid:
		ing.Selection = model.SelectItem(itemID.Int64)
	case groupID.Valid && !itemID.Valid:
		ing.Selection = model.SelectGroup(groupID.Int64)
	default:
		return model.RecipeIngredient{}, fmt.Errorf(
			"ingredient %d: corrupt item/group reference", ing.RecipeIngredientID)
	}

	var step *float64
	if stepSizeL.Valid {
		step = &stepSizeL.Float64
	}
	method, err := model.ParseMethod(methodName, step)
	if err != nil {
		return model.RecipeIngredient{}, fmt.Errorf("ingredient %d: %w", ing.RecipeIngredientID, err)
	}
	ing.Scaling = method
	ing.Timing = timing.String
	ing.Notes = notes.String

	return ing, nil
}

// GroupsForRecipe loads every substitute group a recipe's ingredient
// lines reference, keyed by group ID. This is the map the resolver
// consumes when building a shopping list.
func (s *Store) GroupsForRecipe(ctx context.Context, recipeID int64) (map[int64]model.SubstituteGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT ri.substituteGroupID
		FROM recipeIngredients ri
		JOIN recipeStages rs ON rs.stageID = ri.stageID
		WHERE rs.recipeID = ? AND ri.substituteGroupID IS NOT NULL
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe groups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recipe group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe group ids: %w", err)
	}

	groups := make(map[int64]model.SubstituteGroup, len(ids))
	for _, id := range ids {
		g, err := s.GetSubstituteGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups[id] = g
	}
	return groups, nil
}
