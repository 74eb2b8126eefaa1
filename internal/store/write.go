package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/brewcode/internal/model"
)

// CreateCategory inserts a category and returns its generated ID.
// Uses ON CONFLICT(name) DO NOTHING for idempotency; when the name
// already exists, the existing row's ID is returned.
func (s *Store) CreateCategory(ctx context.Context, name, description string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, description)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return result.LastInsertId()
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT categoryID FROM categories WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("create category: select existing: %w", err)
	}
	return id, nil
}

// CreateSubcategory inserts a subcategory under a category.
func (s *Store) CreateSubcategory(ctx context.Context, categoryID int64, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO subcategories (categoryID, name)
		VALUES (?, ?)
		ON CONFLICT(categoryID, name) DO NOTHING
	`, categoryID, name)
	if err != nil {
		return 0, fmt.Errorf("create subcategory: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return result.LastInsertId()
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT subcategoryID FROM subcategories WHERE categoryID = ? AND name = ?`,
		categoryID, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("create subcategory: select existing: %w", err)
	}
	return id, nil
}

// CreateItem inserts an item and returns its generated ID.
func (s *Store) CreateItem(ctx context.Context, item model.Item) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items
		(categoryID, subcategoryID, name, unit, onDemand, isInventoryTracked, isActive)
		VALUES (?, ?, ?, ?, ?, ?, 1)
	`,
		item.CategoryID,
		item.SubcategoryID,
		item.Name,
		item.Unit,
		boolToInt(item.OnDemand),
		boolToInt(item.IsInventoryTracked),
	)
	if err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}
	return result.LastInsertId()
}

// UpdateItem updates an existing item's mutable fields.
func (s *Store) UpdateItem(ctx context.Context, item model.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET categoryID = ?, subcategoryID = ?, name = ?, unit = ?,
		    onDemand = ?, isInventoryTracked = ?
		WHERE itemID = ?
	`,
		item.CategoryID,
		item.SubcategoryID,
		item.Name,
		item.Unit,
		boolToInt(item.OnDemand),
		boolToInt(item.IsInventoryTracked),
		item.ItemID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return requireRow(result, fmt.Sprintf("item %d", item.ItemID))
}

// DeactivateItem soft-deletes an item. Recipes referencing the item
// keep working; it just stops appearing in active listings.
func (s *Store) DeactivateItem(ctx context.Context, itemID int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET isActive = 0 WHERE itemID = ?`, itemID)
	if err != nil {
		return fmt.Errorf("deactivate item: %w", err)
	}
	return requireRow(result, fmt.Sprintf("item %d", itemID))
}

// CreateSubstituteGroup inserts a group and its members in one
// transaction, so a half-written group is never visible.
func (s *Store) CreateSubstituteGroup(ctx context.Context, group model.SubstituteGroup) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create substitute group: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO substituteGroups (name, notes)
		VALUES (?, ?)
	`, group.Name, group.Notes)
	if err != nil {
		return 0, fmt.Errorf("create substitute group: %w", err)
	}
	groupID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create substitute group: last insert id: %w", err)
	}

	for _, m := range group.Members {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO substituteGroupMembers (groupID, itemID, isPreferred)
			VALUES (?, ?, ?)
		`, groupID, m.ItemID, boolToInt(m.IsPreferred)); err != nil {
			return 0, fmt.Errorf("create substitute group: add member %d: %w", m.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create substitute group: commit: %w", err)
	}
	return groupID, nil
}

// AddGroupMember links an item into an existing substitute group.
// Uses ON CONFLICT DO NOTHING so re-adding a member is harmless.
func (s *Store) AddGroupMember(ctx context.Context, groupID, itemID int64, isPreferred bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO substituteGroupMembers (groupID, itemID, isPreferred)
		VALUES (?, ?, ?)
		ON CONFLICT(groupID, itemID) DO NOTHING
	`, groupID, itemID, boolToInt(isPreferred))
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

// SetPreferredMember marks exactly one member of a group preferred,
// clearing any previous preference in the same transaction.
func (s *Store) SetPreferredMember(ctx context.Context, groupID, itemID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set preferred member: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE substituteGroupMembers SET isPreferred = 0 WHERE groupID = ?
	`, groupID); err != nil {
		return fmt.Errorf("set preferred member: clear: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE substituteGroupMembers SET isPreferred = 1
		WHERE groupID = ? AND itemID = ?
	`, groupID, itemID)
	if err != nil {
		return fmt.Errorf("set preferred member: %w", err)
	}
	if err := requireRow(result, fmt.Sprintf("member %d of group %d", itemID, groupID)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set preferred member: commit: %w", err)
	}
	return nil
}

// CreateStageType inserts a stage-type rule row. Stage types are
// reference data; this exists for seeding and tests rather than for a
// user-facing operation.
func (s *Store) CreateStageType(ctx context.Context, st model.StageType) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO stageTypes
		(name, description, isRequired, malolactic, requiresStageTypeID, excludesStageTypeID)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`,
		st.Name,
		st.Description,
		boolToInt(st.IsRequired),
		boolToInt(st.Malolactic),
		st.RequiresStageTypeID,
		st.ExcludesStageTypeID,
	)
	if err != nil {
		return 0, fmt.Errorf("create stage type: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return result.LastInsertId()
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT stageTypeID FROM stageTypes WHERE name = ?`, st.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("create stage type: select existing: %w", err)
	}
	return id, nil
}

// CreateRecipe inserts a recipe with all of its stages and ingredient
// lines in a single transaction. Returns the recipe's generated ID.
//
// Stage and ingredient IDs inside the passed value are ignored; the
// database assigns fresh ones. Stages are written in slice order and
// must carry distinct stageOrder values (UNIQUE constraint).
func (s *Store) CreateRecipe(ctx context.Context, r model.Recipe) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create recipe: begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (name, description, batchSizeL, notes, isActive)
		VALUES (?, ?, ?, ?, 1)
	`, r.Name, r.Description, r.BatchSizeL, r.Notes)
	if err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	recipeID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create recipe: last insert id: %w", err)
	}

	for _, stage := range r.Stages {
		if err := insertStage(ctx, tx, recipeID, stage); err != nil {
			return 0, fmt.Errorf("create recipe: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create recipe: commit: %w", err)
	}
	return recipeID, nil
}

// ReplaceRecipeStages rewrites a recipe's stage list wholesale. The
// cascade on recipeStages removes the old ingredient lines too.
func (s *Store) ReplaceRecipeStages(ctx context.Context, recipeID int64, stages []model.RecipeStage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace recipe stages: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipeStages WHERE recipeID = ?`, recipeID); err != nil {
		return fmt.Errorf("replace recipe stages: clear: %w", err)
	}

	for _, stage := range stages {
		if err := insertStage(ctx, tx, recipeID, stage); err != nil {
			return fmt.Errorf("replace recipe stages: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace recipe stages: commit: %w", err)
	}
	return nil
}

// UpdateRecipe updates a recipe's header fields (name, description,
// batch size, notes). Stages are managed via ReplaceRecipeStages.
func (s *Store) UpdateRecipe(ctx context.Context, r model.Recipe) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes
		SET name = ?, description = ?, batchSizeL = ?, notes = ?
		WHERE recipeID = ?
	`, r.Name, r.Description, r.BatchSizeL, r.Notes, r.RecipeID)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	return requireRow(result, fmt.Sprintf("recipe %d", r.RecipeID))
}

// DeactivateRecipe soft-deletes a recipe.
func (s *Store) DeactivateRecipe(ctx context.Context, recipeID int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET isActive = 0 WHERE recipeID = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("deactivate recipe: %w", err)
	}
	return requireRow(result, fmt.Sprintf("recipe %d", recipeID))
}

// insertStage writes one stage and its ingredient lines inside an open
// transaction.
func insertStage(ctx context.Context, tx *sql.Tx, recipeID int64, stage model.RecipeStage) error {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO recipeStages
		(recipeID, stageTypeID, stageOrder, name, instructions, durationDays, isOptional)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		recipeID,
		stage.StageTypeID,
		stage.StageOrder,
		stage.Name,
		stage.Instructions,
		stage.DurationDays,
		boolToInt(stage.IsOptional),
	)
	if err != nil {
		return fmt.Errorf("insert stage %d: %w", stage.StageOrder, err)
	}
	stageID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert stage %d: last insert id: %w", stage.StageOrder, err)
	}

	for _, ing := range stage.Ingredients {
		if err := insertIngredient(ctx, tx, stageID, ing); err != nil {
			return fmt.Errorf("insert stage %d: %w", stage.StageOrder, err)
		}
	}
	return nil
}

// insertIngredient writes one ingredient line. The tagged selection is
// split into the nullable itemID/substituteGroupID pair the schema's
// CHECK constraint expects.
func insertIngredient(ctx context.Context, tx *sql.Tx, stageID int64, ing model.RecipeIngredient) error {
	var itemID, groupID *int64
	switch ing.Selection.Kind {
	case model.SelectionItem:
		itemID = &ing.Selection.ID
	case model.SelectionGroup:
		groupID = &ing.Selection.ID
	default:
		return fmt.Errorf("ingredient selection %v references neither an item nor a group", ing.Selection)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO recipeIngredients
		(stageID, itemID, substituteGroupID, amount, unit, timing, scalingMethod, stepSizeL, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		stageID,
		itemID,
		groupID,
		ing.Amount,
		ing.Unit,
		nullIfEmpty(ing.Timing),
		string(ing.Scaling.Name),
		ing.Scaling.StepSizeL,
		nullIfEmpty(ing.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// requireRow converts a zero-rows-affected update into a not-found error.
func requireRow(result sql.Result, subject string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found", subject)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
