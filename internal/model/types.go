package model

// Category is a top-level ingredient grouping (reference data).
type Category struct {
	CategoryID  int64  `json:"categoryID"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// Subcategory is an optional refinement of a category.
type Subcategory struct {
	SubcategoryID int64  `json:"subcategoryID"`
	CategoryID    int64  `json:"categoryID"`
	Name          string `json:"name"`
}

// Item is a purchasable/usable ingredient. Every item belongs to
// exactly one category; the subcategory is optional.
type Item struct {
	ItemID             int64  `json:"itemID"`
	CategoryID         int64  `json:"categoryID"`
	SubcategoryID      *int64 `json:"subcategoryID,omitempty"`
	Name               string `json:"name"`
	Unit               string `json:"unit"`
	OnDemand           bool   `json:"onDemand"`
	IsInventoryTracked bool   `json:"isInventoryTracked"`
	IsActive           bool   `json:"isActive"`
}

// SubstituteGroup is a named set of interchangeable items.
// An item may belong to multiple groups.
type SubstituteGroup struct {
	GroupID int64                   `json:"groupID"`
	Name    string                  `json:"name"`
	Notes   string                  `json:"notes,omitempty"`
	Members []SubstituteGroupMember `json:"members,omitempty"`
}

// SubstituteGroupMember links an item into a group. At most one member
// should be flagged preferred; the resolver treats anything else as
// ambiguous.
type SubstituteGroupMember struct {
	GroupID     int64  `json:"groupID"`
	ItemID      int64  `json:"itemID"`
	ItemName    string `json:"itemName,omitempty"`
	IsPreferred bool   `json:"isPreferred"`
}

// StageType is a system-defined stage template (reference data).
// RequiresStageTypeID and ExcludesStageTypeID are single-level
// self-references in the seed data, but consumers must not assume that.
type StageType struct {
	StageTypeID         int64  `json:"stageTypeID"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	IsRequired          bool   `json:"isRequired"`
	Malolactic          bool   `json:"malolactic"`
	RequiresStageTypeID *int64 `json:"requiresStageTypeID,omitempty"`
	ExcludesStageTypeID *int64 `json:"excludesStageTypeID,omitempty"`
}

// Recipe is a user-authored recipe with a base batch size in litres.
type Recipe struct {
	RecipeID    int64   `json:"recipeID"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BatchSizeL  float64 `json:"batchSizeL"`
	Notes       string  `json:"notes,omitempty"`
	IsActive    bool    `json:"isActive"`

	// Stages are ordered by StageOrder when loaded from the store.
	Stages []RecipeStage `json:"stages,omitempty"`
}

// RecipeStage is an instance of a stage type within a recipe.
type RecipeStage struct {
	StageID      int64  `json:"stageID"`
	RecipeID     int64  `json:"recipeID"`
	StageTypeID  int64  `json:"stageTypeID"`
	StageOrder   int    `json:"stageOrder"`
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
	DurationDays *int   `json:"durationDays,omitempty"`
	IsOptional   bool   `json:"isOptional"`

	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
}

// RecipeIngredient is a quantity of one item (or one substitute group)
// attached to a stage. The item/group choice is a tagged Selection;
// the storage layer enforces the same exactly-one-of rule with a CHECK
// constraint.
type RecipeIngredient struct {
	RecipeIngredientID int64         `json:"recipeIngredientID"`
	StageID            int64         `json:"stageID"`
	Selection          Selection     `json:"selection"`
	Amount             float64       `json:"amount"`
	Unit               string        `json:"unit"`
	Timing             string        `json:"timing,omitempty"`
	Scaling            ScalingMethod `json:"scaling"`
	Notes              string        `json:"notes,omitempty"`
}
