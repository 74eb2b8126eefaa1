package store

import (
	"context"
	"testing"

	"github.com/roach88/brewcode/internal/model"
)

func TestCreateCategory_ReturnsID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.CreateCategory(ctx, "Fruit", "Fresh fruit")
	if err != nil {
		t.Fatalf("CreateCategory() failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero category ID")
	}
}

func TestCreateCategory_DuplicateReturnsExistingID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id1, err := s.CreateCategory(ctx, "Fruit", "Fresh fruit")
	if err != nil {
		t.Fatalf("first CreateCategory() failed: %v", err)
	}
	id2, err := s.CreateCategory(ctx, "Fruit", "different description")
	if err != nil {
		t.Fatalf("second CreateCategory() failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("duplicate create returned %d, want existing %d", id2, id1)
	}
}

func TestCreateItem_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	catID := createTestCategory(t, s, "Yeast")
	id, err := s.CreateItem(ctx, model.Item{
		CategoryID: catID,
		Name:       "EC-1118",
		Unit:       "packet",
		OnDemand:   true,
	})
	if err != nil {
		t.Fatalf("CreateItem() failed: %v", err)
	}

	got, err := s.GetItem(ctx, id)
	if err != nil {
		t.Fatalf("GetItem() failed: %v", err)
	}
	if got.Name != "EC-1118" || got.Unit != "packet" || !got.OnDemand || !got.IsActive {
		t.Errorf("GetItem() = %+v, fields do not round-trip", got)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := createTestStore(t)
	catID := createTestCategory(t, s, "Yeast")

	err := s.UpdateItem(context.Background(), model.Item{
		ItemID:     999,
		CategoryID: catID,
		Name:       "ghost",
		Unit:       "g",
	})
	if err == nil {
		t.Error("expected error updating missing item, got nil")
	}
}

func TestDeactivateItem_HiddenFromListing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	catID := createTestCategory(t, s, "Yeast")
	id := createTestItem(t, s, catID, "EC-1118", "packet")

	if err := s.DeactivateItem(ctx, id); err != nil {
		t.Fatalf("DeactivateItem() failed: %v", err)
	}

	items, err := s.ListItems(ctx, 0)
	if err != nil {
		t.Fatalf("ListItems() failed: %v", err)
	}
	for _, it := range items {
		if it.ItemID == id {
			t.Error("deactivated item still listed")
		}
	}

	// Still retrievable directly
	got, err := s.GetItem(ctx, id)
	if err != nil {
		t.Fatalf("GetItem() after deactivate failed: %v", err)
	}
	if got.IsActive {
		t.Error("item still flagged active after deactivate")
	}
}

func TestCreateSubstituteGroup_WithMembers(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	catID := createTestCategory(t, s, "Yeast")
	ec := createTestItem(t, s, catID, "EC-1118", "packet")
	lalvin := createTestItem(t, s, catID, "71B", "packet")

	groupID, err := s.CreateSubstituteGroup(ctx, model.SubstituteGroup{
		Name: "Wine Yeast",
		Members: []model.SubstituteGroupMember{
			{ItemID: ec, IsPreferred: true},
			{ItemID: lalvin},
		},
	})
	if err != nil {
		t.Fatalf("CreateSubstituteGroup() failed: %v", err)
	}

	got, err := s.GetSubstituteGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("GetSubstituteGroup() failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got.Members))
	}

	var preferred int
	for _, m := range got.Members {
		if m.ItemName == "" {
			t.Error("member item name not joined")
		}
		if m.IsPreferred {
			preferred++
		}
	}
	if preferred != 1 {
		t.Errorf("expected exactly 1 preferred member, got %d", preferred)
	}
}

func TestCreateSubstituteGroup_RollsBackOnBadMember(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.CreateSubstituteGroup(ctx, model.SubstituteGroup{
		Name: "Broken",
		Members: []model.SubstituteGroupMember{
			{ItemID: 999}, // no such item
		},
	})
	if err == nil {
		t.Fatal("expected error for member referencing missing item")
	}

	// The group row must not survive the failed transaction
	groups, err := s.ListSubstituteGroups(ctx)
	if err != nil {
		t.Fatalf("ListSubstituteGroups() failed: %v", err)
	}
	for _, g := range groups {
		if g.Name == "Broken" {
			t.Error("half-written group visible after rollback")
		}
	}
}

func TestSetPreferredMember_MovesPreference(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	catID := createTestCategory(t, s, "Yeast")
	ec := createTestItem(t, s, catID, "EC-1118", "packet")
	lalvin := createTestItem(t, s, catID, "71B", "packet")

	groupID, err := s.CreateSubstituteGroup(ctx, model.SubstituteGroup{
		Name: "Wine Yeast",
		Members: []model.SubstituteGroupMember{
			{ItemID: ec, IsPreferred: true},
			{ItemID: lalvin},
		},
	})
	if err != nil {
		t.Fatalf("CreateSubstituteGroup() failed: %v", err)
	}

	if err := s.SetPreferredMember(ctx, groupID, lalvin); err != nil {
		t.Fatalf("SetPreferredMember() failed: %v", err)
	}

	got, err := s.GetSubstituteGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("GetSubstituteGroup() failed: %v", err)
	}
	for _, m := range got.Members {
		want := m.ItemID == lalvin
		if m.IsPreferred != want {
			t.Errorf("member %d preferred = %v, want %v", m.ItemID, m.IsPreferred, want)
		}
	}
}

func TestSetPreferredMember_UnknownMember(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	catID := createTestCategory(t, s, "Yeast")
	ec := createTestItem(t, s, catID, "EC-1118", "packet")
	groupID, err := s.CreateSubstituteGroup(ctx, model.SubstituteGroup{
		Name:    "Wine Yeast",
		Members: []model.SubstituteGroupMember{{ItemID: ec}},
	})
	if err != nil {
		t.Fatalf("CreateSubstituteGroup() failed: %v", err)
	}

	if err := s.SetPreferredMember(ctx, groupID, 999); err == nil {
		t.Error("expected error for item outside the group, got nil")
	}
}

func TestCreateRecipe_FullAggregate(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	honeyID := seedItemID(t, s, "Wildflower Honey")
	fermentationID := seedStageTypeID(t, s, "Fermentation")
	yeastGroupID := seedGroupID(t, s, "Wine Yeast")

	days := 14
	recipeID, err := s.CreateRecipe(ctx, model.Recipe{
		Name:       "Traditional Mead",
		BatchSizeL: 20,
		Stages: []model.RecipeStage{
			{
				StageTypeID:  fermentationID,
				StageOrder:   1,
				Name:         "Primary",
				DurationDays: &days,
				Ingredients: []model.RecipeIngredient{
					{
						Selection: model.SelectItem(honeyID),
						Amount:    6,
						Unit:      "kg",
						Scaling:   model.Linear(),
					},
					{
						Selection: model.SelectGroup(yeastGroupID),
						Amount:    1,
						Unit:      "packet",
						Timing:    "at pitch",
						Scaling:   model.Step(20),
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateRecipe() failed: %v", err)
	}

	got, err := s.LoadRecipe(ctx, recipeID)
	if err != nil {
		t.Fatalf("LoadRecipe() failed: %v", err)
	}
	if len(got.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(got.Stages))
	}

	stage := got.Stages[0]
	if stage.DurationDays == nil || *stage.DurationDays != 14 {
		t.Errorf("durationDays did not round-trip: %v", stage.DurationDays)
	}
	if len(stage.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(stage.Ingredients))
	}

	honey := stage.Ingredients[0]
	if honey.Selection.Kind != model.SelectionItem || honey.Selection.ID != honeyID {
		t.Errorf("honey selection = %v", honey.Selection)
	}
	if honey.Scaling.Name != model.MethodLinear {
		t.Errorf("honey scaling = %v", honey.Scaling)
	}

	yeast := stage.Ingredients[1]
	if yeast.Selection.Kind != model.SelectionGroup || yeast.Selection.ID != yeastGroupID {
		t.Errorf("yeast selection = %v", yeast.Selection)
	}
	if yeast.Scaling.Name != model.MethodStep || yeast.Scaling.StepSizeL == nil || *yeast.Scaling.StepSizeL != 20 {
		t.Errorf("yeast scaling = %v", yeast.Scaling)
	}
	if yeast.Timing != "at pitch" {
		t.Errorf("yeast timing = %q", yeast.Timing)
	}
}

func TestCreateRecipe_InvalidSelectionRejected(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	_, err := s.CreateRecipe(ctx, model.Recipe{
		Name:       "Broken",
		BatchSizeL: 20,
		Stages: []model.RecipeStage{
			{
				StageTypeID: seedStageTypeID(t, s, "Fermentation"),
				StageOrder:  1,
				Name:        "Primary",
				Ingredients: []model.RecipeIngredient{
					{Amount: 1, Unit: "kg", Scaling: model.Linear()}, // zero Selection
				},
			},
		},
	})
	if err == nil {
		t.Error("expected error for ingredient with no selection, got nil")
	}
}

func TestReplaceRecipeStages_SwapsTree(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	prepID := seedStageTypeID(t, s, "Preparation")
	fermID := seedStageTypeID(t, s, "Fermentation")

	recipeID, err := s.CreateRecipe(ctx, model.Recipe{
		Name:       "Cider",
		BatchSizeL: 10,
		Stages: []model.RecipeStage{
			{StageTypeID: prepID, StageOrder: 1, Name: "Prep"},
			{StageTypeID: fermID, StageOrder: 2, Name: "Primary"},
		},
	})
	if err != nil {
		t.Fatalf("CreateRecipe() failed: %v", err)
	}

	err = s.ReplaceRecipeStages(ctx, recipeID, []model.RecipeStage{
		{StageTypeID: fermID, StageOrder: 1, Name: "Primary only"},
	})
	if err != nil {
		t.Fatalf("ReplaceRecipeStages() failed: %v", err)
	}

	got, err := s.LoadRecipe(ctx, recipeID)
	if err != nil {
		t.Fatalf("LoadRecipe() failed: %v", err)
	}
	if len(got.Stages) != 1 || got.Stages[0].Name != "Primary only" {
		t.Errorf("stages after replace = %+v", got.Stages)
	}
}

func TestDeactivateRecipe_HiddenFromListing(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	recipeID, err := s.CreateRecipe(ctx, model.Recipe{
		Name:       "Cider",
		BatchSizeL: 10,
		Stages: []model.RecipeStage{
			{StageTypeID: seedStageTypeID(t, s, "Fermentation"), StageOrder: 1, Name: "Primary"},
		},
	})
	if err != nil {
		t.Fatalf("CreateRecipe() failed: %v", err)
	}

	if err := s.DeactivateRecipe(ctx, recipeID); err != nil {
		t.Fatalf("DeactivateRecipe() failed: %v", err)
	}

	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("ListRecipes() failed: %v", err)
	}
	for _, r := range recipes {
		if r.RecipeID == recipeID {
			t.Error("deactivated recipe still listed")
		}
	}
}
