package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brewcode/internal/compiler"
	"github.com/roach88/brewcode/internal/model"
	"github.com/roach88/brewcode/internal/store"
)

func TestShoppingCommandResolvesPreferred(t *testing.T) {
	s, dbPath := newSeededStore(t)
	recipeID := createMeadRecipe(t, s)

	buf := &bytes.Buffer{}
	cmd := NewShoppingCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--recipe", fmt.Sprint(recipeID)})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var list ShoppingList
	require.NoError(t, json.Unmarshal(raw, &list))

	assert.Equal(t, "Traditional Mead", list.RecipeName)
	assert.Equal(t, 20.0, list.BatchL)
	assert.Empty(t, list.Ambiguous)

	// The Wine Yeast group resolves to its preferred member
	names := make(map[string]string)
	for _, line := range list.Lines {
		names[line.ItemName] = line.FromGroup
	}
	assert.Contains(t, names, "Wildflower Honey")
	assert.Contains(t, names, "EC-1118")
	assert.Equal(t, "Wine Yeast", names["EC-1118"])
}

func TestShoppingCommandScalesToVolume(t *testing.T) {
	s, dbPath := newSeededStore(t)
	recipeID := createMeadRecipe(t, s)

	buf := &bytes.Buffer{}
	cmd := NewShoppingCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--recipe", fmt.Sprint(recipeID), "--volume", "40"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var list ShoppingList
	require.NoError(t, json.Unmarshal(raw, &list))

	amounts := make(map[string]float64)
	for _, line := range list.Lines {
		amounts[line.ItemName] = line.Amount
	}
	assert.Equal(t, 7000.0, amounts["Wildflower Honey"]) // linear, doubled
	assert.Equal(t, 5.0, amounts["EC-1118"])             // fixed
	assert.Equal(t, 36.0, amounts["Fermaid-O"])          // step, 8 steps of 4.5
}

func TestShoppingCommandAggregatesSameItem(t *testing.T) {
	s, dbPath := newSeededStore(t)

	ctx := context.Background()
	cat, err := loadCatalog(ctx, s)
	require.NoError(t, err)

	// The same item twice in the same unit, across two stages
	def := compiler.RecipeDef{
		Name:       "Split Additions",
		BatchSizeL: 10,
		Stages: []compiler.StageDef{
			{
				Type: "Preparation", Name: "Preparation", Order: 1,
				Ingredients: []compiler.IngredientDef{
					{Item: "Dextrose", Amount: 100, Unit: "g", Scaling: "linear"},
				},
			},
			{
				Type: "Fermentation", Name: "Fermentation", Order: 2,
				Ingredients: []compiler.IngredientDef{
					{Item: "Dextrose", Amount: 50, Unit: "g", Scaling: "linear"},
				},
			},
		},
	}
	recipe, errs := cat.resolveRecipe(def)
	require.Empty(t, errs)
	recipeID, err := s.CreateRecipe(ctx, recipe)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	cmd := NewShoppingCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--recipe", fmt.Sprint(recipeID)})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var list ShoppingList
	require.NoError(t, json.Unmarshal(raw, &list))

	require.Len(t, list.Lines, 1)
	assert.Equal(t, "Dextrose", list.Lines[0].ItemName)
	assert.Equal(t, 150.0, list.Lines[0].Amount)
}

func TestShoppingCommandAmbiguousGroup(t *testing.T) {
	s, dbPath := newSeededStore(t)

	ctx := context.Background()

	// A group with two members and no preferred pick
	groupID, err := s.CreateSubstituteGroup(ctx, model.SubstituteGroup{Name: "Table Sugar"})
	require.NoError(t, err)
	for _, name := range []string{"Dextrose", "Sucrose"} {
		item, err := findItemByName(ctx, s, name)
		require.NoError(t, err)
		require.NoError(t, s.AddGroupMember(ctx, groupID, item.ItemID, false))
	}

	cat, err := loadCatalog(ctx, s)
	require.NoError(t, err)

	def := compiler.RecipeDef{
		Name:       "Undecided Cider",
		BatchSizeL: 10,
		Stages: []compiler.StageDef{
			{
				Type: "Fermentation", Name: "Fermentation", Order: 1,
				Ingredients: []compiler.IngredientDef{
					{Group: "Table Sugar", Amount: 500, Unit: "g", Scaling: "linear"},
				},
			},
		},
	}
	recipe, errs := cat.resolveRecipe(def)
	require.Empty(t, errs)
	recipeID, err := s.CreateRecipe(ctx, recipe)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	cmd := NewShoppingCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--recipe", fmt.Sprint(recipeID)})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "Table Sugar")
	assert.Contains(t, output, "Dextrose")
	assert.Contains(t, output, "Sucrose")
}

func findItemByName(ctx context.Context, s *store.Store, name string) (model.Item, error) {
	items, err := s.ListItems(ctx, 0)
	if err != nil {
		return model.Item{}, err
	}
	for _, it := range items {
		if it.Name == name {
			return it, nil
		}
	}
	return model.Item{}, fmt.Errorf("item %q not found", name)
}
