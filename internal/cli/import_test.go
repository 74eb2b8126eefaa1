package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportValidRecipe(t *testing.T) {
	s, dbPath := newSeededStore(t)
	tmpDir := t.TempDir()
	writeRecipeFile(t, tmpDir, "mead.cue", validMeadRecipe)

	buf := &bytes.Buffer{}
	cmd := NewImportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, tmpDir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `Imported "Traditional Mead"`)

	// The recipe is actually in the database
	recipes, err := s.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Traditional Mead", recipes[0].Name)

	recipe, err := s.LoadRecipe(context.Background(), recipes[0].RecipeID)
	require.NoError(t, err)
	assert.Len(t, recipe.Stages, 3)
}

func TestImportValidRecipeJSON(t *testing.T) {
	_, dbPath := newSeededStore(t)
	tmpDir := t.TempDir()
	writeRecipeFile(t, tmpDir, "mead.cue", validMeadRecipe)

	buf := &bytes.Buffer{}
	cmd := NewImportCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, tmpDir})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ImportResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "Traditional Mead", result.Imported[0].Name)
	assert.Positive(t, result.Imported[0].RecipeID)
}

func TestImportRejectsUnknownNames(t *testing.T) {
	s, dbPath := newSeededStore(t)
	tmpDir := t.TempDir()
	writeRecipeFile(t, tmpDir, "bad.cue", `
package recipes

recipe: bad: {
	name:       "Mystery Brew"
	batchSizeL: 10
	stages: [
		{
			type: "Fermentation"
			ingredients: [
				{item: "Philosopher Stone", amount: 1, unit: "g"},
			]
		},
	]
}
`)

	buf := &bytes.Buffer{}
	cmd := NewImportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, tmpDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Philosopher Stone")

	recipes, listErr := s.ListRecipes(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, recipes)
}

func TestImportRejectsRuleViolations(t *testing.T) {
	s, dbPath := newSeededStore(t)
	tmpDir := t.TempDir()

	// Back Sweeten without Stabilisation, and no Fermentation at all
	writeRecipeFile(t, tmpDir, "bad.cue", `
package recipes

recipe: bad: {
	name:       "Sweet Trouble"
	batchSizeL: 10
	stages: [
		{type: "Back Sweeten"},
	]
}
`)

	buf := &bytes.Buffer{}
	cmd := NewImportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, tmpDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "REQUIRED_STAGE")
	assert.Contains(t, output, "MISSING_PREREQUISITE")

	recipes, listErr := s.ListRecipes(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, recipes)
}

func TestImportPartialSuccess(t *testing.T) {
	s, dbPath := newSeededStore(t)
	tmpDir := t.TempDir()
	writeRecipeFile(t, tmpDir, "mead.cue", validMeadRecipe)
	writeRecipeFile(t, tmpDir, "bad.cue", `
package recipes

recipe: bad: {
	name:       "Broken"
	batchSizeL: 10
	stages: [
		{
			type: "Fermentation"
			ingredients: [
				{item: "Nope", amount: 1, unit: "g"},
			]
		},
	]
}
`)

	buf := &bytes.Buffer{}
	cmd := NewImportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, tmpDir})

	// The good recipe lands, the run still reports failure
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), `Imported "Traditional Mead"`)

	recipes, listErr := s.ListRecipes(context.Background())
	require.NoError(t, listErr)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Traditional Mead", recipes[0].Name)
}
