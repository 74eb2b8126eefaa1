package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/store"
)

// ImportResult summarizes an import run.
type ImportResult struct {
	Imported []ImportedRecipe `json:"imported"`
	Errors   []string         `json:"errors,omitempty"`
}

// ImportedRecipe names one stored recipe and its assigned ID.
type ImportedRecipe struct {
	RecipeID int64  `json:"recipeID"`
	Name     string `json:"name"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <recipes-dir>",
		Short: "Compile, validate and store CUE recipe definitions",
		Long: `Compile every CUE recipe definition in a directory, resolve item and
substitute-group names against the catalog, check the stage rules, and
store the recipes that pass. Each recipe is written in a single
transaction; failures never leave partial recipes behind.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "brewcode.db", "path to the database file")

	return cmd
}

func runImport(opts *RootOptions, recipesDir, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadRecipes(recipesDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, recipesDir)

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	cat, err := loadCatalog(ctx, s)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading catalog", err)
	}

	result := ImportResult{}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, err.Error())
	}

	for _, def := range loadResult.Recipes {
		formatter.VerboseLog("Importing recipe: %s", def.Name)

		recipe, resolveErrs := cat.resolveRecipe(def)
		if len(resolveErrs) > 0 {
			for _, e := range resolveErrs {
				result.Errors = append(result.Errors, e.Error())
			}
			continue
		}

		violations := cat.checkStageRules(recipe)
		if len(violations) > 0 {
			for _, v := range violations {
				result.Errors = append(result.Errors, fmt.Sprintf("recipe %q: %s", def.Name, v.Error()))
			}
			continue
		}

		id, err := s.CreateRecipe(ctx, recipe)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("recipe %q: %v", def.Name, err))
			continue
		}
		slog.Debug("recipe stored",
			"recipe_id", id,
			"name", def.Name,
			"stages", len(recipe.Stages),
		)
		result.Imported = append(result.Imported, ImportedRecipe{RecipeID: id, Name: def.Name})
	}

	return outputImportResult(formatter, result)
}

func outputImportResult(formatter *OutputFormatter, result ImportResult) error {
	if formatter.Format == "json" {
		if len(result.Errors) > 0 {
			_ = formatter.Success(result)
			return NewExitError(ExitFailure, fmt.Sprintf("import finished with %d error(s)", len(result.Errors)))
		}
		return formatter.Success(result)
	}

	for _, r := range result.Imported {
		fmt.Fprintf(formatter.Writer, "Imported %q (recipe %d)\n", r.Name, r.RecipeID)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, e := range result.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("import finished with %d error(s)", len(result.Errors)))
	}
	if len(result.Imported) == 0 {
		fmt.Fprintln(formatter.Writer, "Nothing to import")
	}
	return nil
}
