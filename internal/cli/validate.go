package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/store"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Recipes []string `json:"recipes,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "validate <recipes-dir>",
		Short: "Check recipe definitions without storing them",
		Long: `Compile CUE recipe definitions and run the stage constraint rules
without writing anything.

Name references are checked against the database given with --db; with
no --db, the shipped reference catalog is used, so definitions that only
use seeded items and groups validate without a database.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the database file (optional)")

	return cmd
}

func runValidate(opts *RootOptions, recipesDir, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
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

	cat, cleanup, err := validationCatalog(cmd, dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading catalog", err)
	}
	defer cleanup()

	result := ValidationResult{Valid: true}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, err.Error())
	}

	for _, def := range loadResult.Recipes {
		formatter.VerboseLog("Validating recipe: %s", def.Name)
		result.Recipes = append(result.Recipes, def.Name)

		recipe, resolveErrs := cat.resolveRecipe(def)
		for _, e := range resolveErrs {
			result.Errors = append(result.Errors, e.Error())
		}
		if len(resolveErrs) > 0 {
			continue
		}

		for _, v := range cat.checkStageRules(recipe) {
			result.Errors = append(result.Errors, fmt.Sprintf("recipe %q: %s", def.Name, v.Error()))
		}
	}

	result.Valid = len(result.Errors) == 0
	return outputValidationResult(formatter, result)
}

// validationCatalog opens the catalog to resolve against: the given
// database, or an in-memory seeded one so validation works standalone.
func validationCatalog(cmd *cobra.Command, dbPath string) (*catalog, func(), error) {
	path := dbPath
	if path == "" {
		path = ":memory:"
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if dbPath == "" {
		if err := s.Seed(cmd.Context()); err != nil {
			s.Close()
			return nil, nil, err
		}
	}

	cat, err := loadCatalog(cmd.Context(), s)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return cat, func() { s.Close() }, nil
}

func outputValidationResult(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		if !result.Valid {
			_ = formatter.Success(result)
			return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
		}
		return formatter.Success(result)
	}

	if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %d recipe(s) valid\n", len(result.Recipes))
		return nil
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s\n", e)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}
