package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/model"
	"github.com/roach88/brewcode/internal/scale"
	"github.com/roach88/brewcode/internal/store"
	"github.com/roach88/brewcode/internal/units"
)

// NewScaleCommand creates the scale command.
func NewScaleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath   string
		recipeID int64
		volume   float64
		unit     string
	)

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Produce a scaled worksheet for a recipe",
		Long: `Scale every ingredient line of a stored recipe to a target batch
size, honouring each line's scaling method (linear, fixed or step).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScale(rootOpts, dbPath, recipeID, volume, unit, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "brewcode.db", "path to the database file")
	cmd.Flags().Int64Var(&recipeID, "recipe", 0, "recipe ID")
	cmd.Flags().Float64Var(&volume, "volume", 0, "target batch size")
	cmd.Flags().StringVar(&unit, "unit", "l", "unit of the target batch size")
	_ = cmd.MarkFlagRequired("recipe")
	_ = cmd.MarkFlagRequired("volume")

	return cmd
}

func runScale(opts *RootOptions, dbPath string, recipeID int64, volume float64, unit string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	volumeL, err := units.Convert("volume", unit, "l", volume)
	if err != nil {
		_ = formatter.Error(ErrCodeBadConversion, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	recipe, err := s.LoadRecipe(ctx, recipeID)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading recipe", err)
	}

	ws, err := scale.Recipe(recipe, volumeL, nil)
	if err != nil {
		var se *scale.ScaleError
		if errors.As(err, &se) {
			_ = formatter.Error(string(se.Code), se.Message, se)
			return NewExitError(ExitFailure, se.Error())
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(ws)
	}
	fmt.Fprint(formatter.Writer, renderWorksheet(ctx, s, ws))
	return nil
}

// renderWorksheet renders a worksheet as text. Ingredient lines show
// the item name, or the substitute group name marked "(choice)".
func renderWorksheet(ctx context.Context, s *store.Store, ws *scale.Worksheet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %.4g L (scaled from %.4g L)\n", ws.RecipeName, ws.TargetBatchL, ws.BaseBatchL)
	fmt.Fprintf(&b, "worksheet %s\n", ws.Token)

	for _, stage := range ws.Stages {
		optional := ""
		if stage.IsOptional {
			optional = " (optional)"
		}
		fmt.Fprintf(&b, "\n%d. %s%s\n", stage.StageOrder, stage.Name, optional)
		for _, ing := range stage.Ingredients {
			name := ingredientDisplayName(ctx, s, ing.Ingredient.Selection)
			line := fmt.Sprintf("   %-30s %10.4g %s", name, ing.Amount, ing.Unit)
			if ing.Ingredient.Timing != "" {
				line += fmt.Sprintf("  [%s]", ing.Ingredient.Timing)
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func ingredientDisplayName(ctx context.Context, s *store.Store, sel model.Selection) string {
	switch sel.Kind {
	case model.SelectionItem:
		if item, err := s.GetItem(ctx, sel.ID); err == nil {
			return item.Name
		}
	case model.SelectionGroup:
		if group, err := s.GetSubstituteGroup(ctx, sel.ID); err == nil {
			return group.Name + " (choice)"
		}
	}
	return sel.String()
}
