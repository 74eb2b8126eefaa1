package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/model"
	"github.com/roach88/brewcode/internal/scale"
	"github.com/roach88/brewcode/internal/store"
	"github.com/roach88/brewcode/internal/substitute"
)

// ShoppingList is the resolved, aggregated ingredient list for one
// recipe at one batch size.
type ShoppingList struct {
	RecipeID   int64          `json:"recipeID"`
	RecipeName string         `json:"recipeName"`
	BatchL     float64        `json:"batchL"`
	Lines      []ShoppingLine `json:"lines"`
	Ambiguous  []AmbiguousSub `json:"ambiguous,omitempty"`
}

// ShoppingLine is one aggregated item total.
type ShoppingLine struct {
	ItemID    int64   `json:"itemID"`
	ItemName  string  `json:"itemName"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	FromGroup string  `json:"fromGroup,omitempty"`
}

// AmbiguousSub reports a substitute group the resolver could not
// decide, with the candidates the user must choose between.
type AmbiguousSub struct {
	GroupID    int64    `json:"groupID"`
	GroupName  string   `json:"groupName"`
	Candidates []string `json:"candidates"`
}

// NewShoppingCommand creates the shopping command.
func NewShoppingCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath   string
		recipeID int64
		volume   float64
	)

	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Build a resolved shopping list for a recipe",
		Long: `Resolve every ingredient line of a recipe to a concrete item
(substitute groups resolve to their preferred member), scale to the
target batch size, and aggregate equal items. Groups without exactly
one preferred member are reported as ambiguous; the command never picks
one for you.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShopping(rootOpts, dbPath, recipeID, volume, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "brewcode.db", "path to the database file")
	cmd.Flags().Int64Var(&recipeID, "recipe", 0, "recipe ID")
	cmd.Flags().Float64Var(&volume, "volume", 0, "target batch size in litres (defaults to the recipe's own)")
	_ = cmd.MarkFlagRequired("recipe")

	return cmd
}

func runShopping(opts *RootOptions, dbPath string, recipeID int64, volume float64, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
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

	if volume == 0 {
		volume = recipe.BatchSizeL
	}

	ws, err := scale.Recipe(recipe, volume, nil)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	groups, err := s.GroupsForRecipe(ctx, recipeID)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading substitute groups", err)
	}

	list, err := buildShoppingList(ctx, s, ws, groups)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "resolving ingredients", err)
	}

	return outputShoppingList(formatter, list)
}

// buildShoppingList resolves and aggregates the scaled lines. Equal
// items in the same unit merge into one line; ambiguous groups are
// collected once each.
func buildShoppingList(ctx context.Context, s *store.Store, ws *scale.Worksheet, groups map[int64]model.SubstituteGroup) (*ShoppingList, error) {
	list := &ShoppingList{
		RecipeID:   ws.RecipeID,
		RecipeName: ws.RecipeName,
		BatchL:     ws.TargetBatchL,
	}

	type key struct {
		itemID int64
		unit   string
	}
	totals := make(map[key]*ShoppingLine)
	var order []key
	seenAmbiguous := make(map[int64]bool)

	for _, stage := range ws.Stages {
		for _, ing := range stage.Ingredients {
			res, err := substitute.Resolve(ing.Ingredient.Selection, groups)
			if err != nil {
				var re *substitute.ResolveError
				if substitute.IsAmbiguous(err) && errors.As(err, &re) {
					if !seenAmbiguous[re.GroupID] {
						seenAmbiguous[re.GroupID] = true
						candidates := make([]string, 0, len(re.Candidates))
						for _, c := range re.Candidates {
							candidates = append(candidates, c.ItemName)
						}
						list.Ambiguous = append(list.Ambiguous, AmbiguousSub{
							GroupID:    re.GroupID,
							GroupName:  re.GroupName,
							Candidates: candidates,
						})
					}
					continue
				}
				return nil, err
			}

			name := res.ItemName
			if name == "" {
				if item, err := s.GetItem(ctx, res.ItemID); err == nil {
					name = item.Name
				}
			}

			k := key{itemID: res.ItemID, unit: ing.Unit}
			line, ok := totals[k]
			if !ok {
				line = &ShoppingLine{ItemID: res.ItemID, ItemName: name, Unit: ing.Unit}
				if res.FromGroup != nil {
					if g, ok := groups[*res.FromGroup]; ok {
						line.FromGroup = g.Name
					}
				}
				totals[k] = line
				order = append(order, k)
			}
			line.Amount += ing.Amount
		}
	}

	for _, k := range order {
		list.Lines = append(list.Lines, *totals[k])
	}
	return list, nil
}

func outputShoppingList(formatter *OutputFormatter, list *ShoppingList) error {
	if formatter.Format == "json" {
		if len(list.Ambiguous) > 0 {
			_ = formatter.Success(list)
			return NewExitError(ExitFailure, fmt.Sprintf("%d ambiguous substitute group(s)", len(list.Ambiguous)))
		}
		return formatter.Success(list)
	}

	fmt.Fprintf(formatter.Writer, "Shopping list: %s (%.4g L)\n\n", list.RecipeName, list.BatchL)
	for _, line := range list.Lines {
		suffix := ""
		if line.FromGroup != "" {
			suffix = fmt.Sprintf("  (for %s)", line.FromGroup)
		}
		fmt.Fprintf(formatter.Writer, "  %-30s %10.4g %s%s\n", line.ItemName, line.Amount, line.Unit, suffix)
	}

	if len(list.Ambiguous) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, a := range list.Ambiguous {
			fmt.Fprintf(formatter.Writer, "  ! %s needs a choice: %v\n", a.GroupName, a.Candidates)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d ambiguous substitute group(s)", len(list.Ambiguous)))
	}
	return nil
}
