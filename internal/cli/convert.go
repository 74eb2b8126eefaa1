package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/units"
)

// ConversionResult is one unit conversion.
type ConversionResult struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Result   float64 `json:"result"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "convert [category value from to]",
		Short: "Convert a value between measurement units",
		Long: `Convert a value within one measurement category (volume, mass,
temperature, density or alcohol). Unit names accept display labels and
are matched case-insensitively, so "°Bx", "brix" and "BRIX" are the
same unit.

Use --list to print the categories and the units each one supports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return runConvertList(rootOpts, cmd)
			}
			if len(args) != 4 {
				return NewExitError(ExitCommandError, "expected: convert <category> <value> <from> <to>")
			}
			return runConvert(rootOpts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list categories and their units")

	return cmd
}

func runConvert(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	category, rawValue, from, to := args[0], args[1], args[2], args[3]

	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		_ = formatter.Error(ErrCodeBadConversion, fmt.Sprintf("not a number: %q", rawValue), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("not a number: %q", rawValue))
	}

	result, err := units.Convert(category, from, to, value)
	if err != nil {
		_ = formatter.Error(ErrCodeBadConversion, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	conv := ConversionResult{
		Category: category,
		Value:    value,
		From:     from,
		To:       to,
		Result:   result,
	}

	if formatter.Format == "json" {
		return formatter.Success(conv)
	}
	fmt.Fprintf(formatter.Writer, "%.6g %s = %.6g %s\n", value, from, result, to)
	return nil
}

func runConvertList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	listing := make(map[string][]string)
	for _, category := range units.Categories() {
		us, err := units.Units(category)
		if err != nil {
			continue
		}
		listing[category] = us
	}

	if formatter.Format == "json" {
		return formatter.Success(listing)
	}
	for _, category := range units.Categories() {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", category, strings.Join(listing[category], ", "))
	}
	return nil
}
