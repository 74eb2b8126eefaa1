package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/ferment"
)

// ABVResult is one ABV estimate.
type ABVResult struct {
	ABV     float64 `json:"abv"`
	Formula string  `json:"formula"`
}

// NewABVCommand creates the abv command.
func NewABVCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		og          float64
		fg          float64
		formula     string
		scale       string
		tempScale   string
		calibration float64
		ogTemp      float64
		fgTemp      float64
	)

	cmd := &cobra.Command{
		Use:   "abv",
		Short: "Estimate alcohol by volume from two gravity readings",
		Long: fmt.Sprintf(`Estimate ABV from original and final gravity readings. Readings may
be in any density scale (sg, brix, oechsle, plato, tw); each reading
taken away from the hydrometer's calibration temperature can carry its
own measurement temperature and is corrected before the formula runs.

Formulas: %s.`, strings.Join(ferment.FormulaKeys(), ", ")),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ferment.ABVInput{
				Formula:         formula,
				DensityScale:    scale,
				TempScale:       tempScale,
				CalibrationTemp: calibration,
				Original:        ferment.Reading{Value: og},
				Final:           ferment.Reading{Value: fg},
			}
			if cmd.Flags().Changed("og-temp") {
				in.Original.Temp = &ogTemp
			}
			if cmd.Flags().Changed("fg-temp") {
				in.Final.Temp = &fgTemp
			}
			return runABV(rootOpts, in, cmd)
		},
	}

	cmd.Flags().Float64Var(&og, "og", 0, "original gravity reading")
	cmd.Flags().Float64Var(&fg, "fg", 0, "final gravity reading")
	cmd.Flags().StringVar(&formula, "formula", "basic", "ABV formula")
	cmd.Flags().StringVar(&scale, "scale", "sg", "density scale of both readings")
	cmd.Flags().StringVar(&tempScale, "temp-scale", "c", "temperature scale")
	cmd.Flags().Float64Var(&calibration, "calibration", 20, "hydrometer calibration temperature")
	cmd.Flags().Float64Var(&ogTemp, "og-temp", 0, "temperature of the original reading")
	cmd.Flags().Float64Var(&fgTemp, "fg-temp", 0, "temperature of the final reading")
	_ = cmd.MarkFlagRequired("og")
	_ = cmd.MarkFlagRequired("fg")

	return cmd
}

func runABV(opts *RootOptions, in ferment.ABVInput, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	abv, err := ferment.ABV(in)
	if err != nil {
		_ = formatter.Error(ErrCodeBadConversion, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	result := ABVResult{ABV: abv, Formula: in.Formula}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "ABV: %.2f%% (%s)\n", abv, in.Formula)
	return nil
}
