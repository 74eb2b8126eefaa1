package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/ferment"
)

// NewPrimeCommand creates the prime command.
func NewPrimeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		volume    float64
		unit      string
		temp      float64
		tempScale string
		co2       float64
		sugar     string
		density   float64
		fraction  float64
		factor    float64
	)

	cmd := &cobra.Command{
		Use:   "prime",
		Short: "Calculate the priming sugar for bottle carbonation",
		Long: `Calculate how much priming sugar a batch needs to reach a target
carbonation level, accounting for the CO2 still dissolved at the
bottling temperature. Sugar types: dextrose, sucrose, honey, maltose.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ferment.PrimingInput{
				Volume:     volume,
				VolumeUnit: unit,
				Temp:       temp,
				TempScale:  tempScale,
				TargetCO2:  co2,
				SugarType:  sugar,
			}
			if cmd.Flags().Changed("density") {
				in.SugarDensity = &density
			}
			if cmd.Flags().Changed("fraction") {
				in.FermentableFraction = &fraction
			}
			if cmd.Flags().Changed("factor") {
				in.CustomFactor = &factor
			}
			return runPrime(rootOpts, in, cmd)
		},
	}

	cmd.Flags().Float64Var(&volume, "volume", 0, "batch volume")
	cmd.Flags().StringVar(&unit, "unit", "l", "volume unit")
	cmd.Flags().Float64Var(&temp, "temp", 20, "beverage temperature at bottling")
	cmd.Flags().StringVar(&tempScale, "temp-scale", "c", "temperature scale")
	cmd.Flags().Float64Var(&co2, "co2", 2.0, "target carbonation in volumes of CO2")
	cmd.Flags().StringVar(&sugar, "sugar", "dextrose", "priming sugar type")
	cmd.Flags().Float64Var(&density, "density", 0, "sugar density in g/L (overrides the type default)")
	cmd.Flags().Float64Var(&fraction, "fraction", 0, "fermentable fraction 0..1 (overrides the type default)")
	cmd.Flags().Float64Var(&factor, "factor", 0, "sugar-to-CO2 factor (replaces the type defaults entirely)")
	_ = cmd.MarkFlagRequired("volume")

	return cmd
}

func runPrime(opts *RootOptions, in ferment.PrimingInput, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, err := ferment.Priming(in)
	if err != nil {
		_ = formatter.Error(ErrCodeBadConversion, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Priming sugar: %.1f g (%.1f mL %s)\n", result.MassG, result.VolumeML, in.SugarType)
	fmt.Fprintf(formatter.Writer, "Gravity increase: +%.4f SG\n", result.DeltaSG)
	fmt.Fprintf(formatter.Writer, "Volume after dissolving: %.3f L\n", result.NewVolumeL)
	return nil
}
