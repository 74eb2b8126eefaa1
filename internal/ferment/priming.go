package ferment

import (
	"fmt"

	"github.com/roach88/brewcode/internal/units"
)

// sugarDefaults maps sugar types to (fermentable fraction, density in
// g/L). Unknown types fall back to the dextrose values.
var sugarDefaults = map[string]struct {
	fraction float64
	density  float64
}{
	"dextrose": {1.0, 1587},
	"sucrose":  {1.0, 1587},
	"honey":    {0.75, 1420},
	"maltose":  {1.0, 1540},
}

// PrimingInput describes a priming sugar calculation.
type PrimingInput struct {
	// Volume of beverage being carbonated, in VolumeUnit (default "l").
	Volume     float64
	VolumeUnit string

	// Temp is the beverage temperature at bottling in TempScale. It
	// determines how much CO2 is already in solution. Zero is a valid
	// temperature; callers wanting the usual 20 °C must say so.
	Temp      float64
	TempScale string

	// TargetCO2 is the desired carbonation in volumes of CO2.
	TargetCO2 float64

	// SugarType selects defaults for fermentable fraction and density:
	// dextrose, sucrose, honey or maltose. Empty or unknown types use
	// dextrose values, except under CustomFactor where the density must
	// resolve from a known type or an explicit SugarDensity.
	SugarType string

	// SugarDensity (g/L), FermentableFraction (0..1) and CustomFactor
	// override the SugarType defaults when non-nil. CustomFactor
	// replaces the sugar-to-CO2 factor entirely.
	SugarDensity        *float64
	FermentableFraction *float64
	CustomFactor        *float64
}

// PrimingResult is the outcome of a priming calculation.
type PrimingResult struct {
	// MassG is the mass of sugar needed in grams.
	MassG float64 `json:"mass_g"`

	// VolumeML is the bulk volume of that sugar in millilitres.
	VolumeML float64 `json:"volume_ml"`

	// DeltaSG is the estimated gravity increase from the added sugar.
	DeltaSG float64 `json:"delta_sg"`

	// NewVolumeL is the total volume after the sugar is dissolved.
	NewVolumeL float64 `json:"new_volume_l"`
}

// Priming computes the sugar addition needed to reach the target
// carbonation, accounting for CO2 still in solution at the bottling
// temperature.
func Priming(in PrimingInput) (PrimingResult, error) {
	if in.VolumeUnit == "" {
		in.VolumeUnit = "l"
	}
	if in.TempScale == "" {
		in.TempScale = "c"
	}

	volumeL, err := units.Convert("volume", in.VolumeUnit, "l", in.Volume)
	if err != nil {
		return PrimingResult{}, err
	}
	tempC, err := units.Convert("temperature", in.TempScale, "c", in.Temp)
	if err != nil {
		return PrimingResult{}, err
	}

	// Residual CO2 (volumes) still dissolved at the bottling
	// temperature.
	residual := 3.0378 - (0.050062 * tempC) + (0.00026555 * tempC * tempC)
	if residual < 0 {
		residual = 0
	}
	additional := in.TargetCO2 - residual
	if additional < 0 {
		additional = 0
	}

	defaults, known := sugarDefaults[in.SugarType]
	if !known {
		defaults = sugarDefaults["dextrose"]
	}

	density := defaults.density
	if in.SugarDensity != nil {
		density = *in.SugarDensity
	}

	var factor float64
	if in.CustomFactor != nil {
		if in.SugarDensity == nil && !known {
			return PrimingResult{}, fmt.Errorf("sugar density must be provided or resolved from a known sugar type")
		}
		factor = *in.CustomFactor
	} else {
		fraction := defaults.fraction
		if in.FermentableFraction != nil {
			fraction = *in.FermentableFraction
		}
		factor = 4.01 * fraction
	}

	massG := volumeL * additional * factor
	volumeML := massG / (density / 1000.0)
	deltaSG := (massG / volumeL) * 0.0004
	newVolumeL := volumeL + (volumeML / 1000.0)

	return PrimingResult{
		MassG:      massG,
		VolumeML:   volumeML,
		DeltaSG:    deltaSG,
		NewVolumeL: newVolumeL,
	}, nil
}
