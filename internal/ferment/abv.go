// Package ferment implements fermentation math: alcohol-by-volume
// estimation from gravity readings and priming sugar calculation for
// bottle carbonation.
package ferment

import (
	"fmt"
	"sort"

	"github.com/roach88/brewcode/internal/units"
)

// Formula pairs a user-facing label with an ABV estimation function
// over original and final specific gravity.
type Formula struct {
	Label string
	fn    func(originalSG, finalSG float64) float64
}

// Formulas is the registry of available ABV formulas keyed by internal
// name.
var Formulas = map[string]Formula{
	"basic": {Label: "Basic", fn: abvBasic},
	"berry": {Label: "Berry", fn: abvBerry},
	"hall":  {Label: "Hall", fn: abvHall},
	"hmrc":  {Label: "HMRC", fn: abvHMRC},
}

// FormulaKeys returns the registered formula keys in sorted order.
func FormulaKeys() []string {
	keys := make([]string, 0, len(Formulas))
	for k := range Formulas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// abvBasic is the standard homebrew estimate: (OG - FG) * 131.25.
func abvBasic(og, fg float64) float64 {
	return (og - fg) * 131.25
}

// abvBerry is C.J.J. Berry's wine method: (OG - FG) / 0.736.
func abvBerry(og, fg float64) float64 {
	return (og - fg) / 0.736
}

// abvHall is Michael Hall's two-step formula: ABW from the gravity
// drop, then ABW converted to ABV.
func abvHall(og, fg float64) float64 {
	abw := (76.08 * (og - fg)) / (1.775 - og)
	abv, _ := units.Convert("alcohol", "abw", "abv", abw)
	return abv
}

// abvHMRC is the UK HMRC table-based method used for taxation: the
// gravity drop selects a multiplier from a threshold table.
func abvHMRC(og, fg float64) float64 {
	thresholds := []struct {
		limit      float64
		multiplier float64
	}{
		{0.0069, 125}, {0.0104, 126}, {0.0172, 127}, {0.0261, 128},
		{0.0360, 129}, {0.0465, 130}, {0.0571, 131}, {0.0679, 132},
		{0.0788, 133}, {0.0897, 134}, {0.1007, 135},
	}
	delta := og - fg
	for _, t := range thresholds {
		if delta <= t.limit {
			return delta * t.multiplier
		}
	}
	return delta * 135 // fallback multiplier beyond the table
}

// Reading is a single hydrometer reading with its optional measurement
// temperature. When Temp is nil the reading is assumed to be at the
// calibration temperature and no correction is applied to it.
type Reading struct {
	Value float64
	Temp  *float64
}

// ABVInput describes an ABV calculation request.
type ABVInput struct {
	// Formula is a key of Formulas ("basic", "berry", "hall", "hmrc").
	Formula string

	// DensityScale is the scale of both readings (default "sg").
	DensityScale string

	// TempScale is the scale of all temperatures (default "c").
	TempScale string

	// CalibrationTemp is the hydrometer calibration temperature in
	// TempScale. Zero is a valid calibration point and is honored, not
	// replaced.
	CalibrationTemp float64

	Original Reading
	Final    Reading
}

// ABV estimates alcohol by volume from two gravity readings. Both
// readings are temperature-corrected (when a reading temperature is
// given), converted to SG, and fed to the chosen formula.
func ABV(in ABVInput) (float64, error) {
	if in.DensityScale == "" {
		in.DensityScale = "sg"
	}
	if in.TempScale == "" {
		in.TempScale = "c"
	}

	formula, ok := Formulas[in.Formula]
	if !ok {
		return 0, fmt.Errorf("unknown ABV formula %q, must be one of %v", in.Formula, FormulaKeys())
	}

	og, err := correctedSG(in.Original, in.DensityScale, in.TempScale, in.CalibrationTemp)
	if err != nil {
		return 0, err
	}
	fg, err := correctedSG(in.Final, in.DensityScale, in.TempScale, in.CalibrationTemp)
	if err != nil {
		return 0, err
	}

	return formula.fn(og, fg), nil
}

func correctedSG(r Reading, densityScale, tempScale string, calibrationTemp float64) (float64, error) {
	readingTemp := calibrationTemp
	if r.Temp != nil {
		readingTemp = *r.Temp
	}

	corrected, err := units.Correct(densityScale, tempScale, r.Value, readingTemp, calibrationTemp)
	if err != nil {
		return 0, err
	}
	return units.Convert("density", densityScale, "sg", corrected)
}
