package ferment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestABVBasic(t *testing.T) {
	// OG 1.050, FG 1.010 → 0.040 * 131.25 = 5.25%.
	got, err := ABV(ABVInput{
		Formula:  "basic",
		Original: Reading{Value: 1.050},
		Final:    Reading{Value: 1.010},
	})
	require.NoError(t, err)
	assert.InDelta(t, 5.25, got, 1e-9)
}

func TestABVBerry(t *testing.T) {
	got, err := ABV(ABVInput{
		Formula:  "berry",
		Original: Reading{Value: 1.050},
		Final:    Reading{Value: 1.010},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.040/0.736, got, 1e-9)
}

func TestABVHall(t *testing.T) {
	og, fg := 1.050, 1.010
	abw := (76.08 * (og - fg)) / (1.775 - og)
	want := abw * 0.794

	got, err := ABV(ABVInput{
		Formula:  "hall",
		Original: Reading{Value: og},
		Final:    Reading{Value: fg},
	})
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestABVHMRCThresholds(t *testing.T) {
	tests := []struct {
		name     string
		og, fg   float64
		wantMult float64
	}{
		{"first band", 1.005, 1.000, 125},
		{"middle band", 1.030, 1.000, 129},
		{"beyond table uses fallback", 1.120, 1.000, 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ABV(ABVInput{
				Formula:  "hmrc",
				Original: Reading{Value: tt.og},
				Final:    Reading{Value: tt.fg},
			})
			require.NoError(t, err)
			assert.InDelta(t, (tt.og-tt.fg)*tt.wantMult, got, 1e-9)
		})
	}
}

func TestABVUnknownFormula(t *testing.T) {
	_, err := ABV(ABVInput{
		Formula:  "magic",
		Original: Reading{Value: 1.050},
		Final:    Reading{Value: 1.010},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestABVTemperatureCorrectionRaisesEstimate(t *testing.T) {
	// The original reading was taken warm, so its corrected gravity is
	// higher and the estimate rises relative to the uncorrected one.
	warm := 30.0
	uncorrected, err := ABV(ABVInput{
		Formula:         "basic",
		CalibrationTemp: 20,
		Original:        Reading{Value: 1.050},
		Final:           Reading{Value: 1.010},
	})
	require.NoError(t, err)

	corrected, err := ABV(ABVInput{
		Formula:         "basic",
		CalibrationTemp: 20,
		Original:        Reading{Value: 1.050, Temp: &warm},
		Final:           Reading{Value: 1.010},
	})
	require.NoError(t, err)
	assert.Greater(t, corrected, uncorrected)
}

func TestABVZeroCalibrationHonored(t *testing.T) {
	// A hydrometer calibrated at 0 °C is unusual but legitimate. A
	// reading taken at 20 °C against that calibration must be corrected
	// upward, which only happens if the zero is kept as given.
	roomTemp := 20.0
	atZeroCalibration, err := ABV(ABVInput{
		Formula:         "basic",
		CalibrationTemp: 0,
		Original:        Reading{Value: 1.050, Temp: &roomTemp},
		Final:           Reading{Value: 1.010},
	})
	require.NoError(t, err)

	atRoomCalibration, err := ABV(ABVInput{
		Formula:         "basic",
		CalibrationTemp: 20,
		Original:        Reading{Value: 1.050, Temp: &roomTemp},
		Final:           Reading{Value: 1.010},
	})
	require.NoError(t, err)
	assert.Greater(t, atZeroCalibration, atRoomCalibration)
}

func TestABVBrixReadings(t *testing.T) {
	// Readings in another density scale are converted to SG before the
	// formula runs; 12 °Bx is roughly SG 1.048.
	got, err := ABV(ABVInput{
		Formula:      "basic",
		DensityScale: "brix",
		Original:     Reading{Value: 12},
		Final:        Reading{Value: 2},
	})
	require.NoError(t, err)
	assert.Greater(t, got, 4.0)
	assert.Less(t, got, 7.0)
}

func TestFormulaKeysSorted(t *testing.T) {
	assert.Equal(t, []string{"basic", "berry", "hall", "hmrc"}, FormulaKeys())
}
