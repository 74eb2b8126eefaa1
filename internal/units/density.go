package units

// Density conversions go through g/L. Brewing scales (SG, Brix, Plato,
// Oechsle, Twaddell) use empirical formulas; the remaining units are
// plain multipliers.

var densityToGL = map[string]float64{
	"g/ml":       1000,
	"g/l":        1,
	"kg/m3":      1,
	"lb/gal(us)": 119.826,
	"lb/gal(uk)": 99.7764,
	"lb/ft3":     16.0185,
}

// densityComplex pairs the to-g/L and from-g/L formulas for the
// empirical brewing scales.
var densityComplex = map[string]struct {
	toGL   func(float64) float64
	fromGL func(float64) float64
}{
	"sg":    {sgToGL, glToSG},
	"brix":  {brixToGL, glToBrix},
	"plato": {brixToGL, glToBrix}, // °P is treated as equivalent to °Bx
	"oe":    {oeToGL, glToOE},
	"tw":    {twToGL, glToTW},
}

func sgToGL(sg float64) float64 { return sg * 1000 }
func glToSG(gl float64) float64 { return gl / 1000 }

func brixToGL(brix float64) float64 {
	sg := 1 + (brix / (258.6 - ((brix / 258.2) * 227.1)))
	return sgToGL(sg)
}

func glToBrix(gl float64) float64 {
	sg := glToSG(gl)
	return (182.4601 * sg * sg * sg) - (775.6821 * sg * sg) + (1262.7794 * sg) - 669.5622
}

// °Oe = (SG - 1) * 1000
func oeToGL(oe float64) float64 { return sgToGL((oe / 1000) + 1) }
func glToOE(gl float64) float64 { return (glToSG(gl) - 1) * 1000 }

// SG = 1 + (°Tw / 200)
func twToGL(tw float64) float64 { return sgToGL(1 + (tw / 200)) }
func glToTW(gl float64) float64 { return (glToSG(gl) - 1) * 200 }

func convertDensity(value float64, from, to string) (float64, error) {
	var gl float64
	if factor, ok := densityToGL[from]; ok {
		gl = value * factor
	} else if c, ok := densityComplex[from]; ok {
		gl = c.toGL(value)
	} else {
		return 0, newUnitError(string(Density), from)
	}

	if factor, ok := densityToGL[to]; ok {
		return gl / factor, nil
	}
	if c, ok := densityComplex[to]; ok {
		return c.fromGL(gl), nil
	}
	return 0, newUnitError(string(Density), to)
}

// Correct applies hydrometer temperature correction to a density
// reading. The reading and the returned value share densityScale;
// readingTemp and calibrationTemp share tempScale. Hydrometers are
// typically calibrated at 20 °C (68 °F); the correction uses the
// standard ASBC polynomial, which is °F-based.
func Correct(densityScale, tempScale string, measured, readingTemp, calibrationTemp float64) (float64, error) {
	scaleKey, err := Normalize(string(Density), densityScale)
	if err != nil {
		return 0, err
	}
	if _, err := Normalize(string(Temperature), tempScale); err != nil {
		return 0, err
	}

	sg, err := Convert(string(Density), scaleKey, "sg", measured)
	if err != nil {
		return 0, err
	}
	readingF, err := Convert(string(Temperature), tempScale, "f", readingTemp)
	if err != nil {
		return 0, err
	}
	calibrationF, err := Convert(string(Temperature), tempScale, "f", calibrationTemp)
	if err != nil {
		return 0, err
	}

	correctedSG := sg * asbc(readingF) / asbc(calibrationF)

	return Convert(string(Density), "sg", scaleKey, correctedSG)
}

// asbc evaluates the ASBC hydrometer correction polynomial at a
// temperature in °F.
func asbc(tempF float64) float64 {
	return 1.00130346 -
		0.000134722124*tempF +
		0.00000204052596*tempF*tempF -
		0.00000000232820948*tempF*tempF*tempF
}
