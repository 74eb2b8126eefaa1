package units

// Factor-based categories convert through a base unit with a simple
// multiplier. Base units: ABV (alcohol), grams (mass), litres (volume).

// alcoholToABV maps alcohol-content units to their ABV multiplier.
var alcoholToABV = map[string]float64{
	"abv":       1,
	"abw":       0.794,
	"proof(us)": 0.5,
	"proof(uk)": 1.0 / 1.75,
}

func convertAlcohol(value float64, from, to string) (float64, error) {
	inABV := value * alcoholToABV[from]
	return inABV / alcoholToABV[to], nil
}

// massToGrams maps mass units to grams.
var massToGrams = map[string]float64{
	"mg":    0.001,
	"g":     1,
	"kg":    1000,
	"tonne": 1_000_000,
	"gr":    0.06479891,      // grain
	"dr":    1.7718451953125, // dram
	"oz":    28.349523125,
	"lb":    453.59237,
	"ton":   907_184.74, // US short ton
}

func convertMass(value float64, from, to string) (float64, error) {
	inGrams := value * massToGrams[from]
	return inGrams / massToGrams[to], nil
}

// volumeToLitres maps volume units to litres.
var volumeToLitres = map[string]float64{
	"ml":        0.001,
	"l":         1,
	"cl":        0.01,
	"dl":        0.1,
	"m3":        1000,
	"tsp":       0.00492892, // US teaspoon
	"tbsp":      0.0147868,  // US tablespoon
	"fl_oz":     0.0295735,  // US fluid ounce
	"cup":       0.24,       // metric cup
	"pt":        0.473176,   // US pint
	"qt":        0.946353,   // US quart
	"gal":       3.78541,    // US gallon
	"imp_fl_oz": 0.0284131,
	"imp_pt":    0.568261,
	"imp_qt":    1.13652,
	"imp_gal":   4.54609,
}

func convertVolume(value float64, from, to string) (float64, error) {
	inLitres := value * volumeToLitres[from]
	return inLitres / volumeToLitres[to], nil
}

func convertTemperature(value float64, from, to string) (float64, error) {
	// Through °C.
	var c float64
	switch from {
	case "c":
		c = value
	case "f":
		c = (value - 32) * 5 / 9
	case "k":
		c = value - 273.15
	}
	switch to {
	case "c":
		return c, nil
	case "f":
		return c*9/5 + 32, nil
	case "k":
		return c + 273.15, nil
	}
	return c, nil
}
