package units

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category identifies a conversion category.
type Category string

const (
	Alcohol     Category = "alcohol"
	Density     Category = "density"
	Mass        Category = "mass"
	Temperature Category = "temperature"
	Volume      Category = "volume"
)

// categorySpec groups the units of one category with its conversion
// function. Unit keys map to user-facing display labels.
type categorySpec struct {
	label   string
	convert func(value float64, from, to string) (float64, error)
	units   map[string]string
}

var registry = map[Category]categorySpec{
	Alcohol: {
		label:   "Alcohol Content",
		convert: convertAlcohol,
		units: map[string]string{
			"abv":       "ABV",
			"abw":       "ABW",
			"proof(us)": "Proof (US)",
			"proof(uk)": "Proof (UK)",
		},
	},
	Density: {
		label:   "Density",
		convert: convertDensity,
		units: map[string]string{
			"sg":         "Specific Gravity (SG)",
			"brix":       "°Bx (Brix)",
			"plato":      "°P (Plato)",
			"oe":         "°Oe (Oechsle)",
			"tw":         "°Tw (Twaddell)",
			"g/ml":       "g/mL",
			"g/l":        "g/L",
			"kg/m3":      "kg/m³",
			"lb/gal(us)": "lb/gal (US)",
			"lb/gal(uk)": "lb/gal (UK)",
			"lb/ft3":     "lb/ft³",
		},
	},
	Mass: {
		label:   "Mass",
		convert: convertMass,
		units: map[string]string{
			"mg": "mg", "g": "g", "kg": "kg", "tonne": "t",
			"gr": "gr", "dr": "dr", "oz": "oz", "lb": "lb", "ton": "ton",
		},
	},
	Temperature: {
		label:   "Temperature",
		convert: convertTemperature,
		units: map[string]string{
			"c": "°C",
			"f": "°F",
			"k": "K",
		},
	},
	Volume: {
		label:   "Volume",
		convert: convertVolume,
		units: map[string]string{
			"ml": "mL", "l": "L", "cl": "cL", "dl": "dL", "m3": "m³",
			"tsp": "tsp", "tbsp": "tbsp", "fl_oz": "fl oz", "cup": "cup",
			"pt": "pt", "qt": "qt", "gal": "gal",
			"imp_fl_oz": "imp fl oz", "imp_pt": "imp pt",
			"imp_qt": "imp qt", "imp_gal": "imp gal",
		},
	},
}

// canonical lowercases and NFC-normalises a user-supplied label so
// that visually identical labels compare equal.
func canonical(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Normalize resolves a user-facing unit label or key into its
// canonical unit key for the given category.
func Normalize(category, unit string) (string, error) {
	spec, ok := registry[Category(canonical(category))]
	if !ok {
		return "", newCategoryError(category)
	}

	key := canonical(unit)
	if _, ok := spec.units[key]; ok {
		return key, nil
	}

	// Reverse lookup by display label.
	for k, label := range spec.units {
		if key == canonical(label) {
			return k, nil
		}
	}

	return "", newUnitError(category, unit)
}

// Convert converts value between two units of the same category.
// Units may be canonical keys or display labels.
func Convert(category, from, to string, value float64) (float64, error) {
	cat := Category(canonical(category))
	spec, ok := registry[cat]
	if !ok {
		return 0, newCategoryError(category)
	}

	fromKey, err := Normalize(category, from)
	if err != nil {
		return 0, err
	}
	toKey, err := Normalize(category, to)
	if err != nil {
		return 0, err
	}

	return spec.convert(value, fromKey, toKey)
}

// Categories returns all category keys in sorted order.
func Categories() []string {
	keys := make([]string, 0, len(registry))
	for c := range registry {
		keys = append(keys, string(c))
	}
	sort.Strings(keys)
	return keys
}

// Units returns the canonical unit keys of a category in sorted order.
func Units(category string) ([]string, error) {
	spec, ok := registry[Category(canonical(category))]
	if !ok {
		return nil, newCategoryError(category)
	}
	keys := make([]string, 0, len(spec.units))
	for k := range spec.units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Label returns the display label for a canonical unit key.
func Label(category, unit string) (string, error) {
	spec, ok := registry[Category(canonical(category))]
	if !ok {
		return "", newCategoryError(category)
	}
	key, err := Normalize(category, unit)
	if err != nil {
		return "", err
	}
	return spec.units[key], nil
}
