// Package units converts measurements between the unit scales used in
// fermentation record-keeping: alcohol content, density, mass,
// temperature and volume.
//
// Each category has a canonical base unit (ABV, g/L, grams, °C,
// litres). Conversions go through the base unit, so adding a new unit
// means adding one factor or one formula pair. Unit labels are
// normalised (NFC, case-insensitive) before lookup, so "SG",
// "Specific Gravity (SG)" and "sg" all resolve to the same key.
package units
