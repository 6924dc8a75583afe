package macros

import "math"

// Facts holds per-100g nutrition values for a food.
type Facts struct {
	ProteinPer100g  float64
	FatPer100g      float64
	CarbsPer100g    float64
	CaloriesPer100g float64
}

// Totals holds consumed macro amounts.
type Totals struct {
	Calories float64 `json:"total_calories"`
	ProteinG float64 `json:"total_protein"`
	CarbsG   float64 `json:"total_carbs"`
	FatG     float64 `json:"total_fat"`
}

// Entry pairs food facts with a consumed quantity in grams.
type Entry struct {
	Facts Facts
	Grams float64
}

// Actual scales per-100g facts to the consumed quantity.
// Values are returned unrounded; rounding happens once, after
// aggregation, so per-line rounding error never compounds.
func Actual(f Facts, grams float64) Totals {
	multiplier := grams / 100
	return Totals{
		Calories: f.CaloriesPer100g * multiplier,
		ProteinG: f.ProteinPer100g * multiplier,
		CarbsG:   f.CarbsPer100g * multiplier,
		FatG:     f.FatPer100g * multiplier,
	}
}

// Aggregate sums Actual over all entries and rounds each field to two
// decimals. An empty input yields all-zero totals.
func Aggregate(entries []Entry) Totals {
	var sum Totals
	for _, e := range entries {
		a := Actual(e.Facts, e.Grams)
		sum.Calories += a.Calories
		sum.ProteinG += a.ProteinG
		sum.CarbsG += a.CarbsG
		sum.FatG += a.FatG
	}
	return Totals{
		Calories: Round2(sum.Calories),
		ProteinG: Round2(sum.ProteinG),
		CarbsG:   Round2(sum.CarbsG),
		FatG:     Round2(sum.FatG),
	}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
