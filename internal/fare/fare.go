// Package fare computes ticket prices.
package fare

import "math"

// Price applies a percentage discount to a base fare and rounds the result to
// cents. Inputs are not range checked: a discount above 100 gives a negative
// price and a negative discount gives a surcharge.
func Price(base, discountPct float64) float64 {
	return roundCents(base * (1 - discountPct/100))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
