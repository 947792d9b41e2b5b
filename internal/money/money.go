// Package money holds the rounding primitives shared by pricing, discount
// and commission calculations. Two rounding policies co-exist on purpose:
// customer discounts round up, commission amounts round half-up to two
// decimals. They are kept as separately named functions so one is never
// used where the other is required.
package money

import "math"

// Amount is a monetary value in SEK. Catalog prices are VAT inclusive.
type Amount = float64

// Percent applies a percentage rate to a base amount without rounding.
func Percent(base Amount, rate float64) Amount {
	return base * rate / 100
}

// RoundUpCurrency rounds up to the next whole krona. Applied to customer
// discounts: a 0.2 SEK discount becomes 1 SEK, never 0, so every valid
// code visibly reduces the price.
func RoundUpCurrency(v Amount) Amount {
	if v <= 0 {
		return 0
	}
	return math.Ceil(v)
}

// RoundNearestCurrency rounds half-up to two decimals. Applied to
// commission and revenue-share amounts. math.Round is half away from
// zero, which is half-up for the non-negative amounts handled here.
func RoundNearestCurrency(v Amount) Amount {
	return math.Round(v*100) / 100
}
