// Package shipping computes flat-rate shipping costs from cart weight.
// PostNord charges per 50 g bracket, so the cost is a whole number of
// tiers multiplied by a per-tier rate that depends only on whether the
// destination is domestic.
package shipping

import "strings"

const (
	// PackagingGrams is the fixed envelope weight added to every parcel.
	PackagingGrams = 20
	// TierGrams is the PostNord weight bracket size.
	TierGrams = 50
	// DefaultLineGrams is assumed when a product has no recorded weight.
	DefaultLineGrams = 10
)

// Line is the weight-relevant slice of a cart line.
type Line struct {
	WeightGrams int
	Qty         int
}

// Rates holds per-tier prices in whole SEK.
type Rates struct {
	Domestic      int64
	International int64
	HomeCountry   string
}

// DefaultRates returns the production PostNord rates.
func DefaultRates() Rates {
	return Rates{Domestic: 29, International: 49, HomeCountry: "SE"}
}

// Tiers returns the number of 50 g brackets needed for the given lines,
// including packaging weight. An empty cart needs zero tiers; any
// non-empty cart needs at least one.
func Tiers(lines []Line) int {
	total := 0
	empty := true
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		empty = false
		grams := l.WeightGrams
		if grams <= 0 {
			grams = DefaultLineGrams
		}
		total += grams * l.Qty
	}
	if empty {
		return 0
	}
	total += PackagingGrams
	tiers := (total + TierGrams - 1) / TierGrams
	if tiers < 1 {
		tiers = 1
	}
	return tiers
}

// Cost returns the shipping cost in whole SEK for the lines and
// destination country (ISO-3166 alpha-2). Pure function of its inputs.
func (r Rates) Cost(lines []Line, country string) int64 {
	tiers := Tiers(lines)
	if tiers == 0 {
		return 0
	}
	rate := r.International
	if strings.EqualFold(strings.TrimSpace(country), r.HomeCountry) {
		rate = r.Domestic
	}
	return int64(tiers) * rate
}
