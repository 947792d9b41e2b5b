// Package pricing derives cart totals. Totals are never stored; every
// caller recomputes them from the current lines so the displayed numbers
// can not drift from the cart contents.
package pricing

import (
	"github.com/b8shield/commerce-api/internal/money"
	"github.com/b8shield/commerce-api/internal/shipping"
)

// DefaultVATRate is the Swedish VAT rate baked into catalog prices.
const DefaultVATRate = 0.25

// CartLine is a single cart entry. UnitPrice is VAT inclusive, in SEK.
type CartLine struct {
	ProductID   string       `json:"productId"`
	UnitPrice   money.Amount `json:"unitPrice"`
	Qty         int          `json:"qty"`
	WeightGrams int          `json:"weightGrams,omitempty"`
}

// Totals aggregates the derived pricing components of a cart.
type Totals struct {
	Subtotal money.Amount `json:"subtotal"`
	Shipping money.Amount `json:"shipping"`
	Discount money.Amount `json:"discount"`
	Total    money.Amount `json:"total"`
	VAT      money.Amount `json:"vat"`
	// Clamped records that subtracting the discount drove the total
	// below zero and it was floored. Upstream data is suspect when
	// this is set; callers log it for operator review.
	Clamped bool `json:"-"`
}

// Subtotal sums line prices, skipping non-positive quantities.
func Subtotal(lines []CartLine) money.Amount {
	var subtotal money.Amount
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		subtotal += l.UnitPrice * money.Amount(l.Qty)
	}
	return subtotal
}

// ShippingLines converts cart lines to their weight-relevant view.
func ShippingLines(lines []CartLine) []shipping.Line {
	out := make([]shipping.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, shipping.Line{WeightGrams: l.WeightGrams, Qty: l.Qty})
	}
	return out
}

// Compute calculates totals for the given lines, destination and
// already-resolved discount amount. VAT is extracted from the
// VAT-inclusive total by division, never added on top. Intermediate
// values keep full floating precision; rounding happens only where the
// discount and commission policies demand it.
func Compute(lines []CartLine, country string, discount money.Amount, rates shipping.Rates, vatRate float64) Totals {
	if vatRate <= 0 {
		vatRate = DefaultVATRate
	}
	if discount < 0 {
		discount = 0
	}
	subtotal := Subtotal(lines)
	ship := money.Amount(rates.Cost(ShippingLines(lines), country))
	total := subtotal - discount + ship
	clamped := false
	if total < 0 {
		total = 0
		clamped = true
	}
	vat := total - total/(1+vatRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: ship,
		Discount: discount,
		Total:    total,
		VAT:      vat,
		Clamped:  clamped,
	}
}
