// Package cart manages customer cart sessions backed by Redis. A cart
// is a value: every mutation loads the state, applies the change, and
// writes it back, so totals and discount amounts are always recomputed
// from the stored percentage rather than trusted from the client.
package cart

import (
	"time"

	"github.com/b8shield/commerce-api/internal/money"
	"github.com/b8shield/commerce-api/internal/pricing"
)

// State is the persisted cart session.
type State struct {
	ID              string             `json:"id"`
	Lines           []pricing.CartLine `json:"lines"`
	ShippingCountry string             `json:"shippingCountry"`

	// DiscountCode is the applied affiliate code, normalized. Empty
	// when no code is applied.
	DiscountCode string `json:"discountCode,omitempty"`
	// DiscountPercentage is stored instead of an amount so the discount
	// re-derives correctly as lines change.
	DiscountPercentage money.Amount `json:"discountPercentage,omitempty"`
	AffiliateClickID   string       `json:"affiliateClickId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is a cart plus its computed totals, the shape handlers return.
type View struct {
	State
	Totals pricing.Totals `json:"totals"`
}

// Subtotal is the sum of the cart's line amounts before discount and
// shipping.
func (s State) Subtotal() money.Amount {
	return pricing.Subtotal(s.Lines)
}

func (s State) hasCode() bool {
	return s.DiscountCode != ""
}
