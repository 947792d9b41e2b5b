// Package affiliate resolves partner discount codes and owns the
// affiliate registry. An affiliate is a partner with a unique code who
// refers customers: customers get a checkout discount, the partner
// earns a commission on settled orders.
package affiliate

import (
	"errors"
	"strings"

	"github.com/b8shield/commerce-api/internal/money"
)

var (
	// ErrInvalidCodeFormat is returned when a code is empty after normalization.
	ErrInvalidCodeFormat = errors.New("discount code is empty or malformed")
	// ErrCodeNotFound is returned when no active affiliate carries the code.
	ErrCodeNotFound = errors.New("no active affiliate for code")
	// ErrMissing is returned when a commission calculation is attempted
	// without a resolvable affiliate. Silently defaulting to a 0% rate
	// would under-pay a partner, so this aborts instead.
	ErrMissing = errors.New("affiliate is required")
)

// Status gates whether an affiliate's code resolves.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Affiliate is a referral partner.
type Affiliate struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	// Status controls code resolution; inactive affiliates keep their
	// historical commission records but stop matching.
	Status Status `json:"status"`
	// CommissionRate is the percentage of the VAT-exclusive order value
	// paid to the affiliate.
	CommissionRate float64 `json:"commissionRate"`
	// CheckoutDiscount is the percentage discount passed to customers
	// using the affiliate's code.
	CheckoutDiscount float64 `json:"checkoutDiscount"`
}

// NormalizeCode trims and upper-cases a code for lookup and comparison.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount is the result of applying an affiliate code to a subtotal.
type Discount struct {
	Percentage money.Amount `json:"percentage"`
	Amount     money.Amount `json:"amount"`
	// ClickID ties the discount back to the referral click for later
	// commission attribution. The only cross-cutting state here.
	ClickID string `json:"clickId,omitempty"`
}

// ResolveDiscount computes the customer discount for the given subtotal.
// The raw percentage amount rounds UP to whole kronor so a tiny discount
// never disappears; idempotent for an unchanged subtotal.
func ResolveDiscount(a Affiliate, subtotal money.Amount, clickID string) Discount {
	pct := a.CheckoutDiscount
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	raw := money.Percent(subtotal, pct)
	return Discount{
		Percentage: pct,
		Amount:     money.RoundUpCurrency(raw),
		ClickID:    clickID,
	}
}
