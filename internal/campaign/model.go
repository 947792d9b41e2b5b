// Package campaign owns time-boxed promotional campaigns that boost
// affiliate commission rates, grant customer discounts, and optionally
// share revenue with the matched affiliate.
package campaign

import (
	"fmt"
	"time"

	"github.com/b8shield/commerce-api/internal/money"
)

// Status is the campaign lifecycle state. Only active campaigns ever
// participate in matching.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the allowed lifecycle moves. Completed and
// cancelled are terminal.
var transitions = map[Status][]Status{
	StatusDraft:  {StatusActive, StatusCancelled},
	StatusActive: {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused: {StatusActive, StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is
// allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("unknown campaign status %q", raw)
	}
}

// AffiliateTargeting selects which affiliates a campaign applies to.
type AffiliateTargeting string

const (
	// TargetAllAffiliates matches any resolved affiliate.
	TargetAllAffiliates AffiliateTargeting = "all"
	// TargetSelectedAffiliates matches only the listed affiliate ids.
	TargetSelectedAffiliates AffiliateTargeting = "selected"
	// TargetNoAffiliates matches no affiliate at all; used to park a
	// campaign without editing its dates.
	TargetNoAffiliates AffiliateTargeting = "none"
)

// ParseAffiliateTargeting validates a raw targeting string.
func ParseAffiliateTargeting(raw string) (AffiliateTargeting, error) {
	switch t := AffiliateTargeting(raw); t {
	case TargetAllAffiliates, TargetSelectedAffiliates, TargetNoAffiliates:
		return t, nil
	default:
		return "", fmt.Errorf("unknown affiliate targeting %q", raw)
	}
}

// ProductTargeting selects which products a campaign applies to.
type ProductTargeting string

const (
	TargetAllProducts      ProductTargeting = "all"
	TargetSelectedProducts ProductTargeting = "selected"
)

// ParseProductTargeting validates a raw targeting string.
func ParseProductTargeting(raw string) (ProductTargeting, error) {
	switch t := ProductTargeting(raw); t {
	case TargetAllProducts, TargetSelectedProducts:
		return t, nil
	default:
		return "", fmt.Errorf("unknown product targeting %q", raw)
	}
}

// Campaign is a promotional window with its own rates.
type Campaign struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`

	// Code, when set, restricts matching to orders placed with this
	// exact normalized code.
	Code string `json:"code,omitempty"`

	AffiliateTargeting AffiliateTargeting `json:"affiliateTargeting"`
	SelectedAffiliates []string           `json:"selectedAffiliates,omitempty"`
	ProductTargeting   ProductTargeting   `json:"productTargeting"`
	SelectedProducts   []string           `json:"selectedProducts,omitempty"`

	// AffiliateRate overrides the affiliate's base commission rate
	// while the campaign matches.
	AffiliateRate money.Amount `json:"affiliateRate"`
	// CustomerDiscountRate is the checkout discount granted under the
	// campaign.
	CustomerDiscountRate money.Amount `json:"customerDiscountRate"`

	// RevenueShare diverts a slice of the post-commission remainder to
	// the affiliate when enabled.
	RevenueShare     bool         `json:"revenueShare"`
	RevenueShareRate money.Amount `json:"revenueShareRate"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ActiveAt reports whether the campaign is live at the given instant.
// Both boundary instants are inclusive.
func (c Campaign) ActiveAt(now time.Time) bool {
	if c.Status != StatusActive {
		return false
	}
	if now.Before(c.StartDate) {
		return false
	}
	if now.After(c.EndDate) {
		return false
	}
	return true
}
