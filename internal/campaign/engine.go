package campaign

import (
	"sort"
	"time"

	"github.com/b8shield/commerce-api/internal/affiliate"
)

// OrderRef is the slice of an order the matcher needs.
type OrderRef struct {
	AffiliateCode string
	ProductIDs    []string
}

// FindMatching filters campaigns down to those applying to the given
// affiliate and order at the given instant, sorted by affiliate rate
// descending. The sort is stable so campaigns with equal rates keep
// their input order.
func FindMatching(campaigns []Campaign, aff affiliate.Affiliate, order OrderRef, now time.Time) []Campaign {
	var matched []Campaign
	for _, c := range campaigns {
		if !c.ActiveAt(now) {
			continue
		}
		if !matchesAffiliate(c, aff.ID) {
			continue
		}
		if !matchesProducts(c, order.ProductIDs) {
			continue
		}
		if !matchesCode(c, order.AffiliateCode) {
			continue
		}
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].AffiliateRate > matched[j].AffiliateRate
	})
	return matched
}

// Best returns the highest-rate matching campaign, or nil when none
// match.
func Best(campaigns []Campaign, aff affiliate.Affiliate, order OrderRef, now time.Time) *Campaign {
	matched := FindMatching(campaigns, aff, order, now)
	if len(matched) == 0 {
		return nil
	}
	return &matched[0]
}

func matchesAffiliate(c Campaign, affiliateID string) bool {
	switch c.AffiliateTargeting {
	case TargetAllAffiliates:
		return true
	case TargetSelectedAffiliates:
		for _, id := range c.SelectedAffiliates {
			if id == affiliateID {
				return true
			}
		}
		return false
	case TargetNoAffiliates:
		return false
	default:
		// Unknown targeting never matches; a typo in stored data must
		// not widen a campaign's reach.
		return false
	}
}

func matchesProducts(c Campaign, productIDs []string) bool {
	switch c.ProductTargeting {
	case TargetAllProducts:
		return true
	case TargetSelectedProducts:
		for _, pid := range productIDs {
			for _, sel := range c.SelectedProducts {
				if pid == sel {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

func matchesCode(c Campaign, orderCode string) bool {
	if c.Code == "" {
		return true
	}
	return affiliate.NormalizeCode(c.Code) == affiliate.NormalizeCode(orderCode)
}
