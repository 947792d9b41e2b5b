// Package commission computes the multi-party split of a paid order's
// value: VAT to the state, a commission to the referring affiliate, an
// optional campaign revenue share, and the residual to the company.
package commission

import (
	"fmt"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/campaign"
	"github.com/b8shield/commerce-api/internal/money"
)

// Step records one stage of the calculation for auditability.
type Step struct {
	Name  string       `json:"name"`
	Value money.Amount `json:"value"`
}

// Input is the order slice the calculator needs.
type Input struct {
	// Total is the full amount the customer paid, shipping and VAT
	// included, after any checkout discount.
	Total money.Amount
	// Shipping is the shipping charge baked into Total.
	Shipping money.Amount
	// DiscountAmount is informational; Total is already net of it.
	DiscountAmount money.Amount
}

// Breakdown is the full result of a commission calculation. The
// affiliate commission and campaign share are rounded to the nearest
// öre; every other field keeps full floating precision so the rounding
// points never compound.
type Breakdown struct {
	OriginalTotal       money.Amount `json:"originalTotal"`
	Shipping            money.Amount `json:"shipping"`
	DiscountAmount      money.Amount `json:"discountAmount"`
	ProductValueWithVAT money.Amount `json:"productValueWithVat"`
	ProductValueExclVAT money.Amount `json:"productValueExclVat"`
	VATAmount           money.Amount `json:"vatAmount"`
	AffiliateRate       money.Amount `json:"affiliateRate"`
	AffiliateCommission money.Amount `json:"affiliateCommission"`
	CampaignID          string       `json:"campaignId,omitempty"`
	CampaignShare       money.Amount `json:"campaignShare"`
	CompanyShare        money.Amount `json:"companyShare"`
	// Clamped reports that shipping exceeded the paid total and the
	// product value was forced to zero.
	Clamped bool   `json:"clamped"`
	Steps   []Step `json:"steps"`
}

// Calculate splits an order total. The affiliate is mandatory; orders
// without a referral never reach this code path. The campaign, when
// non-nil, overrides the affiliate's base rate and may divert a revenue
// share. vatRate is a fraction, e.g. 0.25.
func Calculate(in Input, aff *affiliate.Affiliate, camp *campaign.Campaign, vatRate float64) (Breakdown, error) {
	if aff == nil {
		return Breakdown{}, affiliate.ErrMissing
	}
	if vatRate <= 0 || vatRate >= 1 {
		return Breakdown{}, fmt.Errorf("vat rate %v out of range", vatRate)
	}

	b := Breakdown{
		OriginalTotal:  in.Total,
		Shipping:       in.Shipping,
		DiscountAmount: in.DiscountAmount,
	}

	withVAT := in.Total - in.Shipping
	if withVAT < 0 {
		withVAT = 0
		b.Clamped = true
	}
	b.ProductValueWithVAT = withVAT
	b.step("product_value_with_vat", withVAT)

	exclVAT := withVAT / (1 + vatRate)
	b.ProductValueExclVAT = exclVAT
	b.step("product_value_excl_vat", exclVAT)

	b.VATAmount = withVAT - exclVAT
	b.step("vat_amount", b.VATAmount)

	rate := aff.CommissionRate
	if camp != nil {
		rate = camp.AffiliateRate
		b.CampaignID = camp.ID
	}
	b.AffiliateRate = rate
	b.AffiliateCommission = money.RoundNearestCurrency(money.Percent(exclVAT, rate))
	b.step("affiliate_commission", b.AffiliateCommission)

	remaining := exclVAT - b.AffiliateCommission
	b.step("remaining", remaining)

	if camp != nil && camp.RevenueShare && remaining > 0 {
		b.CampaignShare = money.RoundNearestCurrency(money.Percent(remaining, camp.RevenueShareRate))
		b.step("campaign_share", b.CampaignShare)
	}

	b.CompanyShare = remaining - b.CampaignShare
	b.step("company_share", b.CompanyShare)

	return b, nil
}

func (b *Breakdown) step(name string, v money.Amount) {
	b.Steps = append(b.Steps, Step{Name: name, Value: v})
}

// AffiliateTotal is the affiliate's full payout: base commission plus
// any campaign revenue share.
func (b Breakdown) AffiliateTotal() money.Amount {
	return money.RoundNearestCurrency(b.AffiliateCommission + b.CampaignShare)
}
