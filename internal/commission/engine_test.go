package commission

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/campaign"
)

func TestCalculateBaseline(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1", Code: "FISK15", CommissionRate: 15}
	b, err := Calculate(Input{Total: 1250, Shipping: 50}, aff, nil, 0.25)
	require.NoError(t, err)

	assert.InDelta(t, 1200.00, b.ProductValueWithVAT, 1e-9)
	assert.InDelta(t, 960.00, b.ProductValueExclVAT, 1e-9)
	assert.InDelta(t, 240.00, b.VATAmount, 1e-9)
	assert.InDelta(t, 144.00, b.AffiliateCommission, 1e-9)
	assert.InDelta(t, 0.00, b.CampaignShare, 1e-9)
	assert.InDelta(t, 816.00, b.CompanyShare, 1e-9)
	assert.False(t, b.Clamped)
}

func TestCalculateConservation(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1", CommissionRate: 12.5}
	b, err := Calculate(Input{Total: 873.40, Shipping: 29}, aff, nil, 0.25)
	require.NoError(t, err)

	// The company share absorbs the rounding of the payout amounts, so
	// VAT, commission, campaign share and company share reassemble the
	// product value exactly.
	sum := b.VATAmount + b.AffiliateCommission + b.CampaignShare + b.CompanyShare
	assert.InDelta(t, b.ProductValueWithVAT, sum, 1e-9)
}

func TestCalculateKeepsIntermediatePrecision(t *testing.T) {
	// 2.109375 / 1.25 = 1.6875 exactly. Rounding the VAT-exclusive base
	// to 1.69 before applying the rate would pay out 0.63 instead of
	// round2(1.6875 * 0.37) = 0.62.
	aff := &affiliate.Affiliate{ID: "aff-1", CommissionRate: 37}
	b, err := Calculate(Input{Total: 2.109375}, aff, nil, 0.25)
	require.NoError(t, err)

	assert.InDelta(t, 1.6875, b.ProductValueExclVAT, 1e-9)
	assert.InDelta(t, 0.421875, b.VATAmount, 1e-9)
	assert.InDelta(t, 0.62, b.AffiliateCommission, 1e-9)
	assert.InDelta(t, 1.0675, b.CompanyShare, 1e-9)
}

func TestCalculateMissingAffiliate(t *testing.T) {
	_, err := Calculate(Input{Total: 100}, nil, nil, 0.25)
	if !errors.Is(err, affiliate.ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestCalculateCampaignOverridesRate(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1", CommissionRate: 15}
	camp := &campaign.Campaign{
		ID:            "camp-1",
		Status:        campaign.StatusActive,
		AffiliateRate: 25,
	}
	b, err := Calculate(Input{Total: 1250, Shipping: 50}, aff, camp, 0.25)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, b.AffiliateRate, 1e-9)
	assert.InDelta(t, 240.00, b.AffiliateCommission, 1e-9, "25%% of 960")
	assert.InDelta(t, 720.00, b.CompanyShare, 1e-9)
	assert.Equal(t, "camp-1", b.CampaignID)
}

func TestCalculateRevenueShare(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1", CommissionRate: 15}
	camp := &campaign.Campaign{
		ID:               "camp-1",
		AffiliateRate:    15,
		RevenueShare:     true,
		RevenueShareRate: 10,
		StartDate:        time.Now().Add(-time.Hour),
		EndDate:          time.Now().Add(time.Hour),
	}
	b, err := Calculate(Input{Total: 1250, Shipping: 50}, aff, camp, 0.25)
	require.NoError(t, err)

	// remaining after the 144 commission is 816; 10% of that goes to
	// the affiliate on top of the commission.
	assert.InDelta(t, 81.60, b.CampaignShare, 1e-9)
	assert.InDelta(t, 734.40, b.CompanyShare, 1e-9)
	assert.InDelta(t, 225.60, b.AffiliateTotal(), 1e-9)
}

func TestCalculateClampsShippingAboveTotal(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1", CommissionRate: 15}
	b, err := Calculate(Input{Total: 20, Shipping: 49}, aff, nil, 0.25)
	require.NoError(t, err)

	assert.True(t, b.Clamped)
	assert.Zero(t, b.ProductValueWithVAT)
	assert.Zero(t, b.AffiliateCommission)
	assert.Zero(t, b.CompanyShare)
}

func TestCalculateRejectsBadVATRate(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1"}
	for _, rate := range []float64{0, -0.1, 1, 1.5} {
		if _, err := Calculate(Input{Total: 100}, aff, nil, rate); err == nil {
			t.Fatalf("vat rate %v must be rejected", rate)
		}
	}
}

func TestCalculateStepsRecorded(t *testing.T) {
	aff := &affiliate.Affiliate{ID: "aff-1", CommissionRate: 15}
	b, err := Calculate(Input{Total: 1250, Shipping: 50}, aff, nil, 0.25)
	require.NoError(t, err)

	names := make([]string, 0, len(b.Steps))
	for _, s := range b.Steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"product_value_with_vat",
		"product_value_excl_vat",
		"vat_amount",
		"affiliate_commission",
		"remaining",
		"company_share",
	}, names)
}
