package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b8shield/commerce-api/internal/affiliate"
)

var (
	testNow   = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	weekAgo   = testNow.AddDate(0, 0, -7)
	weekAhead = time.Date(2026, 6, 22, 12, 0, 0, 0, time.UTC)
)

func liveCampaign(id string, rate float64) Campaign {
	return Campaign{
		ID:                 id,
		Name:               id,
		Status:             StatusActive,
		AffiliateTargeting: TargetAllAffiliates,
		ProductTargeting:   TargetAllProducts,
		AffiliateRate:      rate,
		StartDate:          weekAgo,
		EndDate:            weekAhead,
	}
}

func TestFindMatchingSortsByRateDescending(t *testing.T) {
	campaigns := []Campaign{
		liveCampaign("summer", 15),
		liveCampaign("boost", 25),
		liveCampaign("base", 10),
	}
	aff := affiliate.Affiliate{ID: "aff-1", Code: "FISK10"}

	matched := FindMatching(campaigns, aff, OrderRef{AffiliateCode: "FISK10"}, testNow)

	require.Len(t, matched, 3)
	assert.Equal(t, "boost", matched[0].ID)
	assert.Equal(t, "summer", matched[1].ID)
	assert.Equal(t, "base", matched[2].ID)
}

func TestFindMatchingSelectedAffiliatesExcludesOthers(t *testing.T) {
	c := liveCampaign("vip", 30)
	c.AffiliateTargeting = TargetSelectedAffiliates
	c.SelectedAffiliates = []string{"aff-a"}

	matched := FindMatching([]Campaign{c}, affiliate.Affiliate{ID: "aff-b"}, OrderRef{}, testNow)
	assert.Empty(t, matched, "campaign targeting affiliate A must never match orders from B")

	matched = FindMatching([]Campaign{c}, affiliate.Affiliate{ID: "aff-a"}, OrderRef{}, testNow)
	assert.Len(t, matched, 1)
}

func TestFindMatchingNoneTargetingMatchesNobody(t *testing.T) {
	c := liveCampaign("parked", 30)
	c.AffiliateTargeting = TargetNoAffiliates

	matched := FindMatching([]Campaign{c}, affiliate.Affiliate{ID: "aff-a"}, OrderRef{}, testNow)
	assert.Empty(t, matched)
}

func TestFindMatchingExpiredActiveCampaignExcluded(t *testing.T) {
	c := liveCampaign("ended", 20)
	c.EndDate = testNow.AddDate(0, 0, -1)

	matched := FindMatching([]Campaign{c}, affiliate.Affiliate{ID: "aff-1"}, OrderRef{}, testNow)
	assert.Empty(t, matched, "status active alone is not enough once the window closed")
}

func TestFindMatchingStatusGate(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusPaused, StatusCompleted, StatusCancelled} {
		c := liveCampaign(string(status), 20)
		c.Status = status
		matched := FindMatching([]Campaign{c}, affiliate.Affiliate{ID: "aff-1"}, OrderRef{}, testNow)
		assert.Emptyf(t, matched, "status %s must not match", status)
	}
}

func TestFindMatchingBoundaryInstantsInclusive(t *testing.T) {
	c := liveCampaign("edge", 20)
	aff := affiliate.Affiliate{ID: "aff-1"}

	assert.Len(t, FindMatching([]Campaign{c}, aff, OrderRef{}, c.StartDate), 1)
	assert.Len(t, FindMatching([]Campaign{c}, aff, OrderRef{}, c.EndDate), 1)
	assert.Empty(t, FindMatching([]Campaign{c}, aff, OrderRef{}, c.EndDate.Add(time.Second)))
}

func TestFindMatchingProductTargeting(t *testing.T) {
	c := liveCampaign("rods-only", 20)
	c.ProductTargeting = TargetSelectedProducts
	c.SelectedProducts = []string{"prod-rod"}
	aff := affiliate.Affiliate{ID: "aff-1"}

	matched := FindMatching([]Campaign{c}, aff, OrderRef{ProductIDs: []string{"prod-lure"}}, testNow)
	assert.Empty(t, matched)

	matched = FindMatching([]Campaign{c}, aff, OrderRef{ProductIDs: []string{"prod-lure", "prod-rod"}}, testNow)
	assert.Len(t, matched, 1, "one overlapping product is enough")
}

func TestFindMatchingCodeGuardCaseInsensitive(t *testing.T) {
	c := liveCampaign("coded", 20)
	c.Code = "SOMMAR25"
	aff := affiliate.Affiliate{ID: "aff-1"}

	assert.Len(t, FindMatching([]Campaign{c}, aff, OrderRef{AffiliateCode: " sommar25 "}, testNow), 1)
	assert.Empty(t, FindMatching([]Campaign{c}, aff, OrderRef{AffiliateCode: "OTHER"}, testNow))
}

func TestBestReturnsHighestRate(t *testing.T) {
	campaigns := []Campaign{liveCampaign("low", 5), liveCampaign("high", 35)}
	best := Best(campaigns, affiliate.Affiliate{ID: "aff-1"}, OrderRef{}, testNow)
	require.NotNil(t, best)
	assert.Equal(t, "high", best.ID)

	assert.Nil(t, Best(nil, affiliate.Affiliate{ID: "aff-1"}, OrderRef{}, testNow))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusActive))
	assert.True(t, CanTransition(StatusActive, StatusPaused))
	assert.True(t, CanTransition(StatusPaused, StatusActive))
	assert.False(t, CanTransition(StatusCompleted, StatusActive))
	assert.False(t, CanTransition(StatusCancelled, StatusActive))
	assert.False(t, CanTransition(StatusDraft, StatusPaused))
}
