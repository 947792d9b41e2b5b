package commission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/campaign"
)

type fakeOrders map[string]PaidOrder

func (f fakeOrders) PaidOrder(_ context.Context, id string) (PaidOrder, error) {
	ord, ok := f[id]
	if !ok {
		return PaidOrder{}, errors.New("order not found")
	}
	return ord, nil
}

type fakeRegistry map[string]affiliate.Affiliate

func (f fakeRegistry) ActiveByCode(_ context.Context, code string) (affiliate.Affiliate, error) {
	a, ok := f[code]
	if !ok {
		return affiliate.Affiliate{}, affiliate.ErrCodeNotFound
	}
	return a, nil
}

type fakeCampaigns []campaign.Campaign

func (f fakeCampaigns) ListActive(context.Context, time.Time) ([]campaign.Campaign, error) {
	return f, nil
}

type memLedger struct {
	records map[string]Record
	inserts int
}

func newMemLedger() *memLedger {
	return &memLedger{records: map[string]Record{}}
}

func (m *memLedger) ByOrderID(_ context.Context, orderID string) (Record, error) {
	rec, ok := m.records[orderID]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (m *memLedger) Insert(_ context.Context, rec Record) error {
	m.records[rec.OrderID] = rec
	m.inserts++
	return nil
}

func testSettler(orders fakeOrders, registry fakeRegistry, campaigns fakeCampaigns, ledger *memLedger) *Settler {
	return &Settler{
		Orders:     orders,
		Affiliates: registry,
		Campaigns:  campaigns,
		Ledger:     ledger,
		VATRate:    0.25,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func TestSettleHappyPath(t *testing.T) {
	orders := fakeOrders{"ord-1": {
		ID:            "ord-1",
		PaymentRef:    "pay-1",
		AffiliateCode: "fisk15",
		Total:         1250,
		Shipping:      50,
	}}
	registry := fakeRegistry{"FISK15": {ID: "aff-1", Code: "FISK15", CommissionRate: 15}}
	ledger := newMemLedger()

	rec, err := testSettler(orders, registry, nil, ledger).Settle(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, "aff-1", rec.AffiliateID)
	assert.InDelta(t, 144.00, rec.Payout, 1e-9)
	assert.InDelta(t, 816.00, rec.Breakdown.CompanyShare, 1e-9)
	assert.Equal(t, 1, ledger.inserts)
}

func TestSettleIdempotent(t *testing.T) {
	orders := fakeOrders{"ord-1": {ID: "ord-1", AffiliateCode: "FISK15", Total: 1250, Shipping: 50}}
	registry := fakeRegistry{"FISK15": {ID: "aff-1", CommissionRate: 15}}
	ledger := newMemLedger()
	settler := testSettler(orders, registry, nil, ledger)

	first, err := settler.Settle(context.Background(), "ord-1")
	require.NoError(t, err)
	second, err := settler.Settle(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, first.Payout, second.Payout)
	assert.Equal(t, 1, ledger.inserts, "second settle must not write a second row")
}

func TestSettleMissingAffiliateFailsFast(t *testing.T) {
	orders := fakeOrders{
		"no-code":  {ID: "no-code", Total: 100},
		"bad-code": {ID: "bad-code", AffiliateCode: "GHOST", Total: 100},
	}
	ledger := newMemLedger()
	settler := testSettler(orders, fakeRegistry{}, nil, ledger)

	_, err := settler.Settle(context.Background(), "no-code")
	assert.ErrorIs(t, err, affiliate.ErrMissing)

	_, err = settler.Settle(context.Background(), "bad-code")
	assert.ErrorIs(t, err, affiliate.ErrMissing)

	assert.Zero(t, ledger.inserts)
}

func TestSettlePicksHighestRateCampaign(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mk := func(id string, rate float64) campaign.Campaign {
		return campaign.Campaign{
			ID:                 id,
			Status:             campaign.StatusActive,
			AffiliateTargeting: campaign.TargetAllAffiliates,
			ProductTargeting:   campaign.TargetAllProducts,
			AffiliateRate:      rate,
			StartDate:          now.AddDate(0, 0, -1),
			EndDate:            now.AddDate(0, 0, 1),
		}
	}
	orders := fakeOrders{"ord-1": {ID: "ord-1", AffiliateCode: "FISK15", Total: 1250, Shipping: 50}}
	registry := fakeRegistry{"FISK15": {ID: "aff-1", CommissionRate: 15}}
	ledger := newMemLedger()
	settler := testSettler(orders, registry, fakeCampaigns{mk("low", 20), mk("high", 30)}, ledger)

	rec, err := settler.Settle(context.Background(), "ord-1")
	require.NoError(t, err)

	assert.Equal(t, "high", rec.CampaignID)
	assert.InDelta(t, 288.00, rec.Payout, 1e-9, "30%% of 960")
}

func TestProcessTaskSkipRetryOnBadPayload(t *testing.T) {
	h := &TaskHandler{Logger: zerolog.Nop()}
	task, err := NewSettleTask("")
	require.NoError(t, err)
	err = h.ProcessTask(context.Background(), task)
	assert.Error(t, err)
}
