package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/campaign"
	"github.com/b8shield/commerce-api/internal/money"
	"github.com/b8shield/commerce-api/internal/obs"
)

// PaidOrder is the slice of a paid order settlement needs.
type PaidOrder struct {
	ID               string
	PaymentRef       string
	AffiliateCode    string
	AffiliateClickID string
	Total            money.Amount
	Shipping         money.Amount
	DiscountAmount   money.Amount
	ProductIDs       []string
}

// OrderLoader fetches paid orders by id. Implemented by the order
// store.
type OrderLoader interface {
	PaidOrder(ctx context.Context, id string) (PaidOrder, error)
}

// Settler turns a paid order into a commission ledger row. Safe to run
// repeatedly for the same order.
type Settler struct {
	Orders     OrderLoader
	Affiliates affiliate.Registry
	Campaigns  campaign.Source
	Ledger     Ledger
	VATRate    float64
	Logger     zerolog.Logger
	Now        func() time.Time
}

func (s *Settler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Settle computes and persists the commission for an order. A second
// call for an already settled order returns the existing record.
func (s *Settler) Settle(ctx context.Context, orderID string) (Record, error) {
	if s.Orders == nil || s.Affiliates == nil || s.Ledger == nil {
		return Record{}, errors.New("settler not configured")
	}

	if existing, err := s.Ledger.ByOrderID(ctx, orderID); err == nil {
		s.Logger.Debug().Str("order_id", orderID).Msg("commission already settled")
		return existing, nil
	} else if !errors.Is(err, ErrRecordNotFound) {
		return Record{}, err
	}

	ord, err := s.Orders.PaidOrder(ctx, orderID)
	if err != nil {
		s.countSettlement("order_error")
		return Record{}, fmt.Errorf("load order %s: %w", orderID, err)
	}

	code := affiliate.NormalizeCode(ord.AffiliateCode)
	if code == "" {
		s.countSettlement("missing_affiliate")
		return Record{}, fmt.Errorf("order %s: %w", orderID, affiliate.ErrMissing)
	}
	aff, err := s.Affiliates.ActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, affiliate.ErrCodeNotFound) {
			s.countSettlement("missing_affiliate")
			return Record{}, fmt.Errorf("order %s code %s: %w", orderID, code, affiliate.ErrMissing)
		}
		s.countSettlement("affiliate_error")
		return Record{}, err
	}

	now := s.now()
	var best *campaign.Campaign
	if s.Campaigns != nil {
		campaigns, err := s.Campaigns.ListActive(ctx, now)
		if err != nil {
			s.countSettlement("campaign_error")
			return Record{}, fmt.Errorf("list campaigns: %w", err)
		}
		best = campaign.Best(campaigns, aff, campaign.OrderRef{
			AffiliateCode: code,
			ProductIDs:    ord.ProductIDs,
		}, now)
		if obs.CampaignMatchTotal != nil {
			outcome := "none"
			if best != nil {
				outcome = "matched"
			}
			obs.CampaignMatchTotal.WithLabelValues(outcome).Inc()
		}
	}

	breakdown, err := Calculate(Input{
		Total:          ord.Total,
		Shipping:       ord.Shipping,
		DiscountAmount: ord.DiscountAmount,
	}, &aff, best, s.VATRate)
	if err != nil {
		s.countSettlement("calc_error")
		return Record{}, err
	}
	if breakdown.Clamped {
		s.Logger.Warn().
			Str("order_id", orderID).
			Float64("total", ord.Total).
			Float64("shipping", ord.Shipping).
			Msg("shipping exceeded paid total, product value clamped to zero")
		if obs.NegativeTotalClampTotal != nil {
			obs.NegativeTotalClampTotal.Inc()
		}
	}

	rec := Record{
		OrderID:     orderID,
		PaymentRef:  ord.PaymentRef,
		AffiliateID: aff.ID,
		CampaignID:  breakdown.CampaignID,
		Breakdown:   breakdown,
		Payout:      breakdown.AffiliateTotal(),
		SettledAt:   now,
	}
	if err := s.Ledger.Insert(ctx, rec); err != nil {
		s.countSettlement("ledger_error")
		return Record{}, err
	}

	s.countSettlement("settled")
	s.Logger.Info().
		Str("order_id", orderID).
		Str("affiliate_id", aff.ID).
		Str("campaign_id", breakdown.CampaignID).
		Float64("payout", rec.Payout).
		Float64("company_share", breakdown.CompanyShare).
		Msg("commission settled")
	return rec, nil
}

func (s *Settler) countSettlement(result string) {
	if obs.CommissionSettlementTotal != nil {
		obs.CommissionSettlementTotal.WithLabelValues(result).Inc()
	}
}
