package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// DiscountCodeApplyTotal counts discount code application outcomes.
	DiscountCodeApplyTotal *prometheus.CounterVec
	// CommissionSettlementTotal counts commission settlement outcomes.
	CommissionSettlementTotal *prometheus.CounterVec
	// NegativeTotalClampTotal counts orders whose total had to be floored
	// at zero. A non-zero rate points at corrupt upstream order data.
	NegativeTotalClampTotal prometheus.Counter
	// CampaignMatchTotal counts how many campaigns matched per settlement.
	CampaignMatchTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DiscountCodeApplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_code_apply_total",
			Help:      "Count of discount code application outcomes.",
		}, []string{"result"})
		CommissionSettlementTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_settlement_total",
			Help:      "Count of commission settlement outcomes.",
		}, []string{"result"})
		NegativeTotalClampTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negative_total_clamp_total",
			Help:      "Number of totals floored at zero due to oversized discounts or shipping.",
		})
		CampaignMatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_match_total",
			Help:      "Count of campaign matching outcomes during settlement.",
		}, []string{"outcome"})

		mustRegisterCollector(reg, DiscountCodeApplyTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountCodeApplyTotal = v
			}
		})
		mustRegisterCollector(reg, CommissionSettlementTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CommissionSettlementTotal = v
			}
		})
		mustRegisterCollector(reg, NegativeTotalClampTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				NegativeTotalClampTotal = v
			}
		})
		mustRegisterCollector(reg, CampaignMatchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CampaignMatchTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
