package shipping

import "testing"

func TestCostDomesticTiers(t *testing.T) {
	// 100 g + 50 g product weight plus the 20 g envelope is 170 g,
	// which needs four 50 g tiers at the domestic rate.
	lines := []Line{
		{WeightGrams: 100, Qty: 1},
		{WeightGrams: 50, Qty: 1},
	}
	if got := DefaultRates().Cost(lines, "SE"); got != 116 {
		t.Fatalf("expected 116 SEK, got %d", got)
	}
}

func TestCostInternationalRate(t *testing.T) {
	lines := []Line{{WeightGrams: 10, Qty: 1}}
	if got := DefaultRates().Cost(lines, "NO"); got != 49 {
		t.Fatalf("expected single international tier 49, got %d", got)
	}
	if got := DefaultRates().Cost(lines, "se"); got != 29 {
		t.Fatalf("country comparison must be case-insensitive, got %d", got)
	}
}

func TestCostEmptyCart(t *testing.T) {
	if got := DefaultRates().Cost(nil, "SE"); got != 0 {
		t.Fatalf("empty cart ships for free, got %d", got)
	}
	if got := DefaultRates().Cost([]Line{{WeightGrams: 100, Qty: 0}}, "SE"); got != 0 {
		t.Fatalf("zero-quantity lines do not count, got %d", got)
	}
}

func TestTiersDefaultWeight(t *testing.T) {
	// Three units with no recorded weight default to 10 g each:
	// 30 g + 20 g envelope = 50 g = exactly one tier.
	lines := []Line{{Qty: 3}}
	if got := Tiers(lines); got != 1 {
		t.Fatalf("expected 1 tier, got %d", got)
	}
	// One more gram of product weight rolls into a second tier.
	lines = []Line{{Qty: 3}, {WeightGrams: 1, Qty: 1}}
	if got := Tiers(lines); got != 2 {
		t.Fatalf("expected 2 tiers, got %d", got)
	}
}
