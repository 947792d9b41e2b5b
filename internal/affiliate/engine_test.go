package affiliate

import "testing"

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  fisk10 "); got != "FISK10" {
		t.Fatalf("expected FISK10, got %q", got)
	}
	if got := NormalizeCode("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestResolveDiscountCeilingRule(t *testing.T) {
	a := Affiliate{Code: "FISK10", Status: StatusActive, CheckoutDiscount: 1}
	// 1% of 15 SEK is 0.15; the ceiling rule guarantees 1 SEK, never 0.
	d := ResolveDiscount(a, 15, "")
	if d.Amount != 1 {
		t.Fatalf("expected discount 1, got %v", d.Amount)
	}
	if d.Percentage != 1 {
		t.Fatalf("expected percentage 1, got %v", d.Percentage)
	}
}

func TestResolveDiscountIdempotent(t *testing.T) {
	a := Affiliate{Code: "FISK10", Status: StatusActive, CheckoutDiscount: 10}
	first := ResolveDiscount(a, 499, "click-1")
	second := ResolveDiscount(a, 499, "click-1")
	if first != second {
		t.Fatalf("resolution must be idempotent: %+v vs %+v", first, second)
	}
	if first.Amount != 50 {
		t.Fatalf("10%% of 499 rounds up to 50, got %v", first.Amount)
	}
	if first.ClickID != "click-1" {
		t.Fatalf("click id must carry through, got %q", first.ClickID)
	}
}

func TestResolveDiscountBoundsPercentage(t *testing.T) {
	d := ResolveDiscount(Affiliate{CheckoutDiscount: 250}, 100, "")
	if d.Percentage != 100 || d.Amount != 100 {
		t.Fatalf("percentage must clamp to 100, got %+v", d)
	}
	d = ResolveDiscount(Affiliate{CheckoutDiscount: -5}, 100, "")
	if d.Percentage != 0 || d.Amount != 0 {
		t.Fatalf("negative rate must clamp to 0, got %+v", d)
	}
}
