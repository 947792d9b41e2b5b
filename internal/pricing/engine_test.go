package pricing

import (
	"math"
	"testing"

	"github.com/b8shield/commerce-api/internal/shipping"
)

func TestComputeTotalsInvariant(t *testing.T) {
	lines := []CartLine{
		{ProductID: "p1", UnitPrice: 199, Qty: 2, WeightGrams: 50},
		{ProductID: "p2", UnitPrice: 89, Qty: 1},
	}
	totals := Compute(lines, "SE", 20, shipping.DefaultRates(), DefaultVATRate)
	if totals.Subtotal != 487 {
		t.Fatalf("subtotal = %v, want 487", totals.Subtotal)
	}
	if got := totals.Subtotal - totals.Discount + totals.Shipping; got != totals.Total {
		t.Fatalf("total invariant broken: %v != %v", got, totals.Total)
	}
	wantVAT := totals.Total - totals.Total/1.25
	if math.Abs(totals.VAT-wantVAT) > 1e-9 {
		t.Fatalf("vat = %v, want %v", totals.VAT, wantVAT)
	}
	if totals.VAT < 0 {
		t.Fatalf("vat must be non-negative, got %v", totals.VAT)
	}
}

func TestComputeClampsNegativeTotal(t *testing.T) {
	lines := []CartLine{{ProductID: "p1", UnitPrice: 10, Qty: 1}}
	totals := Compute(lines, "SE", 10_000, shipping.DefaultRates(), DefaultVATRate)
	if totals.Total != 0 {
		t.Fatalf("total must clamp to 0, got %v", totals.Total)
	}
	if !totals.Clamped {
		t.Fatal("clamp must be reported")
	}
	if totals.VAT != 0 {
		t.Fatalf("vat of a clamped total is 0, got %v", totals.VAT)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	totals := Compute(nil, "SE", 0, shipping.DefaultRates(), DefaultVATRate)
	if totals.Total != 0 || totals.Shipping != 0 || totals.Subtotal != 0 {
		t.Fatalf("empty cart yields zero totals, got %+v", totals)
	}
}

func TestComputeNegativeDiscountIgnored(t *testing.T) {
	lines := []CartLine{{ProductID: "p1", UnitPrice: 100, Qty: 1}}
	totals := Compute(lines, "SE", -5, shipping.DefaultRates(), DefaultVATRate)
	if totals.Discount != 0 {
		t.Fatalf("negative discount must be treated as 0, got %v", totals.Discount)
	}
}
