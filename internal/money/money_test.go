package money

import "testing"

func TestRoundUpCurrencyNeverZeroForPositiveInput(t *testing.T) {
	if got := RoundUpCurrency(0.2); got != 1 {
		t.Fatalf("expected 0.2 to round up to 1, got %v", got)
	}
	if got := RoundUpCurrency(15.0); got != 15 {
		t.Fatalf("whole amounts must not change, got %v", got)
	}
	if got := RoundUpCurrency(0); got != 0 {
		t.Fatalf("zero stays zero, got %v", got)
	}
	if got := RoundUpCurrency(-3.4); got != 0 {
		t.Fatalf("negative input clamps to zero, got %v", got)
	}
}

func TestRoundNearestCurrencyHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{144.004, 144.00},
		{816.0, 816.0},
		{0.125, 0.13},
		{0.375, 0.38},
	}
	for _, tc := range cases {
		if got := RoundNearestCurrency(tc.in); got != tc.want {
			t.Fatalf("RoundNearestCurrency(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(15, 1); got != 0.15 {
		t.Fatalf("Percent(15, 1) = %v, want 0.15", got)
	}
	if got := Percent(960, 15); got != 144 {
		t.Fatalf("Percent(960, 15) = %v, want 144", got)
	}
}
