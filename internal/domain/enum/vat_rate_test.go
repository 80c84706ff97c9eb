package enum

import "testing"

func TestVATRate_Valid(t *testing.T) {
	valid := []VATRate{VATRateZero, VATRateReduced, VATRateLow, VATRateStandard}
	for _, r := range valid {
		if !r.Valid() {
			t.Errorf("VATRate(%d).Valid() = false, want true", r)
		}
	}

	invalid := []VATRate{-1, 2, 8, 18, 19, 21, 100}
	for _, r := range invalid {
		if r.Valid() {
			t.Errorf("VATRate(%d).Valid() = true, want false", r)
		}
	}
}

func TestNormalize_FallsBackToStandard(t *testing.T) {
	if got := Normalize(VATRateLow); got != VATRateLow {
		t.Errorf("Normalize(10) = %d, want 10", got)
	}
	if got := Normalize(VATRate(18)); got != VATRateStandard {
		t.Errorf("Normalize(18) = %d, want %d", got, VATRateStandard)
	}
	if got := Normalize(VATRate(-5)); got != VATRateStandard {
		t.Errorf("Normalize(-5) = %d, want %d", got, VATRateStandard)
	}
}
