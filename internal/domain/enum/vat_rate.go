package enum

import "database/sql/driver"

// VATRate is a KDV percentage. Only the Turkish tiers 0, 1, 10 and 20
// are accepted; anything else falls back to the standard rate.
type VATRate int

const (
	VATRateZero     VATRate = 0
	VATRateReduced  VATRate = 1
	VATRateLow      VATRate = 10
	VATRateStandard VATRate = 20
)

// Valid reports whether the rate is one of the accepted tiers.
func (r VATRate) Valid() bool {
	switch r {
	case VATRateZero, VATRateReduced, VATRateLow, VATRateStandard:
		return true
	}
	return false
}

// Normalize returns the rate itself when valid, otherwise the standard rate.
func Normalize(r VATRate) VATRate {
	if r.Valid() {
		return r
	}
	return VATRateStandard
}

// Percent returns the rate as a float percentage for arithmetic.
func (r VATRate) Percent() float64 {
	return float64(r)
}

func (r VATRate) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *VATRate) Scan(value interface{}) error {
	if value == nil {
		*r = VATRateZero
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = VATRate(v)
	case int:
		*r = VATRate(v)
	}
	return nil
}
