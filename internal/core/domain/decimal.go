package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Bounds on client-supplied decimals. They sit well outside what any column
// can store, and well inside what rescaling can do in constant time:
// comparing or truncating a decimal costs work proportional to its exponent.
const (
	MaxDecimalLength   = 64
	MaxDecimalExponent = 64
)

// ErrDecimalRange is returned for decimals too long or too far from 1 to
// handle.
var ErrDecimalRange = errors.New("decimal out of range")

// ParseDecimal parses s and rejects values outside the bounds above before
// any arithmetic touches them.
func ParseDecimal(s string) (decimal.Decimal, error) {
	if len(s) > MaxDecimalLength {
		return decimal.Zero, ErrDecimalRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if err := CheckDecimalRange(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckDecimalRange rejects d when its exponent is out of bounds. It reads
// the exponent only, so it is safe on any value.
func CheckDecimalRange(d decimal.Decimal) error {
	if e := d.Exponent(); e < -MaxDecimalExponent || e > MaxDecimalExponent {
		return ErrDecimalRange
	}
	return nil
}
