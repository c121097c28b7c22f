// Package money converts between major and minor currency units.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is fixed system-wide (rupee to paise).
const MinorUnitsPerMajor = 100

var (
	ErrNotPositive      = errors.New("amount must be positive")
	ErrSubMinorFraction = errors.New("amount has more precision than the minor unit")
	ErrOutOfRange       = errors.New("amount out of range")
)

// maxDigits bounds integer and fractional digits of an accepted major amount.
// Arithmetic on a decimal rescales its coefficient, so the bound is checked first.
const maxDigits = 16

var (
	minorFactor = decimal.NewFromInt(MinorUnitsPerMajor)
	maxMinor    = decimal.NewFromInt(1 << 53)
)

// ToMinor converts a positive major-unit amount, e.g. 100 -> 10000.
func ToMinor(major decimal.Decimal) (int64, error) {
	if !major.IsPositive() {
		return 0, ErrNotPositive
	}
	exp := int(major.Exponent())
	if exp > maxDigits || major.NumDigits()+exp > maxDigits {
		return 0, ErrOutOfRange
	}
	if exp < -maxDigits {
		return 0, fmt.Errorf("%w: %d fractional digits", ErrSubMinorFraction, -exp)
	}
	minor := major.Mul(minorFactor)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrSubMinorFraction, major.String())
	}
	if minor.GreaterThan(maxMinor) {
		return 0, ErrOutOfRange
	}
	return minor.IntPart(), nil
}

func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, 0).Div(minorFactor)
}
