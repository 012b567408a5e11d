package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorExp is the exponent between minor and major currency units (cents).
const minorExp = -2

// ToMajorUnits converts cents to a decimal amount in major units without rounding.
func ToMajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, minorExp)
}

// FromMajorUnits converts a major-unit amount to cents. Fractions of a cent are rejected.
func FromMajorUnits(major decimal.Decimal) (int64, error) {
	minor := major.Shift(-minorExp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has fractional cents", ErrValidation, major.String())
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s is out of range", ErrValidation, major.String())
	}
	return minor.IntPart(), nil
}

// FormatMinor renders cents as a fixed two-decimal string, e.g. 103000 -> "1030.00".
func FormatMinor(minor int64) string {
	return ToMajorUnits(minor).StringFixed(-minorExp)
}
