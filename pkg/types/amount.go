package types

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/shopspring/decimal"
)

// CSPR precision.
const (
	CSPRDecimals = 9
	CSPRSymbol   = "CSPR"
)

// ErrInvalidAmount is returned when an amount cannot be expressed in minor units.
var ErrInvalidAmount = errors.New("invalid amount")

var minorUnitsRe = regexp.MustCompile(`^[0-9]+$`)

// IsMinorUnits reports whether s is a non-negative decimal integer string.
func IsMinorUnits(s string) bool {
	return minorUnitsRe.MatchString(s)
}

// ToMinorUnits scales amount by 10^decimals. Negative amounts and amounts
// with more fractional digits than decimals are rejected.
func ToMinorUnits(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}
	scaled := amount.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %s exceeds %d decimals", ErrInvalidAmount, amount, decimals)
	}
	return scaled.BigInt(), nil
}

// ParseMinorUnits parses a human-readable decimal string and scales it.
func ParseMinorUnits(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return ToMinorUnits(d, decimals)
}

// FromMinorUnits converts an integer minor-unit string back to a decimal
// in token units.
func FromMinorUnits(minor string, decimals int32) (decimal.Decimal, error) {
	if !IsMinorUnits(minor) {
		return decimal.Zero, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, minor)
	}
	v, ok := new(big.Int).SetString(minor, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, minor)
	}
	return decimal.NewFromBigInt(v, -decimals), nil
}
