// Package amount converts between human-readable decimal amounts and
// integer base units. All downstream pricing math operates on base-unit
// integers; this package is the only place amounts cross the decimal
// boundary. Native floats are never involved.
package amount

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for non-numeric or negative input. Zero is
// a valid amount here; callers that disallow it check separately.
var ErrInvalidAmount = errors.New("invalid amount")

// ToBaseUnits converts a decimal string to base units for a token with the
// given decimal precision. Fractional remainders beyond the token's
// precision are rounded half-up; the same rule applies everywhere amounts
// cross this boundary.
func ToBaseUnits(value string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: negative value %q", ErrInvalidAmount, value)
	}
	// Shift(decimals) multiplies by 10^decimals exactly; Round(0) is
	// half-up for the non-negative values allowed here.
	return d.Shift(int32(decimals)).Round(0).BigInt(), nil
}

// FromBaseUnits converts base units back to a canonical decimal string.
// The division by 10^decimals is exact, so no rounding occurs and
// Scale(Unscale(x)) round-trips for integer inputs.
func FromBaseUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// Scale is the string-to-string form of ToBaseUnits.
func Scale(value string, decimals uint8) (string, error) {
	base, err := ToBaseUnits(value, decimals)
	if err != nil {
		return "", err
	}
	return base.String(), nil
}

// Unscale is the string-to-string form of FromBaseUnits. The input must be
// a base-unit integer string.
func Unscale(value string, decimals uint8) (string, error) {
	base, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if base.Sign() < 0 {
		return "", fmt.Errorf("%w: negative value %q", ErrInvalidAmount, value)
	}
	return FromBaseUnits(base, decimals), nil
}
