package mathutil

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultDecimals is the precision of the native currency (wei per ether).
	DefaultDecimals = int32(18)
	// MaxDecimals bounds the precision accepted by conversions, a uint256 has
	// 78 decimal digits.
	MaxDecimals = int32(77)
)

var (
	// ErrInvalidAmount is returned when a string is not a decimal number.
	ErrInvalidAmount = errors.New("amount must be a valid decimal number")
	// ErrInvalidDecimals ...
	ErrInvalidDecimals = fmt.Errorf("decimals must be in range [0, %d]", MaxDecimals)
	// ErrNegativeAmount is returned by ToSmallestUnitNonNegative, also for
	// negative amounts that truncate to 0.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// ToSmallestUnit converts the given decimal string into its integer
// representation in the smallest unit of a currency with the given precision.
// The conversion is exact, digits beyond the precision are truncated toward
// zero so that a sub-unit amount becomes 0.
func ToSmallestUnit(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, ErrInvalidDecimals
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return d.Shift(decimals).BigInt(), nil
}

// ToSmallestUnitNonNegative is like ToSmallestUnit but rejects any negative
// amount. The sign is checked before truncating.
func ToSmallestUnitNonNegative(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, ErrInvalidDecimals
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, amount)
	}
	return d.Shift(decimals).BigInt(), nil
}

// FromSmallestUnit returns the decimal string of the given integer amount of
// smallest units, trailing zeros are trimmed.
func FromSmallestUnit(units *big.Int, decimals int32) string {
	if units == nil {
		return "0"
	}
	return decimal.NewFromBigInt(units, -decimals).String()
}

// Add takes two big integers and returns x + y as a new big integer.
func Add(x, y *big.Int) *big.Int {
	return new(big.Int).Add(orZero(x), orZero(y))
}

// Sub takes two big integers and returns x - y as a new big integer.
func Sub(x, y *big.Int) *big.Int {
	return new(big.Int).Sub(orZero(x), orZero(y))
}

// Cmp compares x and y, nil is treated as zero.
func Cmp(x, y *big.Int) int {
	return orZero(x).Cmp(orZero(y))
}

// Min returns a copy of the smallest between x and y.
func Min(x, y *big.Int) *big.Int {
	if Cmp(x, y) <= 0 {
		return new(big.Int).Set(orZero(x))
	}
	return new(big.Int).Set(orZero(y))
}

// Sum returns the sum of all given big integers.
func Sum(values ...*big.Int) *big.Int {
	sum := new(big.Int)
	for _, v := range values {
		sum.Add(sum, orZero(v))
	}
	return sum
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
