package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is an immutable fixed-point quantity expressed as an integer number
// of smallest units plus the precision of the currency.
type Amount struct {
	units    *big.Int
	decimals int32
}

// NewAmount returns an Amount holding a copy of units.
func NewAmount(units *big.Int, decimals int32) Amount {
	return Amount{new(big.Int).Set(orZero(units)), decimals}
}

// ParseAmount converts a decimal string into an Amount.
func ParseAmount(amount string, decimals int32) (Amount, error) {
	units, err := ToSmallestUnit(amount, decimals)
	if err != nil {
		return Amount{}, err
	}
	return Amount{units, decimals}, nil
}

// Units returns a copy of the integer representation.
func (a Amount) Units() *big.Int {
	return new(big.Int).Set(orZero(a.units))
}

func (a Amount) Decimals() int32 {
	return a.decimals
}

func (a Amount) IsZero() bool {
	return orZero(a.units).Sign() == 0
}

func (a Amount) Sign() int {
	return orZero(a.units).Sign()
}

// String returns the exact decimal representation.
func (a Amount) String() string {
	return FromSmallestUnit(a.units, a.decimals)
}

// Float64 is meant for display only, the result must never be used for
// arithmetic.
func (a Amount) Float64() float64 {
	f, _ := decimal.NewFromBigInt(orZero(a.units), -a.decimals).Float64()
	return f
}

// MarshalText encodes the amount as its decimal string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
