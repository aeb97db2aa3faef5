package mathutil_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-custody/pkg/mathutil"
)

func TestToSmallestUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		decimals int32
		expected string
	}{
		{"1", 18, "1000000000000000000"},
		{"0.1", 18, "100000000000000000"},
		{"0.000000000000000001", 18, "1"},
		{"0.0000000000000000009", 18, "0"},
		{"123.456789", 6, "123456789"},
		{"123.4567891", 6, "123456789"},
		{"0", 18, "0"},
		{"  2.5 ", 1, "25"},
		{"1e-3", 3, "1"},
		{"115792089237316195423570985008687907853269984665640564039457.584007913129639935", 18, "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.amount, func(t *testing.T) {
			units, err := mathutil.ToSmallestUnit(tt.amount, tt.decimals)
			require.NoError(t, err)
			require.Equal(t, tt.expected, units.String())
		})
	}
}

func TestFailingToSmallestUnit(t *testing.T) {
	t.Parallel()

	_, err := mathutil.ToSmallestUnit("1,5", 18)
	require.ErrorIs(t, err, mathutil.ErrInvalidAmount)

	_, err = mathutil.ToSmallestUnit("", 18)
	require.ErrorIs(t, err, mathutil.ErrInvalidAmount)

	_, err = mathutil.ToSmallestUnit("1", -1)
	require.ErrorIs(t, err, mathutil.ErrInvalidDecimals)

	_, err = mathutil.ToSmallestUnit("1", 78)
	require.ErrorIs(t, err, mathutil.ErrInvalidDecimals)
}

func TestToSmallestUnitNonNegative(t *testing.T) {
	t.Parallel()

	units, err := mathutil.ToSmallestUnitNonNegative("0.0000000000000000009", 18)
	require.NoError(t, err)
	require.Zero(t, units.Sign())

	units, err = mathutil.ToSmallestUnitNonNegative("-0", 18)
	require.NoError(t, err)
	require.Zero(t, units.Sign())

	for _, amount := range []string{"-1", "-0.0000000000000000001"} {
		_, err := mathutil.ToSmallestUnitNonNegative(amount, 18)
		require.ErrorIs(t, err, mathutil.ErrNegativeAmount, amount)
	}

	_, err = mathutil.ToSmallestUnitNonNegative("one", 18)
	require.ErrorIs(t, err, mathutil.ErrInvalidAmount)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	values := []string{
		"0", "1", "0.5", "10.25", "3.000000000000000001", "999999999.123456789012345678",
		"0.000000000000000042", "42",
	}

	for decimals := int32(0); decimals <= mathutil.DefaultDecimals; decimals++ {
		for _, v := range values {
			d := decimal.RequireFromString(v)
			// only values representable at this precision round-trip
			if -d.Exponent() > decimals {
				continue
			}
			units, err := mathutil.ToSmallestUnit(v, decimals)
			require.NoError(t, err)

			back := mathutil.FromSmallestUnit(units, decimals)
			require.Truef(
				t, d.Equal(decimal.RequireFromString(back)),
				"round trip of %s with %d decimals got %s", v, decimals, back,
			)
		}
	}
}

func TestIntegerArithmetic(t *testing.T) {
	t.Parallel()

	x, y := big.NewInt(10), big.NewInt(3)

	require.Equal(t, "13", mathutil.Add(x, y).String())
	require.Equal(t, "7", mathutil.Sub(x, y).String())
	require.Equal(t, 1, mathutil.Cmp(x, y))
	require.Equal(t, 0, mathutil.Cmp(nil, new(big.Int)))
	require.Equal(t, "3", mathutil.Min(x, y).String())
	require.Equal(t, "16", mathutil.Sum(x, y, nil, big.NewInt(3)).String())

	// operands are never mutated
	require.Equal(t, "10", x.String())
	require.Equal(t, "3", y.String())
}

func TestAmount(t *testing.T) {
	t.Parallel()

	a, err := mathutil.ParseAmount("1.25", 18)
	require.NoError(t, err)
	require.Equal(t, "1250000000000000000", a.Units().String())
	require.Equal(t, "1.25", a.String())
	require.Equal(t, 1.25, a.Float64())
	require.False(t, a.IsZero())

	units := a.Units()
	units.SetInt64(0)
	require.Equal(t, "1.25", a.String())

	var zero mathutil.Amount
	require.True(t, zero.IsZero())
	require.Equal(t, "0", zero.String())

	text, err := a.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1.25", string(text))
}
