package domain_test

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
)

func TestNewCustodyState(t *testing.T) {
	t.Parallel()

	state := domain.NewCustodyState(nil)
	require.False(t, state.IsLocked())
	require.Equal(t, domain.Available, state.Status)
	require.True(t, state.LockedUntilTime().IsZero())

	state = domain.NewCustodyState(new(big.Int))
	require.False(t, state.IsLocked())

	state = domain.NewCustodyState(big.NewInt(1700000000))
	require.True(t, state.IsLocked())
	require.Equal(t, uint64(1700000000), state.LockedUntil)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), state.LockedUntilTime())
	require.Equal(t, "LOCKED", state.Status.String())

	huge, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	state = domain.NewCustodyState(huge)
	require.True(t, state.IsLocked())
	require.Equal(t, uint64(math.MaxUint64), state.LockedUntil)
}

func TestAssetKey(t *testing.T) {
	t.Parallel()

	a := domain.Asset{ContractAddress: contractA, TokenID: "7"}
	b := domain.Asset{ContractAddress: "0x5fbdb2315678afecb367f032d93f642f64180aa3", TokenID: "7"}
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3:7", a.Key())
}

func TestParseTokenID(t *testing.T) {
	t.Parallel()

	id, err := domain.ParseTokenID("0xff")
	require.NoError(t, err)
	require.Equal(t, "255", id.String())

	id, err = domain.ParseTokenID("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	require.Equal(t, 256, id.BitLen())

	for _, invalid := range []string{"", "0x", "abc", "-3", "1.5"} {
		_, err := domain.ParseTokenID(invalid)
		require.ErrorIs(t, err, domain.ErrInvalidTokenID, invalid)
	}
}

func TestValidateAddress(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.ValidateAddress(contractA))
	require.NoError(t, domain.ValidateAddress(contractB))
	require.ErrorIs(t, domain.ValidateAddress("5FbDB2315678afecb367f032d93F642f64180aa3"), domain.ErrInvalidContractAddress)
	require.ErrorIs(t, domain.ValidateAddress("0xZZbDB2315678afecb367f032d93F642f64180aa3"), domain.ErrInvalidContractAddress)
}

func TestPage(t *testing.T) {
	t.Parallel()

	page := domain.NewPage(0, 0)
	require.Equal(t, 1, page.Number)
	require.Equal(t, domain.DefaultPageSize, page.Size)

	page = domain.NewPage(2, 12)
	require.Equal(t, 0, page.PageOf(0))
	require.Equal(t, 1, page.PageOf(12))
	require.Equal(t, 2, page.PageOf(13))
	require.Equal(t, 2, page.PageOf(24))
	require.Equal(t, 3, page.PageOf(25))
	require.False(t, page.Contains(12))
	require.True(t, page.Contains(13))
	require.False(t, page.Contains(25))
}
