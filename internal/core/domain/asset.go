package domain

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/tdex-network/tdex-custody/pkg/mathutil"
)

// CustodyStatus tells whether an asset can be withdrawn or is reserved by a
// rental lock.
type CustodyStatus int

const (
	Available CustodyStatus = iota
	Locked
)

func (s CustodyStatus) String() string {
	if s == Locked {
		return "LOCKED"
	}
	return "AVAILABLE"
}

// CustodyState is derived from the lock expiry read from the custody
// contract on every fetch, it is never stored.
type CustodyState struct {
	Status      CustodyStatus
	LockedUntil uint64
}

// NewCustodyState classifies an asset: a zero or missing lock expiry means
// the asset is available, any other value locks it until that timestamp.
func NewCustodyState(lockExpiry *big.Int) CustodyState {
	if lockExpiry == nil || lockExpiry.Sign() == 0 {
		return CustodyState{Status: Available}
	}
	until := uint64(math.MaxUint64)
	if lockExpiry.IsUint64() {
		until = lockExpiry.Uint64()
	}
	return CustodyState{Status: Locked, LockedUntil: until}
}

func (s CustodyState) IsLocked() bool {
	return s.Status == Locked
}

// LockedUntilTime returns the lock expiry as time, zero for available assets.
func (s CustodyState) LockedUntilTime() time.Time {
	if !s.IsLocked() || s.LockedUntil > math.MaxInt64 {
		return time.Time{}
	}
	return time.Unix(int64(s.LockedUntil), 0).UTC()
}

// Valuation is read from the custody contract and may be zero.
type Valuation struct {
	Price mathutil.Amount
	Value mathutil.Amount
}

type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// Metadata is passed through as returned by the index, except for media URIs
// that are rewritten to an HTTP gateway.
type Metadata struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Image        string      `json:"image"`
	AnimationURL string      `json:"animation_url"`
	Attributes   []Attribute `json:"attributes"`
}

// Asset is a non fungible token observed in the index and annotated with
// custody info. Assets are built fresh on every enumeration.
type Asset struct {
	ContractAddress string
	TokenID         string
	CustodyID       *big.Int
	State           CustodyState
	Valuation       Valuation
	Metadata        Metadata
}

// Key returns the stable external identity of the asset.
func (a Asset) Key() string {
	return AssetKey(a.ContractAddress, a.TokenID)
}

func (a Asset) IsLocked() bool {
	return a.State.IsLocked()
}

// AssetKey returns contract address and token id joined, the address is
// lowercased so that checksummed and plain forms map to the same key.
func AssetKey(contractAddress, tokenID string) string {
	return fmt.Sprintf("%s:%s", strings.ToLower(contractAddress), tokenID)
}

// ParseTokenID parses a token id given either in decimal or 0x-prefixed hex
// form.
func ParseTokenID(tokenID string) (*big.Int, error) {
	s := strings.TrimSpace(tokenID)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	id, ok := new(big.Int).SetString(s, base)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenID, tokenID)
	}
	return id, nil
}

// ValidateAddress checks that addr is a 0x-prefixed 20 bytes hex string.
func ValidateAddress(addr string) error {
	if len(addr) != 42 || !strings.HasPrefix(strings.ToLower(addr), "0x") {
		return fmt.Errorf("%w: %q", ErrInvalidContractAddress, addr)
	}
	if _, err := hex.DecodeString(addr[2:]); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidContractAddress, addr)
	}
	return nil
}
