package custody

import (
	"fmt"
	"strings"

	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/pkg/retry"
)

// Contract describes the read-only interface of a custody contract. Methods
// are full canonical signatures.
type Contract struct {
	Address string
	// CustodyIDMethod maps (asset contract, token id) to the custody-internal id.
	CustodyIDMethod string
	// LockExpiryMethod returns the lock expiry for a custody id, 0 if unlocked.
	LockExpiryMethod string
	// ValuationMethod optionally returns (price, value) for a custody id.
	ValuationMethod string
}

// Config is the immutable configuration of the service.
type Config struct {
	Contract Contract
	PageSize int
	Decimals int32
	// Gateway is the HTTP gateway used to resolve ipfs:// media URIs.
	Gateway string
	// CallPolicy applies to every single contract call of ListPage and Call.
	CallPolicy retry.Policy
	// CountPolicy applies to whole CountAll walks.
	CountPolicy retry.Policy
	// CallRateLimit caps the contract calls per second, 0 means unlimited.
	CallRateLimit int
}

// DefaultCountPolicy restarts a counting walk up to 5 times waiting 1s, 2s,
// 4s, 8s in between.
func DefaultCountPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 5, BaseDelay: defaultCountBaseDelay}
}

func (c Config) validate() error {
	if err := domain.ValidateAddress(c.Contract.Address); err != nil {
		return fmt.Errorf("custody contract: %w", err)
	}
	if err := validateCall(
		c.Contract.CustodyIDMethod, make([]interface{}, 2),
	); err != nil {
		return fmt.Errorf("custody id method: %w", err)
	}
	if err := validateCall(
		c.Contract.LockExpiryMethod, make([]interface{}, 1),
	); err != nil {
		return fmt.Errorf("lock expiry method: %w", err)
	}
	if c.Contract.ValuationMethod != "" {
		if err := validateCall(
			c.Contract.ValuationMethod, make([]interface{}, 1),
		); err != nil {
			return fmt.Errorf("valuation method: %w", err)
		}
	}
	if c.CallRateLimit < 0 {
		return fmt.Errorf("call rate limit must not be negative")
	}
	return nil
}

// Warning reports an asset (or the index itself when AssetKey is empty) that
// could not be processed during an enumeration.
type Warning struct {
	AssetKey string
	Err      error
}

func (w Warning) String() string {
	if w.AssetKey == "" {
		return fmt.Sprintf("index: %s", w.Err)
	}
	return fmt.Sprintf("asset %s: %s", w.AssetKey, w.Err)
}

// PageResult holds the assets of one page split by custody status, in index
// order. Warnings is not empty when the page may be missing some assets.
type PageResult struct {
	Page      domain.Page
	Available []domain.Asset
	Locked    []domain.Asset
	Warnings  []Warning
}

func (r *PageResult) Len() int {
	return len(r.Available) + len(r.Locked)
}

// IsPartial tells whether some assets may be missing from the page.
func (r *PageResult) IsPartial() bool {
	return len(r.Warnings) > 0
}

// WarningsString joins all warnings in a single line.
func (r *PageResult) WarningsString() string {
	s := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		s = append(s, w.String())
	}
	return strings.Join(s, "; ")
}

// Counts is the number of assets of an owner by custody status.
type Counts struct {
	Available int
	Locked    int
}

func (c Counts) Total() int {
	return c.Available + c.Locked
}
