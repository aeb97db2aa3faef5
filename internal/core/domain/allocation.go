package domain

import (
	"errors"
	"math/big"

	"github.com/google/uuid"
	"github.com/tdex-network/tdex-custody/pkg/mathutil"
)

// SelectedAsset is an asset picked for withdrawal along with its fee,
// expressed as a decimal amount of native currency.
type SelectedAsset struct {
	Address string
	TokenID string
	Fee     string
}

// AllocationItem is one entry of an AllocationResult. Fee and FeeAfterCredit
// are always equal: the full fee is attached to the transaction while the
// consumed credit is redeemed separately by the custody contract.
type AllocationItem struct {
	Address        string
	TokenID        *big.Int
	Fee            *big.Int
	FeeAfterCredit *big.Int
	CreditUsed     *big.Int
}

// AllocationResult holds the exact values needed to build one batched
// withdrawal transaction. It is never mutated after Allocate returns it, every
// accessor returns copies.
type AllocationResult struct {
	id              string
	decimals        int32
	items           []AllocationItem
	totalFee        *big.Int
	availableCredit *big.Int
	remainingCredit *big.Int
}

// Allocate splits the available credit across the selected assets in the
// given order, greedily: each asset consumes as much credit as its fee until
// the credit runs out. Fees and credit are decimal strings converted to
// smallest units at the given precision, digits beyond it are truncated.
func Allocate(
	assets []SelectedAsset, availableCredit string, decimals int32,
) (*AllocationResult, error) {
	if len(assets) <= 0 {
		return nil, ErrEmptySelection
	}

	credit, err := mathutil.ToSmallestUnitNonNegative(availableCredit, decimals)
	if err != nil {
		if errors.Is(err, mathutil.ErrNegativeAmount) {
			return nil, ErrNegativeCredit
		}
		return nil, ErrInvalidCredit
	}

	fees := make([]*big.Int, 0, len(assets))
	tokenIDs := make([]*big.Int, 0, len(assets))
	for _, a := range assets {
		if err := ValidateAddress(a.Address); err != nil {
			return nil, err
		}
		tokenID, err := ParseTokenID(a.TokenID)
		if err != nil {
			return nil, err
		}
		fee, err := mathutil.ToSmallestUnitNonNegative(a.Fee, decimals)
		if err != nil {
			if errors.Is(err, mathutil.ErrNegativeAmount) {
				return nil, ErrNegativeFee
			}
			return nil, ErrInvalidFee
		}
		fees = append(fees, fee)
		tokenIDs = append(tokenIDs, tokenID)
	}

	remaining := new(big.Int).Set(credit)
	items := make([]AllocationItem, 0, len(assets))
	for i, fee := range fees {
		creditUsed := mathutil.Min(remaining, fee)
		remaining.Sub(remaining, creditUsed)

		items = append(items, AllocationItem{
			Address:        assets[i].Address,
			TokenID:        tokenIDs[i],
			Fee:            fee,
			FeeAfterCredit: new(big.Int).Set(fee),
			CreditUsed:     creditUsed,
		})
	}

	return &AllocationResult{
		id:              uuid.New().String(),
		decimals:        decimals,
		items:           items,
		totalFee:        mathutil.Sum(fees...),
		availableCredit: credit,
		remainingCredit: remaining,
	}, nil
}

// ID identifies the allocation, checkout uses it to prevent submitting the
// same allocation twice.
func (r *AllocationResult) ID() string {
	return r.id
}

func (r *AllocationResult) Decimals() int32 {
	return r.decimals
}

func (r *AllocationResult) Len() int {
	return len(r.items)
}

// IsSingle tells whether the allocation is for exactly one asset.
func (r *AllocationResult) IsSingle() bool {
	return len(r.items) == 1
}

// TotalFee is the sum of all fees, the value to attach to the transaction.
func (r *AllocationResult) TotalFee() *big.Int {
	return new(big.Int).Set(r.totalFee)
}

func (r *AllocationResult) AvailableCredit() *big.Int {
	return new(big.Int).Set(r.availableCredit)
}

func (r *AllocationResult) RemainingCredit() *big.Int {
	return new(big.Int).Set(r.remainingCredit)
}

// TotalCreditUsed is the sum of the credit consumed by all assets.
func (r *AllocationResult) TotalCreditUsed() *big.Int {
	return mathutil.Sub(r.availableCredit, r.remainingCredit)
}

func (r *AllocationResult) Items() []AllocationItem {
	items := make([]AllocationItem, 0, len(r.items))
	for _, it := range r.items {
		items = append(items, AllocationItem{
			Address:        it.Address,
			TokenID:        new(big.Int).Set(it.TokenID),
			Fee:            new(big.Int).Set(it.Fee),
			FeeAfterCredit: new(big.Int).Set(it.FeeAfterCredit),
			CreditUsed:     new(big.Int).Set(it.CreditUsed),
		})
	}
	return items
}

func (r *AllocationResult) Addresses() []string {
	addresses := make([]string, 0, len(r.items))
	for _, it := range r.items {
		addresses = append(addresses, it.Address)
	}
	return addresses
}

func (r *AllocationResult) TokenIDs() []*big.Int {
	return r.column(func(it AllocationItem) *big.Int { return it.TokenID })
}

func (r *AllocationResult) FeesAfterCredit() []*big.Int {
	return r.column(func(it AllocationItem) *big.Int { return it.FeeAfterCredit })
}

func (r *AllocationResult) CreditsUsed() []*big.Int {
	return r.column(func(it AllocationItem) *big.Int { return it.CreditUsed })
}

func (r *AllocationResult) column(get func(AllocationItem) *big.Int) []*big.Int {
	values := make([]*big.Int, 0, len(r.items))
	for _, it := range r.items {
		values = append(values, new(big.Int).Set(get(it)))
	}
	return values
}
