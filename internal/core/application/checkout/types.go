package checkout

import (
	"math/big"

	"github.com/tdex-network/tdex-custody/internal/core/domain"
)

const (
	// WithdrawMethod withdraws a single asset: (asset contract, token id, credit used).
	WithdrawMethod = "withdraw(address,uint256,uint256)"
	// WithdrawBatchMethod withdraws many assets at once: (asset contracts,
	// token ids, fees after credit, credits used).
	WithdrawBatchMethod = "withdrawBatch(address[],uint256[],uint256[],uint256[])"
)

// txRequest is the contract call derived from an allocation.
type txRequest struct {
	to     string
	method string
	args   []interface{}
	value  *big.Int
}

func (r txRequest) GetTo() string {
	return r.to
}

func (r txRequest) GetMethod() string {
	return r.method
}

func (r txRequest) GetArgs() []interface{} {
	return r.args
}

func (r txRequest) GetValue() *big.Int {
	return new(big.Int).Set(r.value)
}

// newTxRequest builds the withdrawal call for the given allocation. The
// transaction carries the total fee as value.
func newTxRequest(custodyContract string, allocation *domain.AllocationResult) txRequest {
	if allocation.IsSingle() {
		item := allocation.Items()[0]
		return txRequest{
			to:     custodyContract,
			method: WithdrawMethod,
			args:   []interface{}{item.Address, item.TokenID, item.CreditUsed},
			value:  allocation.TotalFee(),
		}
	}

	return txRequest{
		to:     custodyContract,
		method: WithdrawBatchMethod,
		args: []interface{}{
			allocation.Addresses(),
			allocation.TokenIDs(),
			allocation.FeesAfterCredit(),
			allocation.CreditsUsed(),
		},
		value: allocation.TotalFee(),
	}
}
