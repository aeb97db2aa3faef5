package ports

import (
	"context"
	"math/big"
)

// ContractReader performs read-only calls against deployed contracts.
// The method is the full canonical signature, ie. "lockExpiry(uint256)",
// which also disambiguates overloads. Results are the static 32-byte words
// returned by the call decoded as unsigned integers, an empty result means
// the contract returned nothing.
type ContractReader interface {
	Call(
		ctx context.Context, contract, method string, args ...interface{},
	) ([]*big.Int, error)
}
