package ports

import (
	"context"
	"math/big"
)

// TxRequest is a contract call to be signed and broadcast.
type TxRequest interface {
	GetTo() string
	GetMethod() string
	GetArgs() []interface{}
	GetValue() *big.Int
}

// TxSubmitter signs and broadcasts transactions on behalf of from. The
// requests may be batched into a single submission unit. It is the only
// capability able to change on-chain state.
type TxSubmitter interface {
	Submit(ctx context.Context, from string, reqs []TxRequest) ([]string, error)
}
