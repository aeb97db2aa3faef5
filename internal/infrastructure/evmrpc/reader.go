package evmrpc

import (
	"context"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

const latestBlock = "latest"

type callMsg struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value,omitempty"`
}

type reader struct {
	client *client
}

// NewReader returns a ContractReader performing eth_call against the node at
// the given endpoint. Every call is a single attempt.
func NewReader(endpoint string, timeout time.Duration) (ports.ContractReader, error) {
	c, err := newClient(endpoint, timeout)
	if err != nil {
		return nil, err
	}
	return &reader{c}, nil
}

func (r *reader) Call(
	ctx context.Context, contract, method string, args ...interface{},
) ([]*big.Int, error) {
	data, err := EncodeCall(method, args...)
	if err != nil {
		return nil, err
	}

	var result string
	if err := r.client.call(ctx, "eth_call", []interface{}{
		callMsg{To: contract, Data: "0x" + hex.EncodeToString(data)},
		latestBlock,
	}, &result); err != nil {
		return nil, err
	}
	return DecodeWords(result)
}
