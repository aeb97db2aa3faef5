package evmrpc_test

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	"github.com/tdex-network/tdex-custody/internal/infrastructure/evmrpc"
)

type txRequest struct {
	to     string
	method string
	args   []interface{}
	value  *big.Int
}

func (r txRequest) GetTo() string          { return r.to }
func (r txRequest) GetMethod() string      { return r.method }
func (r txRequest) GetArgs() []interface{} { return r.args }
func (r txRequest) GetValue() *big.Int     { return r.value }

func TestSubmit(t *testing.T) {
	count := 0
	n := &node{
		handle: func(req rpcRequest) (interface{}, *evmrpc.RPCError, int) {
			count++
			return fmt.Sprintf("0x%064x", count), nil, http.StatusOK
		},
	}
	srv := httptest.NewServer(n)
	defer srv.Close()

	submitter, err := evmrpc.NewSubmitter(srv.URL, time.Second)
	require.NoError(t, err)

	oneEth := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	txHashes, err := submitter.Submit(context.Background(), account, []ports.TxRequest{
		txRequest{
			to:     contract,
			method: "withdraw(address,uint256,uint256)",
			args:   []interface{}{contract, big.NewInt(1), big.NewInt(0)},
			value:  oneEth,
		},
		txRequest{
			to:     contract,
			method: "withdraw(address,uint256,uint256)",
			args:   []interface{}{contract, big.NewInt(2), big.NewInt(0)},
			value:  big.NewInt(0),
		},
	})
	require.NoError(t, err)
	require.Len(t, txHashes, 2)
	require.Len(t, n.requests, 2)
	require.Equal(t, "eth_sendTransaction", n.requests[0].Method)

	msg := n.msg(t, 0)
	require.Equal(t, account, msg.From)
	require.Equal(t, contract, msg.To)
	require.Equal(t, "0xde0b6b3a7640000", msg.Value)

	msg = n.msg(t, 1)
	require.Empty(t, msg.Value)
}

func TestFailingSubmit(t *testing.T) {
	calls := 0
	n := &node{
		handle: func(req rpcRequest) (interface{}, *evmrpc.RPCError, int) {
			calls++
			if calls > 1 {
				return nil, &evmrpc.RPCError{Code: -32000, Message: "insufficient funds"}, http.StatusOK
			}
			return fmt.Sprintf("0x%064x", calls), nil, http.StatusOK
		},
	}
	srv := httptest.NewServer(n)
	defer srv.Close()

	submitter, err := evmrpc.NewSubmitter(srv.URL, time.Second)
	require.NoError(t, err)

	req := txRequest{
		to:     contract,
		method: "withdraw(address,uint256,uint256)",
		args:   []interface{}{contract, big.NewInt(1), big.NewInt(0)},
		value:  big.NewInt(1),
	}
	txHashes, err := submitter.Submit(
		context.Background(), account, []ports.TxRequest{req, req, req},
	)
	require.Error(t, err)
	// the first tx went through, the third was never sent
	require.Len(t, txHashes, 1)
	require.Len(t, n.requests, 2)
}
