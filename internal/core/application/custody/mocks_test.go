package custody_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math/big"
	"sync"
	"time"

	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

const (
	custodyContract = "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
	nftContract     = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	owner           = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	custodyIDMethod  = "tokenToCustodyId(address,uint256)"
	lockExpiryMethod = "lockExpiry(uint256)"
	valuationMethod  = "valuationOf(uint256)"

	custodyIDOffset = 1000
	lockedUntil     = 1893456000
)

var errRPC = errors.New("rpc: connection reset by peer")

// **** Asset index ****

type rawAsset struct {
	contract   string
	tokenID    string
	name       string
	image      string
	attributes json.RawMessage
}

func (r rawAsset) GetContractAddress() string     { return r.contract }
func (r rawAsset) GetTokenID() string             { return r.tokenID }
func (r rawAsset) GetName() string                { return r.name }
func (r rawAsset) GetDescription() string         { return "" }
func (r rawAsset) GetImage() string               { return r.image }
func (r rawAsset) GetAnimationURL() string        { return "" }
func (r rawAsset) GetAttributes() json.RawMessage { return r.attributes }

// newRawAssets returns n assets with token ids from 1 to n.
func newRawAssets(n int) []ports.RawAsset {
	assets := make([]ports.RawAsset, 0, n)
	for i := 1; i <= n; i++ {
		assets = append(assets, rawAsset{
			contract: nftContract,
			tokenID:  fmt.Sprintf("%d", i),
			name:     fmt.Sprintf("asset #%d", i),
			image:    fmt.Sprintf("ipfs://cid/%d.png", i),
		})
	}
	return assets
}

type mockIndex struct {
	lock    sync.Mutex
	assets  []ports.RawAsset
	failAt  int
	walks   int
	yielded int
}

func (m *mockIndex) Assets(
	ctx context.Context, _ string, _ []string,
) iter.Seq2[ports.RawAsset, error] {
	m.lock.Lock()
	m.walks++
	m.lock.Unlock()

	return func(yield func(ports.RawAsset, error) bool) {
		for i, a := range m.assets {
			if m.failAt > 0 && i+1 == m.failAt {
				yield(nil, errors.New("index: bad gateway"))
				return
			}
			m.lock.Lock()
			m.yielded++
			m.lock.Unlock()
			if !yield(a, nil) {
				return
			}
		}
	}
}

// **** Contract reader ****

type call struct {
	method string
	token  int64
}

// mockReader maps token n to custody id 1000+n, even tokens are locked.
// Failures can be injected per (method, token id) for a number of times.
type mockReader struct {
	lock      sync.Mutex
	calls     []call
	failures  map[call]int
	permanent map[call]bool
	delay     time.Duration
	// onCall runs after each call is recorded
	onCall func()
}

func newMockReader() *mockReader {
	return &mockReader{
		calls:     make([]call, 0),
		failures:  make(map[call]int),
		permanent: make(map[call]bool),
	}
}

func (m *mockReader) failTimes(method string, token int64, times int) {
	m.failures[call{method, token}] = times
}

func (m *mockReader) failAlways(method string, token int64) {
	m.permanent[call{method, token}] = true
}

func (m *mockReader) Call(
	ctx context.Context, contract, method string, args ...interface{},
) ([]*big.Int, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if contract != custodyContract {
		return nil, fmt.Errorf("unexpected contract %s", contract)
	}

	var token int64
	switch method {
	case custodyIDMethod:
		token = args[1].(*big.Int).Int64()
	default:
		token = args[0].(*big.Int).Int64() - custodyIDOffset
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	c := call{method, token}
	m.calls = append(m.calls, c)
	if m.onCall != nil {
		m.onCall()
	}
	if m.permanent[c] {
		return nil, errRPC
	}
	if m.failures[c] > 0 {
		m.failures[c]--
		return nil, errRPC
	}

	switch method {
	case custodyIDMethod:
		return []*big.Int{big.NewInt(token + custodyIDOffset)}, nil
	case lockExpiryMethod:
		if token%2 == 0 {
			return []*big.Int{big.NewInt(lockedUntil)}, nil
		}
		// unlocked assets return an empty result
		return nil, nil
	case valuationMethod:
		return []*big.Int{
			new(big.Int).Mul(big.NewInt(token), big.NewInt(1e16)),
			new(big.Int).Mul(big.NewInt(token), big.NewInt(1e17)),
		}, nil
	}
	return nil, fmt.Errorf("unknown method %s", method)
}

// annotatedTokens returns the tokens for which the lock expiry was read.
func (m *mockReader) annotatedTokens() []int64 {
	m.lock.Lock()
	defer m.lock.Unlock()

	tokens := make([]int64, 0)
	for _, c := range m.calls {
		if c.method == lockExpiryMethod {
			tokens = append(tokens, c.token)
		}
	}
	return tokens
}

func (m *mockReader) callsFor(method string, token int64) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	count := 0
	for _, c := range m.calls {
		if c == (call{method, token}) {
			count++
		}
	}
	return count
}

// **** Timer ****

type mockTimer struct {
	lock   sync.Mutex
	delays []time.Duration
}

func (m *mockTimer) Sleep(ctx context.Context, d time.Duration) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.delays = append(m.delays, d)
	return ctx.Err()
}

func (m *mockTimer) sleeps() []time.Duration {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]time.Duration{}, m.delays...)
}
