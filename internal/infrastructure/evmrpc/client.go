package evmrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-custody/pkg/circuitbreaker"
)

const (
	jsonRPCVersion = "2.0"
	defaultTimeout = 15 * time.Second
	maxBodySize    = 10 << 20
)

var (
	// ErrMissingEndpoint ...
	ErrMissingEndpoint = errors.New("missing rpc endpoint")
	// ErrNodeUnavailable is returned without contacting the node while its
	// circuit breaker refuses requests.
	ErrNodeUnavailable = errors.New("rpc node unavailable")
)

// RPCError is an error returned by the node in the JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Err     *RPCError       `json:"error"`
}

// client is a minimal JSON-RPC 2.0 client over HTTP. Transport failures are
// counted by a circuit breaker, errors returned by the node are not.
type client struct {
	endpoint string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
	nextID   atomic.Uint64
}

func newClient(endpoint string, timeout time.Duration) (*client, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid rpc endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid rpc endpoint scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		cb:       circuitbreaker.NewCircuitBreaker(u.Host),
	}, nil
}

// call invokes the remote method and unmarshals its result into result.
func (c *client) call(
	ctx context.Context, method string, params []interface{}, result interface{},
) error {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(request{
		JSONRPC: jsonRPCVersion,
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	iResp, err := c.cb.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			log.WithError(err).Debugf("rpc call %s refused by circuit breaker", method)
			return fmt.Errorf("%s: %w: %w", method, ErrNodeUnavailable, err)
		}
		return fmt.Errorf("%s: %w", method, err)
	}

	resp := iResp.(*response)
	if resp.Err != nil {
		return fmt.Errorf("%s: %w", method, resp.Err)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("%s: unmarshal result: %w", method, err)
	}
	return nil
}

func (c *client) post(ctx context.Context, body []byte) (*response, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, data)
	}

	resp := &response{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return resp, nil
}
