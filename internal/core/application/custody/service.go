package custody

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	"github.com/tdex-network/tdex-custody/pkg/retry"
	"go.uber.org/ratelimit"
)

const (
	defaultCountBaseDelay = time.Second

	callExecutorName  = "contract-call"
	countExecutorName = "count-walk"
)

var (
	// ErrInvalidCall is returned when the args don't match the arity of the
	// method signature. Such calls are never sent nor retried.
	ErrInvalidCall = errors.New("invalid contract call")
)

// Service enumerates the assets of an owner cross-referencing every one of
// them with the state of the custody contract. It holds no per-call state
// and is safe for concurrent use.
type Service struct {
	reader  ports.ContractReader
	index   ports.AssetIndex
	cfg     Config
	calls   *retry.Executor
	walks   *retry.Executor
	limiter ratelimit.Limiter
}

// NewService returns a custody service. The retry options (timer, observers)
// apply to both the per-call and the per-walk executors.
func NewService(
	reader ports.ContractReader,
	index ports.AssetIndex,
	cfg Config,
	opts ...retry.Option,
) (*Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("missing contract reader")
	}
	if index == nil {
		return nil, fmt.Errorf("missing asset index")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = domain.DefaultPageSize
	}
	if cfg.Decimals <= 0 {
		cfg.Decimals = domain.NativeDecimals
	}
	if cfg.CallPolicy.MaxAttempts <= 0 {
		cfg.CallPolicy = retry.DefaultPolicy()
	}
	if cfg.CountPolicy.MaxAttempts <= 0 {
		cfg.CountPolicy = DefaultCountPolicy()
	}
	// whole walks are never jittered
	cfg.CountPolicy.Jitter = false

	limiter := ratelimit.NewUnlimited()
	if cfg.CallRateLimit > 0 {
		limiter = ratelimit.New(cfg.CallRateLimit)
	}

	return &Service{
		reader:  reader,
		index:   index,
		cfg:     cfg,
		calls:   retry.NewExecutor(callExecutorName, cfg.CallPolicy, opts...),
		walks:   retry.NewExecutor(countExecutorName, cfg.CountPolicy, opts...),
		limiter: limiter,
	}, nil
}

func (s *Service) PageSize() int {
	return s.cfg.PageSize
}

// Call performs any read-only contract call retrying it on failure. An
// exhausted call fails with retry.ErrMaxRetriesExceeded.
func (s *Service) Call(
	ctx context.Context, contract, method string, args ...interface{},
) ([]*big.Int, error) {
	if err := validateCall(method, args); err != nil {
		return nil, err
	}
	return retry.Do(ctx, s.calls, func(ctx context.Context) ([]*big.Int, error) {
		return s.limitedCall(ctx, contract, method, args...)
	})
}

// CallUint is like Call but returns only the first word of the result,
// defaulting to zero if the contract returned nothing.
func (s *Service) CallUint(
	ctx context.Context, contract, method string, args ...interface{},
) (*big.Int, error) {
	words, err := s.Call(ctx, contract, method, args...)
	if err != nil {
		return nil, err
	}
	return word(words, 0), nil
}

// readCustody reads from the custody contract, retried or in a single
// attempt.
func (s *Service) readCustody(
	ctx context.Context, retried bool, method string, args ...interface{},
) ([]*big.Int, error) {
	if retried {
		return s.Call(ctx, s.cfg.Contract.Address, method, args...)
	}
	if err := validateCall(method, args); err != nil {
		return nil, err
	}
	return s.limitedCall(ctx, s.cfg.Contract.Address, method, args...)
}

// limitedCall waits for the rate limiter before calling the reader. Take
// can't be interrupted, the wait is at most one limiter period after which
// a canceled context is reported without calling.
func (s *Service) limitedCall(
	ctx context.Context, contract, method string, args ...interface{},
) ([]*big.Int, error) {
	s.limiter.Take()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.Call(ctx, contract, method, args...)
}

// validateCall checks that the number of args matches the number of
// top-level parameters of the signature.
func validateCall(method string, args []interface{}) error {
	open := strings.Index(method, "(")
	if open <= 0 || !strings.HasSuffix(method, ")") {
		return fmt.Errorf("%w: malformed signature %q", ErrInvalidCall, method)
	}
	params := method[open+1 : len(method)-1]

	arity, depth := 0, 0
	if strings.TrimSpace(params) != "" {
		arity = 1
		for _, c := range params {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			case ',':
				if depth == 0 {
					arity++
				}
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: malformed signature %q", ErrInvalidCall, method)
	}
	if arity != len(args) {
		return fmt.Errorf(
			"%w: %s expects %d args, got %d", ErrInvalidCall, method, arity, len(args),
		)
	}
	return nil
}

// word returns the i-th word of a call result, zero if missing.
func word(words []*big.Int, i int) *big.Int {
	if i >= len(words) || words[i] == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(words[i])
}
