package retry

import "time"

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 500 * time.Millisecond

	maxShift = 30
)

// Policy defines how many times a call is attempted and how long to wait
// between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, the first one included.
	MaxAttempts int
	// BaseDelay is multiplied by 2^n before the (n+1)-th retry.
	BaseDelay time.Duration
	// Jitter scales every delay by a random factor in [1, 2).
	Jitter bool
}

// DefaultPolicy is used for single read-only remote calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Jitter:      true,
	}
}

// Delay returns the backoff to apply after the given 0-based failed attempt.
func (p Policy) Delay(failedAttempt int, random func() float64) time.Duration {
	if failedAttempt < 0 {
		failedAttempt = 0
	}
	if failedAttempt > maxShift {
		failedAttempt = maxShift
	}
	delay := p.BaseDelay * time.Duration(1<<uint(failedAttempt))
	if p.Jitter && random != nil {
		delay = time.Duration(float64(delay) * (1 + random()))
	}
	return delay
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	return p
}
