package retry

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

// Timer suspends the calling goroutine, it must return early with the
// context error if ctx is done before d elapses.
type Timer interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realTimer struct{}

func (realTimer) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Observer is notified of every state transition. It is meant for reporting
// (logs, metrics) and must not block.
type Observer func(name string, t Transition)

// Executor runs calls retrying them according to its Policy. It holds no
// per-call state and is safe for concurrent use.
type Executor struct {
	name      string
	policy    Policy
	timer     Timer
	random    func() float64
	observers []Observer
}

type Option func(*Executor)

// WithTimer replaces the real timer, mainly for testing.
func WithTimer(timer Timer) Option {
	return func(e *Executor) {
		e.timer = timer
	}
}

// WithRandom replaces the source of jitter, it must return values in [0, 1).
func WithRandom(random func() float64) Option {
	return func(e *Executor) {
		e.random = random
	}
}

func WithObserver(observer Observer) Option {
	return func(e *Executor) {
		e.observers = append(e.observers, observer)
	}
}

// NewExecutor returns an Executor identified by name in logs and metrics.
func NewExecutor(name string, policy Policy, opts ...Option) *Executor {
	e := &Executor{
		name:   name,
		policy: policy.normalize(),
		timer:  realTimer{},
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Name() string {
	return e.name
}

func (e *Executor) Policy() Policy {
	return e.policy
}

// Do invokes fn until it succeeds or the executor's policy is exhausted, in
// which case a *MaxRetriesError is returned. Errors marked with Permanent are
// returned right away, as is the context error if ctx is done.
func Do[T any](
	ctx context.Context, e *Executor, fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	m := NewMachine(e.policy, e.random)

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := fn(ctx)
		if err != nil && ctx.Err() != nil {
			return zero, ctx.Err()
		}
		e.notify(m.Report(err))

		switch m.State() {
		case Succeeded:
			return v, nil
		case Failed:
			return zero, m.Err()
		}

		if err := e.timer.Sleep(ctx, m.Delay()); err != nil {
			return zero, err
		}
		e.notify(m.Resume())
	}
}

// Run is Do for calls that only return an error.
func Run(ctx context.Context, e *Executor, fn func(context.Context) error) error {
	_, err := Do(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (e *Executor) notify(t Transition) {
	switch t.To {
	case Waiting:
		log.WithError(t.Err).Debugf(
			"%s: attempt %d/%d failed, retrying in %s",
			e.name, t.Attempt, e.policy.MaxAttempts, t.Delay,
		)
	case Failed:
		log.WithError(t.Err).Warnf("%s: giving up after attempt %d", e.name, t.Attempt)
	}

	for _, observe := range e.observers {
		observe(e.name, t)
	}
}
