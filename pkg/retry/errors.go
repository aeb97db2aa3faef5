package retry

import (
	"errors"
	"fmt"
)

// ErrMaxRetriesExceeded is matched by every *MaxRetriesError via errors.Is.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// MaxRetriesError is returned once a call failed for all the attempts allowed
// by the policy. It carries the error of the last attempt.
type MaxRetriesError struct {
	Attempts int
	Last     error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf(
		"%s after %d attempts: %v", ErrMaxRetriesExceeded, e.Attempts, e.Last,
	)
}

func (e *MaxRetriesError) Unwrap() error {
	return e.Last
}

func (e *MaxRetriesError) Is(target error) bool {
	return target == ErrMaxRetriesExceeded
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string {
	return e.err.Error()
}

func (e permanentError) Unwrap() error {
	return e.err
}

// Permanent marks err as not worth retrying, the executor fails immediately
// returning the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err}
}

func isPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

func unwrapPermanent(err error) error {
	var p permanentError
	if errors.As(err, &p) {
		return p.err
	}
	return err
}
