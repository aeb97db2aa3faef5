package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTokenID is returned when a token id is not an unsigned integer
	// in decimal or 0x-prefixed hex form.
	ErrInvalidTokenID = errors.New("token id must be an unsigned integer")
	// ErrInvalidContractAddress ...
	ErrInvalidContractAddress = errors.New("contract address must be a 20 bytes hex string")

	// ErrAllocationPrecondition is matched by every error caused by invalid
	// allocation input, such errors must never be retried.
	ErrAllocationPrecondition = errors.New("allocation precondition failed")
	// ErrNegativeFee ...
	ErrNegativeFee = fmt.Errorf("%w: fee must not be negative", ErrAllocationPrecondition)
	// ErrNegativeCredit ...
	ErrNegativeCredit = fmt.Errorf("%w: credit must not be negative", ErrAllocationPrecondition)
	// ErrEmptySelection ...
	ErrEmptySelection = fmt.Errorf("%w: at least one asset must be selected", ErrAllocationPrecondition)
	// ErrInvalidFee ...
	ErrInvalidFee = fmt.Errorf("%w: fee must be a decimal number", ErrAllocationPrecondition)
	// ErrInvalidCredit ...
	ErrInvalidCredit = fmt.Errorf("%w: credit must be a decimal number", ErrAllocationPrecondition)

	// ErrCheckoutNotFound ...
	ErrCheckoutNotFound = errors.New("checkout not found")
	// ErrCheckoutAlreadySubmitted is returned when trying to submit an
	// allocation that already went through checkout.
	ErrCheckoutAlreadySubmitted = errors.New("allocation has already been submitted")
	// ErrCheckoutNotPending ...
	ErrCheckoutNotPending = errors.New("checkout must be pending to perform this operation")
)

// SubmissionError wraps any failure of the external signing/broadcast
// service. It is surfaced as is and never retried.
type SubmissionError struct {
	CheckoutID string
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("checkout %s: submission failed: %v", e.CheckoutID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
