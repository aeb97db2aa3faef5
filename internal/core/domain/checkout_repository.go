package domain

import "context"

// CheckoutRepository stores checkout records. AddCheckout must fail with
// ErrCheckoutAlreadySubmitted if a record for the same allocation exists.
type CheckoutRepository interface {
	AddCheckout(ctx context.Context, checkout Checkout) error
	GetCheckout(ctx context.Context, id string) (*Checkout, error)
	GetCheckoutByAllocation(ctx context.Context, allocationID string) (*Checkout, error)
	UpdateCheckout(
		ctx context.Context, id string,
		updateFn func(c *Checkout) (*Checkout, error),
	) error
	ListCheckouts(ctx context.Context, from string, page *Page) ([]Checkout, error)
}
