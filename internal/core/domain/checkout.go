package domain

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutStatus int

const (
	CheckoutPending CheckoutStatus = iota
	CheckoutSubmitted
	CheckoutFailed
)

func (s CheckoutStatus) String() string {
	switch s {
	case CheckoutSubmitted:
		return "SUBMITTED"
	case CheckoutFailed:
		return "FAILED"
	default:
		return "PENDING"
	}
}

// Checkout records the submission of one AllocationResult.
type Checkout struct {
	ID           string
	AllocationID string
	From         string
	TotalFee     string
	CreditUsed   string
	NumOfAssets  int
	Status       CheckoutStatus
	TxHashes     []string
	FailReason   string
	CreatedAt    int64
	UpdatedAt    int64
}

// NewCheckout returns a pending checkout for the given allocation.
func NewCheckout(from string, allocation *AllocationResult) *Checkout {
	now := time.Now().Unix()
	return &Checkout{
		ID:           uuid.New().String(),
		AllocationID: allocation.ID(),
		From:         from,
		TotalFee:     allocation.TotalFee().String(),
		CreditUsed:   allocation.TotalCreditUsed().String(),
		NumOfAssets:  allocation.Len(),
		Status:       CheckoutPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *Checkout) IsPending() bool {
	return c.Status == CheckoutPending
}

// Submit marks the checkout as submitted with the returned tx hashes.
func (c *Checkout) Submit(txHashes []string) error {
	if !c.IsPending() {
		return ErrCheckoutNotPending
	}
	c.Status = CheckoutSubmitted
	c.TxHashes = append([]string{}, txHashes...)
	c.UpdatedAt = time.Now().Unix()
	return nil
}

// Fail marks the checkout as failed.
func (c *Checkout) Fail(reason string) error {
	if !c.IsPending() {
		return ErrCheckoutNotPending
	}
	c.Status = CheckoutFailed
	c.FailReason = reason
	c.UpdatedAt = time.Now().Unix()
	return nil
}
