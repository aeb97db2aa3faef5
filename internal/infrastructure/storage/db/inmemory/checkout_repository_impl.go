package inmemory

import (
	"context"
	"strings"
	"sync"

	"github.com/tdex-network/tdex-custody/internal/core/domain"
)

type checkoutRepositoryImpl struct {
	locker       *sync.RWMutex
	checkouts    map[string]domain.Checkout
	byAllocation map[string]string
	// insertion order, for listing
	ids []string
}

func NewCheckoutRepositoryImpl() domain.CheckoutRepository {
	return &checkoutRepositoryImpl{
		locker:       &sync.RWMutex{},
		checkouts:    make(map[string]domain.Checkout),
		byAllocation: make(map[string]string),
		ids:          make([]string, 0),
	}
}

func (r *checkoutRepositoryImpl) AddCheckout(
	_ context.Context, checkout domain.Checkout,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if _, ok := r.byAllocation[checkout.AllocationID]; ok {
		return domain.ErrCheckoutAlreadySubmitted
	}
	if _, ok := r.checkouts[checkout.ID]; ok {
		return domain.ErrCheckoutAlreadySubmitted
	}

	r.checkouts[checkout.ID] = copyCheckout(checkout)
	r.byAllocation[checkout.AllocationID] = checkout.ID
	r.ids = append(r.ids, checkout.ID)
	return nil
}

func (r *checkoutRepositoryImpl) GetCheckout(
	_ context.Context, id string,
) (*domain.Checkout, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	return r.getCheckout(id)
}

func (r *checkoutRepositoryImpl) GetCheckoutByAllocation(
	_ context.Context, allocationID string,
) (*domain.Checkout, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	id, ok := r.byAllocation[allocationID]
	if !ok {
		return nil, domain.ErrCheckoutNotFound
	}
	return r.getCheckout(id)
}

func (r *checkoutRepositoryImpl) UpdateCheckout(
	_ context.Context, id string,
	updateFn func(c *domain.Checkout) (*domain.Checkout, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	checkout, err := r.getCheckout(id)
	if err != nil {
		return err
	}

	updated, err := updateFn(checkout)
	if err != nil {
		return err
	}
	r.checkouts[id] = copyCheckout(*updated)
	return nil
}

func (r *checkoutRepositoryImpl) ListCheckouts(
	_ context.Context, from string, page *domain.Page,
) ([]domain.Checkout, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	var startIndex, endIndex int
	if page != nil {
		startIndex = page.Number*page.Size - page.Size + 1
		endIndex = page.Number * page.Size
	}

	result := make([]domain.Checkout, 0)
	index := 1
	// most recent first
	for i := len(r.ids) - 1; i >= 0; i-- {
		c := r.checkouts[r.ids[i]]
		if from != "" && !strings.EqualFold(c.From, from) {
			continue
		}
		if page == nil || (index >= startIndex && index <= endIndex) {
			result = append(result, copyCheckout(c))
		}
		index++
	}
	return result, nil
}

func (r *checkoutRepositoryImpl) getCheckout(id string) (*domain.Checkout, error) {
	checkout, ok := r.checkouts[id]
	if !ok {
		return nil, domain.ErrCheckoutNotFound
	}
	c := copyCheckout(checkout)
	return &c, nil
}

func copyCheckout(c domain.Checkout) domain.Checkout {
	c.TxHashes = append([]string(nil), c.TxHashes...)
	return c
}
