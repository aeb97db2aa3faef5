package dbbadger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// checkoutRecord is the stored form of domain.Checkout, with the fields
// needed for indexing and ordering.
type checkoutRecord struct {
	ID           string
	AllocationID string `badgerhold:"index"`
	From         string
	FromKey      string `badgerhold:"index"`
	TotalFee     string
	CreditUsed   string
	NumOfAssets  int
	Status       domain.CheckoutStatus
	TxHashes     []string
	FailReason   string
	CreatedAt    int64
	UpdatedAt    int64
	InsertedAt   int64
}

func newCheckoutRecord(c domain.Checkout) checkoutRecord {
	return checkoutRecord{
		ID:           c.ID,
		AllocationID: c.AllocationID,
		From:         c.From,
		FromKey:      strings.ToLower(c.From),
		TotalFee:     c.TotalFee,
		CreditUsed:   c.CreditUsed,
		NumOfAssets:  c.NumOfAssets,
		Status:       c.Status,
		TxHashes:     c.TxHashes,
		FailReason:   c.FailReason,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		InsertedAt:   time.Now().UnixNano(),
	}
}

func (r checkoutRecord) toDomain() *domain.Checkout {
	return &domain.Checkout{
		ID:           r.ID,
		AllocationID: r.AllocationID,
		From:         r.From,
		TotalFee:     r.TotalFee,
		CreditUsed:   r.CreditUsed,
		NumOfAssets:  r.NumOfAssets,
		Status:       r.Status,
		TxHashes:     r.TxHashes,
		FailReason:   r.FailReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type checkoutRepositoryImpl struct {
	store *badgerhold.Store
}

func NewCheckoutRepositoryImpl(store *badgerhold.Store) domain.CheckoutRepository {
	return checkoutRepositoryImpl{store}
}

func (r checkoutRepositoryImpl) AddCheckout(
	_ context.Context, checkout domain.Checkout,
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var found []checkoutRecord
		query := badgerhold.Where("AllocationID").Eq(checkout.AllocationID)
		if err := r.store.TxFind(tx, &found, query); err != nil {
			return err
		}
		if len(found) > 0 {
			return domain.ErrCheckoutAlreadySubmitted
		}

		record := newCheckoutRecord(checkout)
		if err := r.store.TxInsert(tx, checkout.ID, &record); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrCheckoutAlreadySubmitted
			}
			return err
		}
		return nil
	})
}

func (r checkoutRepositoryImpl) GetCheckout(
	_ context.Context, id string,
) (*domain.Checkout, error) {
	record, err := r.getRecord(nil, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r checkoutRepositoryImpl) GetCheckoutByAllocation(
	_ context.Context, allocationID string,
) (*domain.Checkout, error) {
	query := badgerhold.Where("AllocationID").Eq(allocationID)
	records, err := r.findRecords(query)
	if err != nil {
		return nil, err
	}
	if len(records) <= 0 {
		return nil, domain.ErrCheckoutNotFound
	}
	return records[0].toDomain(), nil
}

func (r checkoutRepositoryImpl) UpdateCheckout(
	_ context.Context, id string,
	updateFn func(c *domain.Checkout) (*domain.Checkout, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		record, err := r.getRecord(tx, id)
		if err != nil {
			return err
		}

		updated, err := updateFn(record.toDomain())
		if err != nil {
			return err
		}

		newRecord := newCheckoutRecord(*updated)
		newRecord.InsertedAt = record.InsertedAt
		return r.store.TxUpdate(tx, id, &newRecord)
	})
}

func (r checkoutRepositoryImpl) ListCheckouts(
	_ context.Context, from string, page *domain.Page,
) ([]domain.Checkout, error) {
	query := &badgerhold.Query{}
	if from != "" {
		query = badgerhold.Where("FromKey").Eq(strings.ToLower(from))
	}
	query.SortBy("InsertedAt").Reverse()
	if page != nil {
		skip := page.Number*page.Size - page.Size
		query.Skip(skip).Limit(page.Size)
	}

	records, err := r.findRecords(query)
	if err != nil {
		return nil, err
	}

	checkouts := make([]domain.Checkout, 0, len(records))
	for _, record := range records {
		checkouts = append(checkouts, *record.toDomain())
	}
	return checkouts, nil
}

func (r checkoutRepositoryImpl) getRecord(
	tx *badger.Txn, id string,
) (*checkoutRecord, error) {
	var record checkoutRecord
	var err error
	if tx != nil {
		err = r.store.TxGet(tx, id, &record)
	} else {
		err = r.store.Get(id, &record)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrCheckoutNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r checkoutRepositoryImpl) findRecords(
	query *badgerhold.Query,
) ([]checkoutRecord, error) {
	var records []checkoutRecord
	if err := r.store.Find(&records, query); err != nil {
		return nil, err
	}
	return records, nil
}
