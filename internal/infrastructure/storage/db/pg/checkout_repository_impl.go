package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
)

const (
	selectCheckout = `SELECT id, allocation_id, from_address, total_fee, credit_used,
num_of_assets, status, tx_hashes, fail_reason, created_at, updated_at FROM checkouts`

	insertCheckout = `INSERT INTO checkouts (id, allocation_id, from_address, total_fee,
credit_used, num_of_assets, status, tx_hashes, fail_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateCheckout = `UPDATE checkouts SET status = $2, tx_hashes = $3, fail_reason = $4,
updated_at = $5 WHERE id = $1`
)

type checkoutRepositoryImpl struct {
	pool   *pgxpool.Pool
	execTx func(ctx context.Context, txBody func(pgx.Tx) error) error
}

func NewCheckoutRepositoryImpl(
	pool *pgxpool.Pool,
	execTx func(ctx context.Context, txBody func(pgx.Tx) error) error,
) domain.CheckoutRepository {
	return &checkoutRepositoryImpl{pool, execTx}
}

func (r *checkoutRepositoryImpl) AddCheckout(
	ctx context.Context, c domain.Checkout,
) error {
	txHashes := c.TxHashes
	if txHashes == nil {
		txHashes = []string{}
	}
	if _, err := r.pool.Exec(
		ctx, insertCheckout,
		c.ID, c.AllocationID, c.From, c.TotalFee, c.CreditUsed, c.NumOfAssets,
		int16(c.Status), txHashes, c.FailReason, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrCheckoutAlreadySubmitted
		}
		return err
	}
	return nil
}

func (r *checkoutRepositoryImpl) GetCheckout(
	ctx context.Context, id string,
) (*domain.Checkout, error) {
	return scanCheckout(r.pool.QueryRow(ctx, selectCheckout+" WHERE id = $1", id))
}

func (r *checkoutRepositoryImpl) GetCheckoutByAllocation(
	ctx context.Context, allocationID string,
) (*domain.Checkout, error) {
	return scanCheckout(r.pool.QueryRow(
		ctx, selectCheckout+" WHERE allocation_id = $1", allocationID,
	))
}

func (r *checkoutRepositoryImpl) UpdateCheckout(
	ctx context.Context, id string,
	updateFn func(c *domain.Checkout) (*domain.Checkout, error),
) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		checkout, err := scanCheckout(tx.QueryRow(
			ctx, selectCheckout+" WHERE id = $1 FOR UPDATE", id,
		))
		if err != nil {
			return err
		}

		updated, err := updateFn(checkout)
		if err != nil {
			return err
		}

		txHashes := updated.TxHashes
		if txHashes == nil {
			txHashes = []string{}
		}
		_, err = tx.Exec(
			ctx, updateCheckout,
			id, int16(updated.Status), txHashes, updated.FailReason, updated.UpdatedAt,
		)
		return err
	})
}

func (r *checkoutRepositoryImpl) ListCheckouts(
	ctx context.Context, from string, page *domain.Page,
) ([]domain.Checkout, error) {
	query := selectCheckout
	args := make([]interface{}, 0, 3)
	if from != "" {
		args = append(args, from)
		query += " WHERE lower(from_address) = lower($1)"
	}
	query += " ORDER BY seq DESC"
	if page != nil {
		args = append(args, page.Size, page.Number*page.Size-page.Size)
		if from != "" {
			query += " LIMIT $2 OFFSET $3"
		} else {
			query += " LIMIT $1 OFFSET $2"
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkouts := make([]domain.Checkout, 0)
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, err
		}
		checkouts = append(checkouts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return checkouts, nil
}

func scanCheckout(row pgx.Row) (*domain.Checkout, error) {
	var c domain.Checkout
	var status int16
	if err := row.Scan(
		&c.ID, &c.AllocationID, &c.From, &c.TotalFee, &c.CreditUsed,
		&c.NumOfAssets, &status, &c.TxHashes, &c.FailReason,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCheckoutNotFound
		}
		return nil, err
	}
	c.Status = domain.CheckoutStatus(status)
	return &c, nil
}
