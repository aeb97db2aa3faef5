package postgresdb

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

const uniqueViolation = "23505"

//go:embed schema.sql
var schema string

type repoManager struct {
	pgxPool *pgxpool.Pool

	checkoutRepository domain.CheckoutRepository
}

// NewRepoManager connects to the database at the given dsn and makes sure
// the schema exists.
func NewRepoManager(ctx context.Context, dsn string) (ports.RepoManager, error) {
	pgxPool, err := connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if _, err := pgxPool.Exec(ctx, schema); err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("unable to apply db schema: %w", err)
	}

	rm := &repoManager{pgxPool: pgxPool}
	rm.checkoutRepository = NewCheckoutRepositoryImpl(pgxPool, rm.execTx)
	return rm, nil
}

func (r *repoManager) CheckoutRepository() domain.CheckoutRepository {
	return r.checkoutRepository
}

func (r *repoManager) Close() {
	r.pgxPool.Close()
}

func (r *repoManager) execTx(
	ctx context.Context, txBody func(pgx.Tx) error,
) error {
	tx, err := r.pgxPool.Begin(ctx)
	if err != nil {
		return err
	}

	// Rollback is a no-op if the tx has been committed.
	defer func() {
		err := tx.Rollback(ctx)
		switch {
		case errors.Is(err, pgx.ErrTxClosed):
			return
		case err != nil:
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	if err := txBody(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}
