package db_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-custody/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-custody/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/tdex-network/tdex-custody/internal/infrastructure/storage/db/pg"
)

// pgDsnEnv, if set, enables the tests against a real postgres instance.
const pgDsnEnv = "CUSTODY_TEST_PG_DSN"

const (
	fromA = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	fromB = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

type repoManager struct {
	Name    string
	Manager ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryManager := inmemory.NewRepoManager()
	badgerInMemoryManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	badgerManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)

	managers := []repoManager{
		{Name: "inmemory", Manager: inmemoryManager},
		{Name: "badger_inmemory", Manager: badgerInMemoryManager},
		{Name: "badger", Manager: badgerManager},
	}

	if dsn := os.Getenv(pgDsnEnv); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pgManager, err := postgresdb.NewRepoManager(ctx, dsn)
		require.NoError(t, err)
		managers = append(managers, repoManager{Name: "postgres", Manager: pgManager})
	}

	t.Cleanup(func() {
		for _, m := range managers {
			m.Manager.Close()
		}
	})
	return managers
}

func makeCheckout(from string) domain.Checkout {
	now := time.Now().Unix()
	return domain.Checkout{
		ID:           uuid.New().String(),
		AllocationID: uuid.New().String(),
		From:         from,
		TotalFee:     "3000000000000000000",
		CreditUsed:   "1000000000000000000",
		NumOfAssets:  2,
		Status:       domain.CheckoutPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
