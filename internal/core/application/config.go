package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/application/checkout"
	"github.com/tdex-network/tdex-custody/internal/core/application/custody"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-custody/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-custody/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/tdex-network/tdex-custody/internal/infrastructure/storage/db/pg"
	"github.com/tdex-network/tdex-custody/pkg/retry"
	"github.com/tdex-network/tdex-custody/pkg/stats"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
	DBPostgres = "postgres"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
		DBPostgres: {},
	}
)

// Config wires the application services. DBConfig is the datadir for badger
// and the connection string for postgres. TxSubmitter is only required by the
// checkout service.
type Config struct {
	DBType   string
	DBConfig interface{}

	ContractReader ports.ContractReader
	AssetIndex     ports.AssetIndex
	TxSubmitter    ports.TxSubmitter
	Custody        custody.Config
	RetryOptions   []retry.Option

	repo     ports.RepoManager
	custody  *custody.Service
	checkout *checkout.Service
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.custodyService(); err != nil {
		return err
	}
	if c.TxSubmitter != nil {
		if _, err := c.checkoutService(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) CustodyService() *custody.Service {
	svc, _ := c.custodyService()
	return svc
}

func (c *Config) CheckoutService() *checkout.Service {
	svc, _ := c.checkoutService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBPostgres:
			dsn, _ := c.DBConfig.(string)
			repoManager, err := postgresdb.NewRepoManager(context.Background(), dsn)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		default:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}

func (c *Config) custodyService() (*custody.Service, error) {
	if c.custody == nil {
		opts := append(
			[]retry.Option{retry.WithObserver(stats.RetryObserver)}, c.RetryOptions...,
		)
		svc, err := custody.NewService(
			c.ContractReader, c.AssetIndex, c.Custody, opts...,
		)
		if err != nil {
			return nil, err
		}
		c.custody = svc
	}
	return c.custody, nil
}

func (c *Config) checkoutService() (*checkout.Service, error) {
	if c.checkout == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := checkout.NewService(
			repo.CheckoutRepository(), c.TxSubmitter, c.Custody.Contract.Address,
		)
		if err != nil {
			return nil, err
		}
		c.checkout = svc
	}
	return c.checkout, nil
}
