package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	checkoutDir = "checkout"

	gcInterval     = 30 * time.Minute
	gcDiscardRatio = 0.5
)

type repoManager struct {
	store  *badgerhold.Store
	stopGC chan struct{}

	checkoutRepository domain.CheckoutRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given base directory. An empty dir opens an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, checkoutDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening checkout db: %w", err)
	}

	m := &repoManager{
		store:              store,
		stopGC:             make(chan struct{}),
		checkoutRepository: NewCheckoutRepositoryImpl(store),
	}
	if len(dbDir) > 0 {
		go m.runValueLogGC()
	}
	return m, nil
}

func (m *repoManager) CheckoutRepository() domain.CheckoutRepository {
	return m.checkoutRepository
}

func (m *repoManager) Close() {
	close(m.stopGC)
	if err := m.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close checkout db")
	}
}

func (m *repoManager) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopGC:
			return
		case <-ticker.C:
			if err := m.store.Badger().RunValueLogGC(gcDiscardRatio); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
