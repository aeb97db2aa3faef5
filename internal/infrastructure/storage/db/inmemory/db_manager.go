package inmemory

import (
	"github.com/tdex-network/tdex-custody/internal/core/domain"
	"github.com/tdex-network/tdex-custody/internal/core/ports"
)

type repoManager struct {
	checkoutRepository domain.CheckoutRepository
}

// NewRepoManager returns a volatile storage, records are lost on exit.
func NewRepoManager() ports.RepoManager {
	return &repoManager{
		checkoutRepository: NewCheckoutRepositoryImpl(),
	}
}

func (r *repoManager) CheckoutRepository() domain.CheckoutRepository {
	return r.checkoutRepository
}

func (r *repoManager) Close() {}
