package ports

import (
	"github.com/tdex-network/tdex-custody/internal/core/domain"
)

// RepoManager holds the repositories of a storage backend.
type RepoManager interface {
	CheckoutRepository() domain.CheckoutRepository
	Close()
}
