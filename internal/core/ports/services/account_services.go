package services

import (
	"context"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// AccountService is the account registry facade. GetOrCreate is idempotent:
// re-registering with matching type and currency returns the existing
// account, a mismatch fails with apperrors.ErrAccountConflict.
type AccountService interface {
	GetOrCreate(ctx context.Context, name string, accountType domain.AccountType, currency string) (*domain.Account, error)
	Get(ctx context.Context, name string) (*domain.Account, error)
	// GetMany fetches a batch keyed by name; unregistered names are simply
	// absent from the map.
	GetMany(ctx context.Context, names []string) (map[string]domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]domain.Account, error)
	Deactivate(ctx context.Context, name string) error
}
