package repositories

import (
	"context"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// AccountRepository persists the account registry. Accounts are never
// deleted; deactivation flips a flag so historical reports stay intact.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate if
	// an account with the same name already exists.
	SaveAccount(ctx context.Context, account domain.Account) error
	// FindAccountByName returns apperrors.ErrNotFound when absent.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)
	// FindAccountsByNames fetches a batch keyed by name; missing names are
	// simply absent from the map.
	FindAccountsByNames(ctx context.Context, names []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
	// SetAccountActive flips the active flag only.
	SetAccountActive(ctx context.Context, name string, active bool) error
}
