package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
)

// AccountRepository persists the account registry in the accounts table.
type AccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*AccountRepository)(nil)

// SaveAccount inserts a new account. A unique violation on the name maps
// to apperrors.ErrDuplicate so the service can resolve creation races.
func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (name, account_type, currency_code, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.Name,
		account.Type,
		account.Currency,
		account.IsActive,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.Name)
		}
		return fmt.Errorf("failed to save account %s: %w", account.Name, err)
	}
	return nil
}

// FindAccountByName retrieves one account, mapping no-rows to ErrNotFound.
func (r *AccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `
		SELECT name, account_type, currency_code, is_active, created_at
		FROM accounts
		WHERE name = $1;
	`
	var account domain.Account
	err := r.Pool.QueryRow(ctx, query, name).Scan(
		&account.Name,
		&account.Type,
		&account.Currency,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", name, err)
	}
	return &account, nil
}

// FindAccountsByNames fetches a batch of accounts keyed by name.
func (r *AccountRepository) FindAccountsByNames(ctx context.Context, names []string) (map[string]domain.Account, error) {
	query := `
		SELECT name, account_type, currency_code, is_active, created_at
		FROM accounts
		WHERE name = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts batch: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(names))
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.Name,
			&account.Type,
			&account.Currency,
			&account.IsActive,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[account.Name] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccounts returns a stable page of accounts ordered by name.
func (r *AccountRepository) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	query := `
		SELECT name, account_type, currency_code, is_active, created_at
		FROM accounts
		ORDER BY name
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.Name,
			&account.Type,
			&account.Currency,
			&account.IsActive,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SetAccountActive flips the active flag; type and currency are never
// updated by any code path.
func (r *AccountRepository) SetAccountActive(ctx context.Context, name string, active bool) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE accounts SET is_active = $2 WHERE name = $1;`, name, active)
	if err != nil {
		return fmt.Errorf("failed to update account %s active flag: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
