package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/middleware"
)

// accountService implements the account registry on top of the account
// repository. An account's type and currency are fixed at creation; the
// only mutation this service ever performs is deactivation.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates the registry service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountService = (*accountService)(nil)

// GetOrCreate registers an account if absent. Re-registering is a no-op
// when type and currency match the existing record and an AccountConflict
// otherwise: changing either would silently rewrite history.
func (s *accountService) GetOrCreate(ctx context.Context, name string, accountType domain.AccountType, currency string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if _, err := domain.ParseAccountType(string(accountType)); err != nil {
		return nil, err
	}
	if !domain.ValidCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, currency)
	}

	existing, err := s.accountRepo.FindAccountByName(ctx, name)
	if err == nil {
		if existing.Type != accountType || existing.Currency != currency {
			return nil, fmt.Errorf("%w: account %s is %s/%s, requested %s/%s",
				apperrors.ErrAccountConflict, name, existing.Type, existing.Currency, accountType, currency)
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account %s: %w", name, err)
	}

	account := domain.Account{
		Name:      name,
		Type:      accountType,
		Currency:  currency,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a creation race; the winner's record is authoritative.
			return s.reconcileExisting(ctx, name, accountType, currency)
		}
		logger.Error("Failed to save account", slog.String("account", name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account %s: %w", name, err)
	}

	logger.Info("Account registered", slog.String("account", name), slog.String("type", string(accountType)), slog.String("currency", currency))
	return &account, nil
}

// reconcileExisting re-reads an account after a creation race and applies
// the same conflict rule as the fast path.
func (s *accountService) reconcileExisting(ctx context.Context, name string, accountType domain.AccountType, currency string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read account %s after duplicate insert: %w", name, err)
	}
	if existing.Type != accountType || existing.Currency != currency {
		return nil, fmt.Errorf("%w: account %s is %s/%s, requested %s/%s",
			apperrors.ErrAccountConflict, name, existing.Type, existing.Currency, accountType, currency)
	}
	return existing, nil
}

// Get returns the named account or apperrors.ErrNotFound.
func (s *accountService) Get(ctx context.Context, name string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", name, err)
	}
	return account, nil
}

// GetMany fetches a batch of accounts keyed by name. Unregistered names are
// simply absent from the result; it is the caller's decision whether a miss
// is an error.
func (s *accountService) GetMany(ctx context.Context, names []string) (map[string]domain.Account, error) {
	if len(names) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := s.accountRepo.FindAccountsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts batch: %w", err)
	}
	return accounts, nil
}

// List returns a page of registry accounts.
func (s *accountService) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Deactivate flags an account inactive. The account and its history remain;
// only new postings against it are refused.
func (s *accountService) Deactivate(ctx context.Context, name string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.Get(ctx, name); err != nil {
		return err
	}
	if err := s.accountRepo.SetAccountActive(ctx, name, false); err != nil {
		logger.Error("Failed to deactivate account", slog.String("account", name), slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate account %s: %w", name, err)
	}
	logger.Info("Account deactivated", slog.String("account", name))
	return nil
}
