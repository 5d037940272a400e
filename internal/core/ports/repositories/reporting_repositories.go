package repositories

import (
	"context"
	"time"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// ReportingRepository aggregates the entry store for report derivation.
// All methods aggregate in the store (GROUP BY) so report cost follows the
// filtered window, not total history size.
type ReportingRepository interface {
	// GetTrialBalanceData sums debits and credits per account with activity
	// in the currency on or before asOf.
	GetTrialBalanceData(ctx context.Context, asOf time.Time, currency string) ([]domain.TrialBalanceRow, error)
	// GetAccountNetData returns the net (debits minus credits) movement per
	// account of the given types within [from, to].
	GetAccountNetData(ctx context.Context, from, to time.Time, currency string, types []domain.AccountType) ([]domain.AccountTypeNet, error)
	// GetCashFlowEntries returns every entry of every transaction that
	// touches one of the cash accounts within the window, so counter-entries
	// can be classified.
	GetCashFlowEntries(ctx context.Context, from, to time.Time, currency string, cashAccounts []string) ([]domain.CashFlowEntry, error)
}
