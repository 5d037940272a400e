package services

import (
	"context"
	"time"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// ReportingService derives the four standard reports from the entry store.
// Reports are pure derivations: the same store state always yields the same
// report. A detected double-entry breach surfaces as apperrors.ErrIntegrity,
// never as a rendered report.
type ReportingService interface {
	TrialBalance(ctx context.Context, asOf time.Time, currency string) (*domain.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time, currency string) (*domain.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, from, to time.Time, currency string) (*domain.IncomeStatementReport, error)
	CashFlow(ctx context.Context, from, to time.Time, currency string) (*domain.CashFlowReport, error)
}
