package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/metrics"
	"github.com/finvault/ledger-engine/internal/middleware"
)

// CurrentEarningsLine is the synthetic equity line that folds net income to
// date into the balance sheet so the accounting identity holds mid-period.
const CurrentEarningsLine = "Current_Earnings"

// reportingService derives the four standard reports. It holds no mutable
// state: every report is a pure function of the entry store and the
// configured cash-flow policy.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	cashFlow      *domain.CashFlowPolicy
}

// NewReportingService creates the reporting engine with an explicit
// cash-flow classification policy.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, cashFlow *domain.CashFlowPolicy) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		cashFlow:      cashFlow,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance sums debits and credits per account with activity on or
// before asOf. A nonzero difference means the posting invariant was broken
// somewhere and is surfaced as an integrity violation, never rendered.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, currency string) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:     asOf,
		Currency: currency,
		Rows:     make([]domain.TrialBalanceRow, len(rows)),
	}
	for i, row := range rows {
		if row.AccountType.DebitNormal() {
			row.Balance = row.Debits.Sub(row.Credits)
		} else {
			row.Balance = row.Credits.Sub(row.Debits)
		}
		report.Rows[i] = row
		report.TotalDebits = report.TotalDebits.Add(row.Debits)
		report.TotalCredits = report.TotalCredits.Add(row.Credits)
	}
	report.Difference = report.TotalDebits.Sub(report.TotalCredits)

	if !report.Difference.IsZero() {
		metrics.IntegrityViolations.Inc()
		logger.Error("Trial balance does not balance",
			slog.String("currency", currency),
			slog.String("as_of", asOf.Format("2006-01-02")),
			slog.String("difference", report.Difference.String()))
		return nil, fmt.Errorf("%w: trial balance difference %s %s as of %s",
			apperrors.ErrIntegrity, report.Difference.String(), currency, asOf.Format("2006-01-02"))
	}

	metrics.ReportsGenerated.WithLabelValues("trial_balance").Inc()
	return report, nil
}

// BalanceSheet partitions balances as of a date and verifies
// assets == liabilities + equity, with net income to date folded into
// equity as a synthetic current-earnings line.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time, currency string) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	nets, err := s.reportingRepo.GetAccountNetData(ctx, time.Time{}, asOf, currency, []domain.AccountType{
		domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Currency:    currency,
		Assets:      []domain.AccountBalance{},
		Liabilities: []domain.AccountBalance{},
		Equity:      []domain.AccountBalance{},
	}
	currentEarnings := decimal.Zero
	for _, row := range nets {
		switch row.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, domain.AccountBalance{AccountName: row.AccountName, Balance: row.Net})
			report.TotalAssets = report.TotalAssets.Add(row.Net)
		case domain.Liability:
			balance := row.Net.Neg()
			report.Liabilities = append(report.Liabilities, domain.AccountBalance{AccountName: row.AccountName, Balance: balance})
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.Equity:
			balance := row.Net.Neg()
			report.Equity = append(report.Equity, domain.AccountBalance{AccountName: row.AccountName, Balance: balance})
			report.TotalEquity = report.TotalEquity.Add(balance)
		case domain.Revenue:
			currentEarnings = currentEarnings.Add(row.Net.Neg())
		case domain.Expense:
			currentEarnings = currentEarnings.Sub(row.Net)
		}
	}
	if !currentEarnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountBalance{AccountName: CurrentEarningsLine, Balance: currentEarnings})
		report.TotalEquity = report.TotalEquity.Add(currentEarnings)
	}

	if !report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)) {
		metrics.IntegrityViolations.Inc()
		logger.Error("Balance sheet identity violated",
			slog.String("currency", currency),
			slog.String("as_of", asOf.Format("2006-01-02")),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
		return nil, fmt.Errorf("%w: assets %s != liabilities+equity %s in %s as of %s",
			apperrors.ErrIntegrity, report.TotalAssets.String(),
			report.TotalLiabilities.Add(report.TotalEquity).String(), currency, asOf.Format("2006-01-02"))
	}

	metrics.ReportsGenerated.WithLabelValues("balance_sheet").Inc()
	return report, nil
}

// IncomeStatement sums revenue and expense activity strictly within
// [from, to]; entries outside the window are excluded even when the
// account has activity before or after it.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time, currency string) (*domain.IncomeStatementReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end_date is before start_date", apperrors.ErrValidation)
	}

	nets, err := s.reportingRepo.GetAccountNetData(ctx, from, to, currency, []domain.AccountType{domain.Revenue, domain.Expense})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}

	report := &domain.IncomeStatementReport{
		StartDate: from,
		EndDate:   to,
		Currency:  currency,
		Revenue:   []domain.AccountBalance{},
		Expenses:  []domain.AccountBalance{},
	}
	for _, row := range nets {
		switch row.AccountType {
		case domain.Revenue:
			amount := row.Net.Neg()
			report.Revenue = append(report.Revenue, domain.AccountBalance{AccountName: row.AccountName, Balance: amount})
			report.TotalRevenue = report.TotalRevenue.Add(amount)
		case domain.Expense:
			report.Expenses = append(report.Expenses, domain.AccountBalance{AccountName: row.AccountName, Balance: row.Net})
			report.TotalExpenses = report.TotalExpenses.Add(row.Net)
		}
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)

	metrics.ReportsGenerated.WithLabelValues("income_statement").Inc()
	return report, nil
}

// CashFlow classifies every transaction touching a designated cash account
// within [from, to]. Each counter-entry's credit-minus-debit is the cash it
// moved, so the classified totals sum to the exact change in cash balances
// over the window.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time, currency string) (*domain.CashFlowReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end_date is before start_date", apperrors.ErrValidation)
	}

	cashNames := s.cashAccountNames()
	rows, err := s.reportingRepo.GetCashFlowEntries(ctx, from, to, currency, cashNames)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cash flow data: %w", err)
	}

	type bucket map[string]decimal.Decimal
	buckets := map[domain.ActivityClass]bucket{
		domain.Operating: {},
		domain.Investing: {},
		domain.Financing: {},
	}
	for _, row := range rows {
		if s.cashFlow.IsCashAccount(row.AccountName) {
			continue
		}
		contribution := row.CreditAmount.Sub(row.DebitAmount)
		class := s.cashFlow.Classify(row.AccountName, row.AccountType)
		buckets[class][row.AccountName] = buckets[class][row.AccountName].Add(contribution)
	}

	report := &domain.CashFlowReport{
		StartDate: from,
		EndDate:   to,
		Currency:  currency,
	}
	report.Operating, report.TotalOperating = flattenBucket(buckets[domain.Operating])
	report.Investing, report.TotalInvesting = flattenBucket(buckets[domain.Investing])
	report.Financing, report.TotalFinancing = flattenBucket(buckets[domain.Financing])
	report.NetCashFlow = report.TotalOperating.Add(report.TotalInvesting).Add(report.TotalFinancing)

	metrics.ReportsGenerated.WithLabelValues("cash_flow").Inc()
	return report, nil
}

func (s *reportingService) cashAccountNames() []string {
	// The repository needs the cash account set as a slice for the query.
	names := s.cashFlow.CashAccountNames()
	sort.Strings(names)
	return names
}

// flattenBucket turns an accumulation map into a deterministic, sorted
// line list plus its total.
func flattenBucket(b map[string]decimal.Decimal) ([]domain.AccountBalance, decimal.Decimal) {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]domain.AccountBalance, 0, len(names))
	total := decimal.Zero
	for _, name := range names {
		lines = append(lines, domain.AccountBalance{AccountName: name, Balance: b[name]})
		total = total.Add(b[name])
	}
	return lines, total
}
