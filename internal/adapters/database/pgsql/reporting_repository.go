package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
)

// ReportingRepository aggregates the entry store for report derivation.
// Aggregation happens in SQL (GROUP BY), so memory use follows the number
// of accounts in the window, never the number of entries.
type ReportingRepository struct {
	BaseRepository
}

// NewReportingRepository creates a new reporting repository.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepository {
	return &ReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// GetTrialBalanceData sums debits and credits per account with activity in
// the currency on or before the asOf date (dates are inclusive days).
func (r *ReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time, currency string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.name,
			a.account_type,
			SUM(e.debit_amount) AS total_debits,
			SUM(e.credit_amount) AS total_credits
		FROM journal_entries e
		JOIN accounts a ON e.account_name = a.name
		WHERE e.created_at < $1::timestamptz + INTERVAL '1 day'
			AND e.currency_code = $2
		GROUP BY a.name, a.account_type
		ORDER BY a.name;
	`
	rows, err := r.Pool.Query(ctx, query, asOf, currency)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(
			&row.AccountName,
			&row.AccountType,
			&row.Debits,
			&row.Credits,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetAccountNetData returns net movement (debits minus credits) per account
// of the given types within [from, to]. A zero from means no lower bound.
func (r *ReportingRepository) GetAccountNetData(ctx context.Context, from, to time.Time, currency string, types []domain.AccountType) ([]domain.AccountTypeNet, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}

	query := `
		SELECT
			a.name,
			a.account_type,
			SUM(e.debit_amount - e.credit_amount) AS net
		FROM journal_entries e
		JOIN accounts a ON e.account_name = a.name
		WHERE ($1::timestamptz IS NULL OR e.created_at >= $1)
			AND e.created_at < $2::timestamptz + INTERVAL '1 day'
			AND e.currency_code = $3
			AND a.account_type = ANY($4)
		GROUP BY a.name, a.account_type
		ORDER BY a.name;
	`
	var lower *time.Time
	if !from.IsZero() {
		lower = &from
	}
	rows, err := r.Pool.Query(ctx, query, lower, to, currency, typeStrings)
	if err != nil {
		return nil, fmt.Errorf("error querying account net data: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountTypeNet{}
	for rows.Next() {
		var row domain.AccountTypeNet
		if err := rows.Scan(&row.AccountName, &row.AccountType, &row.Net); err != nil {
			return nil, fmt.Errorf("error scanning account net row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account net rows: %w", err)
	}
	return result, nil
}

// GetCashFlowEntries returns every entry of every transaction that touches
// one of the cash accounts within the window, counter-entries included, so
// the service can classify each counter-account.
func (r *ReportingRepository) GetCashFlowEntries(ctx context.Context, from, to time.Time, currency string, cashAccounts []string) ([]domain.CashFlowEntry, error) {
	query := `
		SELECT
			e.transaction_id,
			e.account_name,
			a.account_type,
			e.debit_amount,
			e.credit_amount
		FROM journal_entries e
		JOIN accounts a ON e.account_name = a.name
		WHERE e.currency_code = $3
			AND e.transaction_id IN (
				SELECT DISTINCT transaction_id
				FROM journal_entries
				WHERE account_name = ANY($4)
					AND currency_code = $3
					AND created_at >= $1
					AND created_at < $2::timestamptz + INTERVAL '1 day'
			)
		ORDER BY e.transaction_id, e.entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, from, to, currency, cashAccounts)
	if err != nil {
		return nil, fmt.Errorf("error querying cash flow entries: %w", err)
	}
	defer rows.Close()

	result := []domain.CashFlowEntry{}
	for rows.Next() {
		var row domain.CashFlowEntry
		if err := rows.Scan(
			&row.TransactionID,
			&row.AccountName,
			&row.AccountType,
			&row.DebitAmount,
			&row.CreditAmount,
		); err != nil {
			return nil, fmt.Errorf("error scanning cash flow row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}
	return result, nil
}
