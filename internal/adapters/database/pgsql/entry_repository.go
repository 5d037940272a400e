package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
)

// EntryRepository is the append-only adapter over the journal_entries
// table. It exposes no update or delete: immutability of committed entries
// is enforced by the interface, and atomicity of a transaction's entry set
// by a single serializable database transaction.
type EntryRepository struct {
	BaseRepository
}

// NewEntryRepository creates a new repository for journal entry data.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepository = (*EntryRepository)(nil)

const entryColumns = `entry_id, transaction_id, account_name, debit_amount, credit_amount, currency_code, description, created_at`

// SaveTransaction appends the full entry set and the idempotency key in one
// serializable transaction. If the key already exists nothing is written
// and the original transaction id is returned, which is what makes a crash
// between check and commit unable to double-post on retry.
func (r *EntryRepository) SaveTransaction(ctx context.Context, idempotencyKey string, entries []domain.JournalEntry) (string, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txnID := entries[0].TransactionID

	keyQuery := `
		INSERT INTO idempotency_keys (idempotency_key, transaction_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (idempotency_key) DO NOTHING;
	`
	tag, err := tx.Exec(ctx, keyQuery, idempotencyKey, txnID, entries[0].CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The key conflict is absorbed by ON CONFLICT, so a unique
			// violation here is the transaction id already committed under
			// a different key.
			return "", fmt.Errorf("%w: transaction %s was already posted", apperrors.ErrDuplicate, txnID)
		}
		if isSerializationFailure(err) {
			return "", fmt.Errorf("%w: transaction %s", apperrors.ErrSerialization, txnID)
		}
		return "", fmt.Errorf("failed to record idempotency key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Replay: surface the original transaction, write nothing.
		var existingTxnID string
		err := tx.QueryRow(ctx, `SELECT transaction_id FROM idempotency_keys WHERE idempotency_key = $1;`, idempotencyKey).Scan(&existingTxnID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve existing idempotency key: %w", err)
		}
		return existingTxnID, nil
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, entry := range entries {
		batch.Queue(entryQuery,
			entry.EntryID,
			entry.TransactionID,
			entry.AccountName,
			entry.DebitAmount,
			entry.CreditAmount,
			entry.Currency,
			entry.Description,
			entry.CreatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isSerializationFailure(err) {
			return "", fmt.Errorf("%w: transaction %s", apperrors.ErrSerialization, txnID)
		}
		return "", fmt.Errorf("failed to append entries for transaction %s: %w", txnID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return "", fmt.Errorf("%w: transaction %s", apperrors.ErrSerialization, txnID)
		}
		return "", fmt.Errorf("failed to commit transaction %s: %w", txnID, err)
	}
	return "", nil
}

// isSerializationFailure reports whether err is a serialization or deadlock
// failure under the serializable isolation level. Those aborts carry no
// partial writes and are safe to retry verbatim.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// FindEntriesByTransactionID retrieves the committed entry set of one
// transaction, ordered by entry id for a stable result.
func (r *EntryRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListEntries returns one page matching the filter plus the total count.
// Ordering is created_at then entry_id ascending so pagination over an
// unchanged store is reproducible.
func (r *EntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.JournalEntry, int64, error) {
	where, args := buildEntryFilter(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM journal_entries e
		JOIN accounts a ON e.account_name = a.name
	` + where
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	listArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT e.entry_id, e.transaction_id, e.account_name, e.debit_amount, e.credit_amount, e.currency_code, e.description, e.created_at
		FROM journal_entries e
		JOIN accounts a ON e.account_name = a.name
		%s
		ORDER BY e.created_at, e.entry_id
		LIMIT $%d OFFSET $%d;
	`, where, len(args)+1, len(args)+2)

	rows, err := r.Pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// buildEntryFilter renders the conjunctive WHERE clause for a filter.
func buildEntryFilter(filter domain.EntryFilter) (string, []any) {
	clauses := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AccountType != nil {
		clauses = append(clauses, "a.account_type = "+arg(*filter.AccountType))
	}
	if filter.AccountName != nil {
		clauses = append(clauses, "e.account_name = "+arg(*filter.AccountName))
	}
	if filter.Currency != nil {
		clauses = append(clauses, "e.currency_code = "+arg(*filter.Currency))
	}
	if filter.StartDate != nil {
		clauses = append(clauses, "e.created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "e.created_at < "+arg(*filter.EndDate)+" + INTERVAL '1 day'")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	entries := []domain.JournalEntry{}
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(
			&entry.EntryID,
			&entry.TransactionID,
			&entry.AccountName,
			&entry.DebitAmount,
			&entry.CreditAmount,
			&entry.Currency,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return entries, nil
}
