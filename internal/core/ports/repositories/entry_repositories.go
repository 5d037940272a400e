package repositories

import (
	"context"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// EntryRepository is the narrow append-only interface to the entry store.
// There is deliberately no update or delete: corrections are reversing
// transactions posted through the same path.
type EntryRepository interface {
	// SaveTransaction appends all entries of one transaction and records the
	// idempotency key in a single serializable storage transaction. If the
	// key was already recorded by a previous successful post, nothing is
	// written and the transaction id of the original post is returned;
	// otherwise the returned id is empty.
	SaveTransaction(ctx context.Context, idempotencyKey string, entries []domain.JournalEntry) (replayedTxnID string, err error)
	// FindEntriesByTransactionID returns the committed entry set of a
	// transaction, ordered by entry id.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)
	// ListEntries returns a page of entries matching the filter, ordered by
	// created_at then entry_id ascending, plus the total match count.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.JournalEntry, int64, error)
}
