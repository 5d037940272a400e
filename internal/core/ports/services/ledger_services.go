package services

import (
	"context"

	"github.com/finvault/ledger-engine/internal/core/domain"
	"github.com/finvault/ledger-engine/internal/dto"
)

// PostingService validates and atomically commits balanced transactions.
// It owns the sole write path into the entry store.
type PostingService interface {
	Post(ctx context.Context, req dto.PostTransactionRequest) (*domain.PostedTransaction, error)
}

// QueryService is paginated, filterable read access to the entry store.
type QueryService interface {
	ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, dto.Pagination, error)
	GetTransaction(ctx context.Context, transactionID string) (*domain.PostedTransaction, error)
}
