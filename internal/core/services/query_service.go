package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/finvault/ledger-engine/internal/core/domain"
	portsrepo "github.com/finvault/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/finvault/ledger-engine/internal/core/ports/services"
	"github.com/finvault/ledger-engine/internal/dto"
)

// queryService provides paginated, filterable reads over the entry store.
type queryService struct {
	entryRepo       portsrepo.EntryRepository
	defaultPageSize int
	maxPageSize     int
}

// NewQueryService creates the query service. perPage requests above
// maxPageSize are clamped, not rejected.
func NewQueryService(entryRepo portsrepo.EntryRepository, defaultPageSize, maxPageSize int) portssvc.QueryService {
	return &queryService{
		entryRepo:       entryRepo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

var _ portssvc.QueryService = (*queryService)(nil)

// ListEntries returns one page of entries matching the conjunctive filters,
// ordered by created_at then entry_id ascending for reproducible pagination.
func (s *queryService) ListEntries(ctx context.Context, params dto.ListEntriesParams) ([]domain.JournalEntry, dto.Pagination, error) {
	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, dto.Pagination{}, fmt.Errorf("%w: end_date is before start_date", apperrors.ErrValidation)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = s.defaultPageSize
	}
	if perPage > s.maxPageSize {
		perPage = s.maxPageSize
	}

	filter := domain.EntryFilter{
		AccountType: params.AccountType,
		AccountName: params.AccountName,
		Currency:    params.Currency,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
	}

	entries, total, err := s.entryRepo.ListEntries(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list entries: %w", err)
	}

	pages := int(total / int64(perPage))
	if total%int64(perPage) != 0 {
		pages++
	}
	pagination := dto.Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1 && total > 0,
	}
	return entries, pagination, nil
}

// GetTransaction returns the committed entry set of one transaction.
func (s *queryService) GetTransaction(ctx context.Context, transactionID string) (*domain.PostedTransaction, error) {
	entries, err := s.entryRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &domain.PostedTransaction{
		TransactionID: transactionID,
		Entries:       entries,
		CreatedAt:     entries[0].CreatedAt,
	}, nil
}
