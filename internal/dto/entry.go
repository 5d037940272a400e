package dto

import (
	"time"

	"github.com/finvault/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryResponse is the wire form of one committed journal entry.
type EntryResponse struct {
	EntryID       string          `json:"entry_id"`
	TransactionID string          `json:"transaction_id"`
	AccountName   string          `json:"account_name"`
	DebitAmount   decimal.Decimal `json:"debit_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToEntryResponse converts a domain.JournalEntry to its wire form.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:       e.EntryID,
		TransactionID: e.TransactionID,
		AccountName:   e.AccountName,
		DebitAmount:   e.DebitAmount,
		CreditAmount:  e.CreditAmount,
		Currency:      e.Currency,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ListEntriesParams carries the parsed, validated query parameters of
// GET /ledger/entries.
type ListEntriesParams struct {
	AccountType *domain.AccountType
	AccountName *string
	Currency    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PerPage     int
}

// Pagination is the pagination block attached to listings.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// ListEntriesResponse is the body of GET /ledger/entries.
type ListEntriesResponse struct {
	Entries    []EntryResponse `json:"entries"`
	Pagination Pagination      `json:"pagination"`
}
