package dto

import (
	"time"

	"github.com/finvault/ledger-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostEntryRequest is one debit or credit line of a posting request.
// Amounts arrive as decimal strings; exactly one of the pair must be
// positive (checked by the posting engine, not by binding).
// AccountType is only consulted when the deployment allows lazy account
// creation and the account does not exist yet.
type PostEntryRequest struct {
	AccountName  string          `json:"account_name" binding:"required"`
	AccountType  string          `json:"account_type,omitempty" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Currency     string          `json:"currency" binding:"required,currency_code"`
	Description  string          `json:"description"`
}

// PostTransactionRequest is the body of POST /ledger/transactions. The
// idempotency key gives at-most-once semantics under caller retries.
type PostTransactionRequest struct {
	TransactionID  string             `json:"transaction_id"`
	IdempotencyKey string             `json:"idempotency_key" binding:"required"`
	Entries        []PostEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// PostedTransactionResponse is the committed entry set returned on success.
// An idempotent replay returns the original response unchanged.
type PostedTransactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Entries       []EntryResponse `json:"entries"`
}

// ToPostedTransactionResponse converts a committed transaction.
func ToPostedTransactionResponse(txn *domain.PostedTransaction) PostedTransactionResponse {
	return PostedTransactionResponse{
		TransactionID: txn.TransactionID,
		CreatedAt:     txn.CreatedAt,
		Entries:       ToEntryResponses(txn.Entries),
	}
}
