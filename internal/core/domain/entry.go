package domain

import (
	"fmt"
	"time"

	"github.com/finvault/ledger-engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalEntry is one debit or credit line against a single account within
// a transaction. Entries are append-only: once committed they are never
// mutated or deleted, corrections are new reversing transactions.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	AccountName   string          `json:"accountName"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate enforces the structural rules of a single entry: exactly one of
// debit/credit strictly positive, the other exactly zero, and a plausible
// currency code.
func (e JournalEntry) Validate() error {
	if e.AccountName == "" {
		return fmt.Errorf("%w: account name is required", apperrors.ErrMalformedEntry)
	}
	if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
		return fmt.Errorf("%w: amounts must be non-negative for account %s", apperrors.ErrMalformedEntry, e.AccountName)
	}
	debitSet := e.DebitAmount.IsPositive()
	creditSet := e.CreditAmount.IsPositive()
	if debitSet == creditSet {
		return fmt.Errorf("%w: exactly one of debit or credit must be positive for account %s", apperrors.ErrMalformedEntry, e.AccountName)
	}
	if !ValidCurrencyCode(e.Currency) {
		return fmt.Errorf("%w: invalid currency code %q for account %s", apperrors.ErrMalformedEntry, e.Currency, e.AccountName)
	}
	return nil
}

// PostedTransaction is the committed result of a post: the full balanced
// entry set sharing one transaction id and one server-assigned timestamp.
type PostedTransaction struct {
	TransactionID string         `json:"transactionID"`
	Entries       []JournalEntry `json:"entries"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// BalanceByCurrency verifies the core double-entry invariant over a set of
// entries: for every currency present, the debit total equals the credit
// total. Returns the offending currency and the two sums on failure.
func BalanceByCurrency(entries []JournalEntry) error {
	debits := map[string]decimal.Decimal{}
	credits := map[string]decimal.Decimal{}
	for _, e := range entries {
		debits[e.Currency] = debits[e.Currency].Add(e.DebitAmount)
		credits[e.Currency] = credits[e.Currency].Add(e.CreditAmount)
	}
	for currency, d := range debits {
		if c := credits[currency]; !d.Equal(c) {
			return fmt.Errorf("%w: %s debits %s != credits %s", apperrors.ErrUnbalanced, currency, d.String(), c.String())
		}
	}
	return nil
}

// EntryFilter narrows a listing of journal entries. Nil fields mean no
// restriction; all present fields are combined with AND.
type EntryFilter struct {
	AccountType *AccountType
	AccountName *string
	Currency    *string
	StartDate   *time.Time
	EndDate     *time.Time
}
