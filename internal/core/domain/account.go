package domain

import (
	"fmt"
	"time"

	"github.com/finvault/ledger-engine/internal/apperrors"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ParseAccountType converts a string into an AccountType, rejecting anything
// outside the closed set so invalid types never reach the store.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case Asset, Liability, Equity, Revenue, Expense:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, s)
	}
}

// DebitNormal reports whether debits increase the balance of this account
// type. Assets and expenses are debit-normal; liabilities, equity and
// revenue are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a named account in the registry. Name is the unique
// identifier; Type and Currency are fixed at creation and never change.
type Account struct {
	Name      string      `json:"name"`
	Type      AccountType `json:"accountType"`
	Currency  string      `json:"currency"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ValidCurrencyCode checks the ISO 4217 shape of a currency code: exactly
// three uppercase ASCII letters. Full ISO list validation stays out of the
// engine; one account holds balances in exactly one currency.
func ValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
