package dto

import (
	"time"

	"github.com/finvault/ledger-engine/internal/core/domain"
)

// CreateAccountRequest registers an account (idempotently) in the registry.
type CreateAccountRequest struct {
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"account_type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Currency    string `json:"currency" binding:"required,currency_code"`
}

// AccountResponse is the wire form of a registry account.
type AccountResponse struct {
	Name        string    `json:"name"`
	AccountType string    `json:"account_type"`
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAccountResponse converts a domain.Account to its wire form.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Name:        a.Name,
		AccountType: string(a.Type),
		Currency:    a.Currency,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
