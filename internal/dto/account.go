package dto

import (
	"github.com/ledgerpost/ledgerpost/internal/core/domain"
)

// CreateAccountRequest defines data needed to create a ledger account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required"`
	AccountType  domain.AccountType `json:"account_type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string             `json:"currency_code" binding:"required,uppercase,len=3"`
	Description  string             `json:"description"`
}

// UpdateAccountRequest defines updatable account fields. Nil means unchanged.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	AccountType  string `json:"account_type"`
	CurrencyCode string `json:"currency_code"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
	Balance      string `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		Name:         a.Name,
		AccountType:  string(a.AccountType),
		CurrencyCode: a.CurrencyCode,
		Description:  a.Description,
		IsActive:     a.IsActive,
		Balance:      a.Balance.StringFixed(2),
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
