package services

import (
	"context"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/dto"
)

// AccountSvc defines the account operations the handlers and the journal
// service depend on.
type AccountSvc interface {
	// CreateAccount persists a new ledger account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs
	// are absent from the map.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts with offset pagination.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount updates mutable account fields.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-disables an account so new journal lines can no
	// longer post to it.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
