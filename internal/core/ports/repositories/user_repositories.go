package repositories

import (
	"context"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
)

// UserRepository defines storage operations for users.
type UserRepository interface {
	// FindUserByID retrieves a user by primary key.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by login name.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the
	// username is taken.
	SaveUser(ctx context.Context, user domain.User) error
}
