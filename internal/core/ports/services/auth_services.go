package services

import (
	"context"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/dto"
)

// AuthSvc defines registration and credential verification.
type AuthSvc interface {
	// Register creates a user with a hashed password.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and issues a signed bearer token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
