package services

import (
	"context"
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// AuthSvcFacade defines the interface for authentication operations.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a token plus the user profile.
	// Both successful and failed attempts land in the audit trail.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
