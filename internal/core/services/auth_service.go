package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/utils"
)

// authService verifies credentials and hands out access tokens. Every
// attempt, successful or not, lands in the audit trail.
type authService struct {
	BaseService
	userSvc  portssvc.UserReaderSvc
	tokenSvc portssvc.TokenSvcFacade
	auditSvc portssvc.AuditRecorderSvc
}

// NewAuthService creates a new AuthService.
func NewAuthService(userSvc portssvc.UserReaderSvc, tokenSvc portssvc.TokenSvcFacade, auditSvc portssvc.AuditRecorderSvc) portssvc.AuthSvcFacade {
	return &authService{
		userSvc:  userSvc,
		tokenSvc: tokenSvc,
		auditSvc: auditSvc,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the username/password pair and returns a signed token with
// the user profile. Failed attempts are audited as system records so the
// trail shows brute-force patterns.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userSvc.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordAttempt(ctx, nil, req.Username, false)
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to fetch user for login: %w", err)
	}
	if user.DeletedAt != nil {
		s.recordAttempt(ctx, nil, req.Username, false)
		return nil, apperrors.ErrUnauthorized
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordAttempt(ctx, &user.UserID, req.Username, false)
		return nil, apperrors.ErrUnauthorized
	}

	token, _, err := s.tokenSvc.GenerateAccessToken(ctx, user)
	if err != nil {
		s.LogError(ctx, err, "failed to generate access token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.recordAttempt(ctx, &user.UserID, req.Username, true)
	s.LogInfo(ctx, "user logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}

// recordAttempt audits a login attempt. Audit failures here are logged and
// swallowed: the login itself mutates no business state, so there is no
// transaction to roll back.
func (s *authService) recordAttempt(ctx context.Context, actorID *string, username string, success bool) {
	resourceID := username
	if actorID != nil {
		resourceID = *actorID
	}
	details := map[string]any{
		"username": username,
		"success":  success,
	}
	if err := s.auditSvc.RecordAction(ctx, actorID, domain.ActionLogin, domain.ResourceUser, resourceID, details); err != nil {
		s.LogError(ctx, err, "failed to audit login attempt", slog.String("username", username))
	}
}
