package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
)

// accessService implements the AccessGate role matrix: admins and managers
// read and mutate everything, contractors only read projects they hold an
// assignment on.
type accessService struct {
	BaseService
	userRepo     portsrepo.UserReader
	staffingRepo portsrepo.StaffingReader
}

// NewAccessService creates a new AccessGate implementation.
func NewAccessService(userRepo portsrepo.UserReader, staffingRepo portsrepo.StaffingReader) portssvc.AccessGate {
	return &accessService{
		userRepo:     userRepo,
		staffingRepo: staffingRepo,
	}
}

var _ portssvc.AccessGate = (*accessService)(nil)

// resolveUser loads the acting user, mapping unknown or deleted users to
// ErrUnauthorized.
func (s *accessService) resolveUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve user for authorization: %w", err)
	}
	if user.DeletedAt != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// AuthorizeProjectRead allows admins and managers everywhere and contractors
// on projects they are assigned to.
func (s *accessService) AuthorizeProjectRead(ctx context.Context, userID string, projectID string) error {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role.CanManage() {
		return nil
	}
	assigned, err := s.staffingRepo.IsUserAssignedToProject(ctx, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to check project assignment: %w", err)
	}
	if !assigned {
		s.LogWarn(ctx, "read access denied", slog.String("user_id", userID), slog.String("project_id", projectID))
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeProjectWrite allows admins and managers only.
func (s *accessService) AuthorizeProjectWrite(ctx context.Context, userID string, projectID string) error {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Role.CanManage() {
		s.LogWarn(ctx, "write access denied", slog.String("user_id", userID), slog.String("project_id", projectID))
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeManager allows admins and managers, with no project scoping.
func (s *accessService) AuthorizeManager(ctx context.Context, userID string) error {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Role.CanManage() {
		s.LogWarn(ctx, "manager access denied", slog.String("user_id", userID))
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeAdmin allows admins only.
func (s *accessService) AuthorizeAdmin(ctx context.Context, userID string) error {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin {
		s.LogWarn(ctx, "admin access denied", slog.String("user_id", userID))
		return apperrors.ErrForbidden
	}
	return nil
}
