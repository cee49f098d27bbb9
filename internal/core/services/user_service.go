package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/utils"
)

// userService manages application users. Passwords are stored as bcrypt
// hashes and never leave the domain layer.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	access   portssvc.AccessGate
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, access portssvc.AccessGate) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		access:   access,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func isValidRole(r domain.Role) bool {
	switch r {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleContractor:
		return true
	}
	return false
}

// CreateUser registers a new user. Admin only.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	if err := s.access.AuthorizeAdmin(ctx, creatorUserID); err != nil {
		return nil, err
	}
	role := domain.Role(strings.ToUpper(req.Role))
	if !isValidRole(role) {
		return nil, fmt.Errorf("%w: %q is not a role", apperrors.ErrValidation, req.Role)
	}
	if existing, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, req.Username)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &creatorUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceUser,
		ResourceID:   user.UserID,
		Details: map[string]any{
			"username": user.Username,
			"name":     user.Name,
			"role":     string(user.Role),
		},
		Timestamp: now,
	}

	if err := s.userRepo.SaveUser(ctx, user, audit); err != nil {
		s.LogError(ctx, err, "failed to save user", slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "user created", slog.String("user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

// UpdateUser applies partial updates. Users may edit their own contact
// details; role changes are admin only.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if requestingUserID != userID {
		if err := s.access.AuthorizeAdmin(ctx, requestingUserID); err != nil {
			return nil, err
		}
	}

	before := map[string]any{}
	after := map[string]any{}
	updated := *user

	if req.Name != nil && *req.Name != user.Name {
		before["name"] = user.Name
		after["name"] = *req.Name
		updated.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		before["email"] = user.Email
		after["email"] = *req.Email
		updated.Email = *req.Email
	}
	if req.Phone != nil && *req.Phone != user.Phone {
		before["phone"] = user.Phone
		after["phone"] = *req.Phone
		updated.Phone = *req.Phone
	}
	if req.Role != nil {
		newRole := domain.Role(strings.ToUpper(*req.Role))
		if !isValidRole(newRole) {
			return nil, fmt.Errorf("%w: %q is not a role", apperrors.ErrValidation, *req.Role)
		}
		if newRole != user.Role {
			if err := s.access.AuthorizeAdmin(ctx, requestingUserID); err != nil {
				return nil, err
			}
			before["role"] = string(user.Role)
			after["role"] = string(newRole)
			updated.Role = newRole
		}
	}

	if len(after) == 0 {
		return user, nil
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceUser,
		ResourceID:   userID,
		Details: map[string]any{
			"before": before,
			"after":  after,
		},
		Timestamp: now,
	}

	if err := s.userRepo.UpdateUser(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

// DeleteUser soft-deletes a user. Admin only; self-deletion is rejected so
// the last admin cannot lock everyone out by accident.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if err := s.access.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return err
	}
	if userID == requestingUserID {
		return fmt.Errorf("%w: cannot delete your own account", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	now := time.Now().UTC()
	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceUser,
		ResourceID:   userID,
		Details: map[string]any{
			"username": user.Username,
			"name":     user.Name,
			"role":     string(user.Role),
		},
		Timestamp: now,
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, now, audit); err != nil {
		s.LogError(ctx, err, "failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.LogInfo(ctx, "user deleted", slog.String("user_id", userID))
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, username)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// ListUsers retrieves a paginated list of users. Managers and admins only.
func (s *userService) ListUsers(ctx context.Context, requestingUserID string, params dto.ListUsersParams) ([]domain.User, error) {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
