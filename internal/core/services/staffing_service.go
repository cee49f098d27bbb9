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
)

// staffingService manages worker assignments on projects. Workers are
// either registered users or unregistered people identified by name.
type staffingService struct {
	BaseService
	staffingRepo portsrepo.StaffingRepositoryFacade
	projectRepo  portsrepo.ProjectReader
	userRepo     portsrepo.UserReader
	access       portssvc.AccessGate
}

// NewStaffingService creates a new StaffingService.
func NewStaffingService(staffingRepo portsrepo.StaffingRepositoryFacade, projectRepo portsrepo.ProjectReader, userRepo portsrepo.UserReader, access portssvc.AccessGate) portssvc.StaffingSvcFacade {
	return &staffingService{
		staffingRepo: staffingRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		access:       access,
	}
}

var _ portssvc.StaffingSvcFacade = (*staffingService)(nil)

func isValidPaymentStatus(s domain.PaymentStatus) bool {
	switch s {
	case domain.PaymentPending, domain.PaymentPaid, domain.PaymentNegotiable:
		return true
	}
	return false
}

// CreateAssignment assigns a worker to a project. Exactly one of userID or
// unregisteredName identifies the worker.
func (s *staffingService) CreateAssignment(ctx context.Context, projectID string, req dto.CreateStaffAssignmentRequest, creatorUserID string) (*domain.StaffAssignment, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, creatorUserID, projectID); err != nil {
		return nil, err
	}

	hasUser := req.UserID != nil && *req.UserID != ""
	hasName := req.UnregisteredName != nil && strings.TrimSpace(*req.UnregisteredName) != ""
	if hasUser == hasName {
		return nil, fmt.Errorf("%w: provide either a user ID or an unregistered worker name", apperrors.ErrValidation)
	}
	if hasUser {
		if _, err := s.userRepo.FindUserByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, *req.UserID)
			}
			return nil, fmt.Errorf("failed to fetch user: %w", err)
		}
	}
	if req.Wage.IsNegative() {
		return nil, fmt.Errorf("%w: wage cannot be negative", apperrors.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	assignment := domain.StaffAssignment{
		AssignmentID:         uuid.NewString(),
		ProjectID:            projectID,
		UserID:               req.UserID,
		UnregisteredName:     req.UnregisteredName,
		UnregisteredDocument: req.UnregisteredDocument,
		RoleTitle:            req.RoleTitle,
		Wage:                 req.Wage,
		PaymentStatus:        domain.PaymentPending,
		PaymentDeadline:      req.PaymentDeadline,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	details := map[string]any{
		"projectID": projectID,
		"roleTitle": req.RoleTitle,
		"wage":      req.Wage.String(),
	}
	if hasUser {
		details["userID"] = *req.UserID
	} else {
		details["unregisteredName"] = *req.UnregisteredName
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &creatorUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceStaffAssignment,
		ResourceID:   assignment.AssignmentID,
		Details:      details,
		Timestamp:    now,
	}

	if err := s.staffingRepo.SaveAssignment(ctx, assignment, audit); err != nil {
		s.LogError(ctx, err, "failed to save staff assignment", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to save staff assignment: %w", err)
	}

	s.LogInfo(ctx, "staff assignment created", slog.String("assignment_id", assignment.AssignmentID), slog.String("project_id", projectID))
	return &assignment, nil
}

// UpdateAssignment applies partial updates to wage and payment fields.
func (s *staffingService) UpdateAssignment(ctx context.Context, projectID string, assignmentID string, req dto.UpdateStaffAssignmentRequest, requestingUserID string) (*domain.StaffAssignment, error) {
	assignment, err := s.staffingRepo.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff assignment %s", apperrors.ErrNotFound, assignmentID)
		}
		return nil, fmt.Errorf("failed to fetch staff assignment: %w", err)
	}
	if assignment.ProjectID != projectID {
		return nil, fmt.Errorf("%w: staff assignment %s", apperrors.ErrNotFound, assignmentID)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}

	before := map[string]any{}
	after := map[string]any{}
	updated := *assignment

	if req.RoleTitle != nil && *req.RoleTitle != assignment.RoleTitle {
		before["roleTitle"] = assignment.RoleTitle
		after["roleTitle"] = *req.RoleTitle
		updated.RoleTitle = *req.RoleTitle
	}
	if req.Wage != nil && !req.Wage.Equal(assignment.Wage) {
		if req.Wage.IsNegative() {
			return nil, fmt.Errorf("%w: wage cannot be negative", apperrors.ErrInvalidAmount)
		}
		before["wage"] = assignment.Wage.String()
		after["wage"] = req.Wage.String()
		updated.Wage = *req.Wage
	}
	if req.PaymentStatus != nil {
		newStatus := domain.PaymentStatus(strings.ToUpper(*req.PaymentStatus))
		if !isValidPaymentStatus(newStatus) {
			return nil, fmt.Errorf("%w: %q is not a payment status", apperrors.ErrValidation, *req.PaymentStatus)
		}
		if newStatus != assignment.PaymentStatus {
			before["paymentStatus"] = string(assignment.PaymentStatus)
			after["paymentStatus"] = string(newStatus)
			updated.PaymentStatus = newStatus
		}
	}
	if req.PaymentDeadline != nil {
		before["paymentDeadline"] = assignment.PaymentDeadline
		after["paymentDeadline"] = *req.PaymentDeadline
		updated.PaymentDeadline = req.PaymentDeadline
	}

	if len(after) == 0 {
		return assignment, nil
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceStaffAssignment,
		ResourceID:   assignmentID,
		Details: map[string]any{
			"before": before,
			"after":  after,
		},
		Timestamp: now,
	}

	if err := s.staffingRepo.UpdateAssignment(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to update staff assignment", slog.String("assignment_id", assignmentID))
		return nil, fmt.Errorf("failed to update staff assignment: %w", err)
	}

	return &updated, nil
}

// DeleteAssignment removes a worker from a project.
func (s *staffingService) DeleteAssignment(ctx context.Context, projectID string, assignmentID string, requestingUserID string) error {
	assignment, err := s.staffingRepo.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: staff assignment %s", apperrors.ErrNotFound, assignmentID)
		}
		return fmt.Errorf("failed to fetch staff assignment: %w", err)
	}
	if assignment.ProjectID != projectID {
		return fmt.Errorf("%w: staff assignment %s", apperrors.ErrNotFound, assignmentID)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return err
	}

	now := time.Now().UTC()
	details := map[string]any{
		"projectID": projectID,
		"roleTitle": assignment.RoleTitle,
		"wage":      assignment.Wage.String(),
	}
	if assignment.UserID != nil {
		details["userID"] = *assignment.UserID
	}
	if assignment.UnregisteredName != nil {
		details["unregisteredName"] = *assignment.UnregisteredName
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceStaffAssignment,
		ResourceID:   assignmentID,
		Details:      details,
		Timestamp:    now,
	}

	if err := s.staffingRepo.DeleteAssignment(ctx, assignmentID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete staff assignment", slog.String("assignment_id", assignmentID))
		return fmt.Errorf("failed to delete staff assignment: %w", err)
	}
	return nil
}

// ListAssignments returns a project's staff assignments.
func (s *staffingService) ListAssignments(ctx context.Context, projectID string, requestingUserID string) ([]domain.StaffAssignment, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	assignments, err := s.staffingRepo.FindAssignmentsByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "failed to list staff assignments", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list staff assignments: %w", err)
	}
	return assignments, nil
}
