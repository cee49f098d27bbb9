package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// projectService manages the project aggregate. Budget arithmetic lives in
// the ledger service; this one only ever touches descriptive fields and the
// lifecycle status.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	access      portssvc.AccessGate
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade, access portssvc.AccessGate) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo: projectRepo,
		access:      access,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func isValidProjectStatus(s domain.ProjectStatus) bool {
	switch s {
	case domain.ProjectInProgress, domain.ProjectCompleted, domain.ProjectOnHold:
		return true
	}
	return false
}

// CreateProject persists a new project. The initial budget defaults to zero
// and seeds the current budget.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	if err := s.access.AuthorizeManager(ctx, creatorUserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrMissingField)
	}

	initialBudget := decimal.Zero
	if req.InitialBudget != nil {
		if req.InitialBudget.IsNegative() {
			return nil, fmt.Errorf("%w: initial budget cannot be negative", apperrors.ErrInvalidAmount)
		}
		initialBudget = *req.InitialBudget
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:     uuid.NewString(),
		Name:          req.Name,
		Address:       req.Address,
		Owner:         req.Owner,
		InitialBudget: initialBudget,
		CurrentBudget: initialBudget,
		Status:        domain.ProjectInProgress,
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
		ResourceKind: domain.ResourceProject,
		ResourceID:   project.ProjectID,
		Details: map[string]any{
			"name":          project.Name,
			"address":       project.Address,
			"owner":         project.Owner,
			"initialBudget": project.InitialBudget.String(),
			"status":        string(project.Status),
		},
		Timestamp: now,
	}

	if err := s.projectRepo.SaveProject(ctx, project, audit); err != nil {
		s.LogError(ctx, err, "failed to save project", slog.String("project_id", project.ProjectID))
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.LogInfo(ctx, "project created", slog.String("project_id", project.ProjectID), slog.String("name", project.Name))
	return &project, nil
}

// UpdateProject applies partial updates. The audit record carries a
// before/after delta of only the touched fields. A status change must come
// with a reason, which goes into the audit details.
func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, requestingUserID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}

	before := map[string]any{}
	after := map[string]any{}
	updated := *project

	if req.Name != nil && *req.Name != project.Name {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: project name cannot be empty", apperrors.ErrMissingField)
		}
		before["name"] = project.Name
		after["name"] = *req.Name
		updated.Name = *req.Name
	}
	if req.Address != nil && *req.Address != project.Address {
		before["address"] = project.Address
		after["address"] = *req.Address
		updated.Address = *req.Address
	}
	if req.Owner != nil && *req.Owner != project.Owner {
		before["owner"] = project.Owner
		after["owner"] = *req.Owner
		updated.Owner = *req.Owner
	}
	if req.Status != nil {
		newStatus := domain.ProjectStatus(strings.ToUpper(*req.Status))
		if !isValidProjectStatus(newStatus) {
			return nil, fmt.Errorf("%w: %q is not a project status", apperrors.ErrValidation, *req.Status)
		}
		if newStatus != project.Status {
			if req.StatusReason == nil || strings.TrimSpace(*req.StatusReason) == "" {
				return nil, fmt.Errorf("%w: a status change requires a reason", apperrors.ErrMissingField)
			}
			before["status"] = string(project.Status)
			after["status"] = string(newStatus)
			updated.Status = newStatus
		}
	}

	if len(after) == 0 {
		// Nothing changed; skip the write and the audit noise.
		return project, nil
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	details := map[string]any{
		"before": before,
		"after":  after,
	}
	if req.StatusReason != nil && strings.TrimSpace(*req.StatusReason) != "" {
		details["reason"] = *req.StatusReason
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceProject,
		ResourceID:   projectID,
		Details:      details,
		Timestamp:    now,
	}

	if err := s.projectRepo.UpdateProject(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to update project", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.LogInfo(ctx, "project updated", slog.String("project_id", projectID))
	return &updated, nil
}

// DeleteProject removes a project and its whole subtree. Admin only; the
// audit record keeps the final snapshot.
func (s *projectService) DeleteProject(ctx context.Context, projectID string, requestingUserID string) error {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return err
	}
	if project.IsStockDefault {
		return fmt.Errorf("%w: the default stock project cannot be deleted", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceProject,
		ResourceID:   projectID,
		Details: map[string]any{
			"name":          project.Name,
			"address":       project.Address,
			"owner":         project.Owner,
			"initialBudget": project.InitialBudget.String(),
			"currentBudget": project.CurrentBudget.String(),
			"status":        string(project.Status),
		},
		Timestamp: now,
	}

	if err := s.projectRepo.DeleteProject(ctx, projectID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete project", slog.String("project_id", projectID))
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.LogInfo(ctx, "project deleted", slog.String("project_id", projectID), slog.String("name", project.Name))
	return nil
}

// GetProjectByID retrieves one project.
func (s *projectService) GetProjectByID(ctx context.Context, projectID string, requestingUserID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects retrieves projects visible to the user. Contractors get only
// the projects they are assigned to filtered in afterwards by the access
// gate check per project.
func (s *projectService) ListProjects(ctx context.Context, requestingUserID string, params dto.ListProjectsParams) ([]domain.Project, error) {
	status := strings.ToUpper(params.Status)
	if status != "" && !isValidProjectStatus(domain.ProjectStatus(status)) {
		return nil, fmt.Errorf("%w: %q is not a project status", apperrors.ErrValidation, params.Status)
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	projects, err := s.projectRepo.FindProjects(ctx, status, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if err := s.access.AuthorizeManager(ctx, requestingUserID); err == nil {
		return projects, nil
	} else if !errors.Is(err, apperrors.ErrForbidden) {
		return nil, err
	}

	// Contractor: keep only assigned projects.
	visible := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, p.ProjectID); err == nil {
			visible = append(visible, p)
		} else if !errors.Is(err, apperrors.ErrForbidden) {
			return nil, err
		}
	}
	return visible, nil
}
