package services

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a specific project.
	GetProjectByID(ctx context.Context, projectID string, requestingUserID string) (*domain.Project, error)

	// ListProjects retrieves projects visible to the requesting user.
	ListProjects(ctx context.Context, requestingUserID string, params dto.ListProjectsParams) ([]domain.Project, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject persists a new project with its initial budget.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)

	// UpdateProject updates project details. A status change must carry a
	// reason, which is recorded in the audit trail.
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, requestingUserID string) (*domain.Project, error)

	// DeleteProject removes a project and its whole subtree. Admin only.
	DeleteProject(ctx context.Context, projectID string, requestingUserID string) error
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}
