package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its ID.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// FindProjects retrieves a paginated list of projects, optionally
	// filtered by status (empty string means all).
	FindProjects(ctx context.Context, status string, limit int, offset int) ([]domain.Project, error)

	// FindDefaultStockProject retrieves the project flagged as the default
	// stock destination for unassigned inventory.
	FindDefaultStockProject(ctx context.Context) (*domain.Project, error)
}

// ProjectWriter defines write operations for project data.
// Every mutation persists the given audit record in the same transaction,
// so a failed audit write rolls the mutation back.
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project, audit domain.AuditRecord) error

	// UpdateProject updates an existing project's details.
	UpdateProject(ctx context.Context, project domain.Project, audit domain.AuditRecord) error

	// DeleteProject removes a project and its whole subtree (ledger entries,
	// staffing, inventory, checklist, document metadata).
	DeleteProject(ctx context.Context, projectID string, audit domain.AuditRecord) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
