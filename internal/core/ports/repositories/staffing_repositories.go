package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// StaffingReader defines read operations for staff assignment data
type StaffingReader interface {
	// FindAssignmentByID retrieves a specific staff assignment by its ID.
	FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error)

	// FindAssignmentsByProject retrieves all assignments of a project.
	FindAssignmentsByProject(ctx context.Context, projectID string) ([]domain.StaffAssignment, error)

	// IsUserAssignedToProject reports whether a registered user holds an
	// active assignment on the project.
	IsUserAssignedToProject(ctx context.Context, projectID string, userID string) (bool, error)
}

// StaffingWriter defines write operations for staff assignment data.
// Mutations persist the audit record in the same transaction.
type StaffingWriter interface {
	// SaveAssignment persists a new staff assignment.
	SaveAssignment(ctx context.Context, assignment domain.StaffAssignment, audit domain.AuditRecord) error

	// UpdateAssignment updates an existing staff assignment.
	UpdateAssignment(ctx context.Context, assignment domain.StaffAssignment, audit domain.AuditRecord) error

	// DeleteAssignment removes a staff assignment.
	DeleteAssignment(ctx context.Context, assignmentID string, audit domain.AuditRecord) error
}

// StaffingRepositoryFacade combines all staffing-related repository interfaces
type StaffingRepositoryFacade interface {
	StaffingReader
	StaffingWriter
}
