package services

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// StaffingReaderSvc defines read operations for staff assignments
type StaffingReaderSvc interface {
	// ListAssignments retrieves a project's staff assignments.
	ListAssignments(ctx context.Context, projectID string, requestingUserID string) ([]domain.StaffAssignment, error)
}

// StaffingWriterSvc defines write operations for staff assignments
type StaffingWriterSvc interface {
	// CreateAssignment assigns a worker (registered or not) to a project.
	CreateAssignment(ctx context.Context, projectID string, req dto.CreateStaffAssignmentRequest, creatorUserID string) (*domain.StaffAssignment, error)

	// UpdateAssignment updates wage, role title or payment fields.
	UpdateAssignment(ctx context.Context, projectID string, assignmentID string, req dto.UpdateStaffAssignmentRequest, requestingUserID string) (*domain.StaffAssignment, error)

	// DeleteAssignment removes a worker from a project.
	DeleteAssignment(ctx context.Context, projectID string, assignmentID string, requestingUserID string) error
}

// StaffingSvcFacade combines all staffing-related service interfaces
type StaffingSvcFacade interface {
	StaffingReaderSvc
	StaffingWriterSvc
}
