package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Staffing DTOs ---

// CreateStaffAssignmentRequest defines data for assigning a worker to a
// project. Exactly one of UserID or UnregisteredName must be set.
type CreateStaffAssignmentRequest struct {
	UserID               *string         `json:"userID"`
	UnregisteredName     *string         `json:"unregisteredName"`
	UnregisteredDocument *string         `json:"unregisteredDocument"`
	RoleTitle            string          `json:"roleTitle" binding:"required"`
	Wage                 decimal.Decimal `json:"wage"`
	PaymentDeadline      *time.Time      `json:"paymentDeadline"`
}

// UpdateStaffAssignmentRequest defines data for updating a staff assignment.
type UpdateStaffAssignmentRequest struct {
	RoleTitle       *string          `json:"roleTitle"`
	Wage            *decimal.Decimal `json:"wage"`
	PaymentStatus   *string          `json:"paymentStatus" binding:"omitempty,oneof=PENDING PAID NEGOTIABLE"`
	PaymentDeadline *time.Time       `json:"paymentDeadline"`
}

// StaffAssignmentResponse defines data returned for a staff assignment.
// PaymentStatus is the derived status, so a pending wage past its deadline
// reads as OVERDUE.
type StaffAssignmentResponse struct {
	AssignmentID         string          `json:"assignmentID"`
	ProjectID            string          `json:"projectID"`
	UserID               *string         `json:"userID,omitempty"`
	UnregisteredName     *string         `json:"unregisteredName,omitempty"`
	UnregisteredDocument *string         `json:"unregisteredDocument,omitempty"`
	RoleTitle            string          `json:"roleTitle"`
	Wage                 decimal.Decimal `json:"wage"`
	PaymentStatus        string          `json:"paymentStatus"`
	PaymentDeadline      *time.Time      `json:"paymentDeadline,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// ToStaffAssignmentResponse converts domain.StaffAssignment to DTO,
// deriving the effective payment status at now.
func ToStaffAssignmentResponse(a *domain.StaffAssignment, now time.Time) StaffAssignmentResponse {
	return StaffAssignmentResponse{
		AssignmentID:         a.AssignmentID,
		ProjectID:            a.ProjectID,
		UserID:               a.UserID,
		UnregisteredName:     a.UnregisteredName,
		UnregisteredDocument: a.UnregisteredDocument,
		RoleTitle:            a.RoleTitle,
		Wage:                 a.Wage,
		PaymentStatus:        string(a.EffectivePaymentStatus(now)),
		PaymentDeadline:      a.PaymentDeadline,
		CreatedAt:            a.CreatedAt,
	}
}

// ListStaffAssignmentsResponse wraps the list of staff assignments.
type ListStaffAssignmentsResponse struct {
	Assignments []StaffAssignmentResponse `json:"assignments"`
}

// ToListStaffAssignmentsResponse converts a slice of domain.StaffAssignment to DTO.
func ToListStaffAssignmentsResponse(assignments []domain.StaffAssignment, now time.Time) ListStaffAssignmentsResponse {
	responses := make([]StaffAssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = ToStaffAssignmentResponse(&a, now)
	}
	return ListStaffAssignmentsResponse{Assignments: responses}
}
