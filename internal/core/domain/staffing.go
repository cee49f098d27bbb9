package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks whether a staff assignment's wage has been settled.
// OVERDUE is never stored; it is derived at read time from the deadline.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentPaid       PaymentStatus = "PAID"
	PaymentNegotiable PaymentStatus = "NEGOTIABLE"
	PaymentOverdue    PaymentStatus = "OVERDUE"
)

// StaffAssignment links a worker to a project. The worker is either a
// registered user (UserID set) or an unregistered person identified by
// name/document only, since crews often include day labourers without
// accounts.
type StaffAssignment struct {
	AssignmentID string  `json:"assignmentID" db:"assignment_id"`
	ProjectID    string  `json:"projectID" db:"project_id"`
	UserID       *string `json:"userID,omitempty" db:"user_id"`

	// Identification for unregistered workers.
	UnregisteredName     *string `json:"unregisteredName,omitempty" db:"unregistered_name"`
	UnregisteredDocument *string `json:"unregisteredDocument,omitempty" db:"unregistered_document"`

	RoleTitle       string          `json:"roleTitle" db:"role_title"`
	Wage            decimal.Decimal `json:"wage" db:"wage"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentDeadline *time.Time      `json:"paymentDeadline,omitempty" db:"payment_deadline"`
	AuditFields
}

// EffectivePaymentStatus derives the display status: paid stays paid, a
// pending wage past its deadline reads as overdue.
func (a StaffAssignment) EffectivePaymentStatus(now time.Time) PaymentStatus {
	if a.PaymentStatus == PaymentPaid {
		return PaymentPaid
	}
	if a.PaymentDeadline != nil && a.PaymentDeadline.Before(now) {
		return PaymentOverdue
	}
	return a.PaymentStatus
}
