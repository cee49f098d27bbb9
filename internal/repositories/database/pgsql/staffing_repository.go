package pgsql

import (
	"context"
	"errors"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStaffingRepository struct {
	BaseRepository
}

// newPgxStaffingRepository creates a new repository for staff assignments.
func newPgxStaffingRepository(pool *pgxpool.Pool) portsrepo.StaffingRepositoryFacade {
	return &PgxStaffingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StaffingRepositoryFacade = (*PgxStaffingRepository)(nil)

var FULL_STAFFING_SELECT_QUERY = `
SELECT
	s.assignment_id, s.project_id, s.user_id, s.unregistered_name, s.unregistered_document,
	s.role_title, s.wage, s.payment_status, s.payment_deadline,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM staff_assignments s
`

func (r *PgxStaffingRepository) getAssignments(ctx context.Context, filterQuery string, args ...any) ([]domain.StaffAssignment, error) {
	query := FULL_STAFFING_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query staff assignments", err)
	}
	defer rows.Close()
	assignments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.StaffAssignment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.StaffAssignment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect staff assignment rows", err)
	}
	return assignments, nil
}

// FindAssignmentByID retrieves a single staff assignment.
func (r *PgxStaffingRepository) FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.StaffAssignment, error) {
	assignments, err := r.getAssignments(ctx, `WHERE s.assignment_id = $1`, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &assignments[0], nil
}

// FindAssignmentsByProject lists a project's crew.
func (r *PgxStaffingRepository) FindAssignmentsByProject(ctx context.Context, projectID string) ([]domain.StaffAssignment, error) {
	return r.getAssignments(ctx, `WHERE s.project_id = $1 ORDER BY s.created_at DESC`, projectID)
}

// IsUserAssignedToProject reports whether a registered user has an
// assignment on the project. The access gate leans on this for contractor
// reads.
func (r *PgxStaffingRepository) IsUserAssignedToProject(ctx context.Context, projectID string, userID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM staff_assignments WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check project assignment", err)
	}
	return exists, nil
}

// SaveAssignment inserts an assignment plus its audit record in one
// transaction.
func (r *PgxStaffingRepository) SaveAssignment(ctx context.Context, assignment domain.StaffAssignment, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO staff_assignments (
			assignment_id, project_id, user_id, unregistered_name, unregistered_document,
			role_title, wage, payment_status, payment_deadline,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		assignment.AssignmentID,
		assignment.ProjectID,
		assignment.UserID,
		assignment.UnregisteredName,
		assignment.UnregisteredDocument,
		assignment.RoleTitle,
		assignment.Wage,
		string(assignment.PaymentStatus),
		assignment.PaymentDeadline,
		assignment.CreatedAt,
		assignment.CreatedBy,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert staff assignment "+assignment.AssignmentID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateAssignment updates an assignment plus its audit record in one
// transaction.
func (r *PgxStaffingRepository) UpdateAssignment(ctx context.Context, assignment domain.StaffAssignment, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE staff_assignments
		SET role_title = $2, wage = $3, payment_status = $4, payment_deadline = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE assignment_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		assignment.AssignmentID,
		assignment.RoleTitle,
		assignment.Wage,
		string(assignment.PaymentStatus),
		assignment.PaymentDeadline,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update staff assignment "+assignment.AssignmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteAssignment removes an assignment plus writes its audit record in one
// transaction.
func (r *PgxStaffingRepository) DeleteAssignment(ctx context.Context, assignmentID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM staff_assignments WHERE assignment_id = $1`, assignmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete staff assignment "+assignmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
