package pgsql

import (
	"context"
	"errors"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProjectRepository struct {
	BaseRepository
}

// newPgxProjectRepository creates a new repository for project data.
func newPgxProjectRepository(pool *pgxpool.Pool) *PgxProjectRepository {
	return &PgxProjectRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

var FULL_PROJECT_SELECT_QUERY = `
SELECT
	p.project_id, p.name, p.address, p.owner, p.initial_budget, p.current_budget,
	p.status, p.is_stock_default,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM projects p
`

func (r *PgxProjectRepository) getProjects(ctx context.Context, filterQuery string, args ...any) ([]domain.Project, error) {
	query := FULL_PROJECT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query projects", err)
	}
	defer rows.Close()
	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Project{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect project rows", err)
	}
	return projects, nil
}

// FindProjectByID retrieves a single project by ID.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	projects, err := r.getProjects(ctx, `WHERE p.project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &projects[0], nil
}

// FindProjects lists projects, optionally filtered by status.
func (r *PgxProjectRepository) FindProjects(ctx context.Context, status string, limit int, offset int) ([]domain.Project, error) {
	if status != "" {
		return r.getProjects(ctx, `WHERE p.status = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	}
	return r.getProjects(ctx, `ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// FindDefaultStockProject retrieves the project flagged as the default
// inventory destination.
func (r *PgxProjectRepository) FindDefaultStockProject(ctx context.Context) (*domain.Project, error) {
	projects, err := r.getProjects(ctx, `WHERE p.is_stock_default LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &projects[0], nil
}

// findProjectForUpdate locks the project row for the duration of tx. This is
// what serializes concurrent budget mutations against one project.
func (r *PgxProjectRepository) findProjectForUpdate(ctx context.Context, tx pgx.Tx, projectID string) (*domain.Project, error) {
	query := FULL_PROJECT_SELECT_QUERY + `WHERE p.project_id = $1 FOR UPDATE`
	rows, err := tx.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock project row", err)
	}
	defer rows.Close()
	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Project])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect locked project row", err)
	}
	if len(projects) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &projects[0], nil
}

// SaveProject inserts a new project plus its audit record in one
// transaction.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO projects (
			project_id, name, address, owner, initial_budget, current_budget,
			status, is_stock_default,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		project.ProjectID,
		project.Name,
		project.Address,
		project.Owner,
		project.InitialBudget,
		project.CurrentBudget,
		string(project.Status),
		project.IsStockDefault,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("project ID " + project.ProjectID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert project "+project.ProjectID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateProject updates descriptive fields and status. The budget columns
// are deliberately absent: only the ledger repository touches them.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE projects
		SET name = $2, address = $3, owner = $4, status = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE project_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		project.ProjectID,
		project.Name,
		project.Address,
		project.Owner,
		string(project.Status),
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update project "+project.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteProject removes the project row; child rows (ledger entries,
// staffing, inventory, checklist, document metadata) go with it through
// ON DELETE CASCADE. The audit record outlives the project.
func (r *PgxProjectRepository) DeleteProject(ctx context.Context, projectID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE project_id = $1`, projectID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete project "+projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
