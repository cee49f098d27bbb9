package pgsql

import (
	"context"
	"errors"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository owns every write to the ledger and to the projects'
// current_budget column. Each mutation takes a row lock on the owning
// project so concurrent operations against one project serialize instead of
// racing on a stale budget read.
type PgxLedgerRepository struct {
	BaseRepository
	projectRepo *PgxProjectRepository
}

// newPgxLedgerRepository creates a new repository for ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool, projectRepo *PgxProjectRepository) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		projectRepo:    projectRepo,
	}
}

var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

var FULL_LEDGER_SELECT_QUERY = `
SELECT
	e.entry_id, e.project_id, e.entry_type, e.amount, e.description, e.status,
	e.cancelled_by, e.cancelled_at, e.cancellation_reason,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM ledger_entries e
`

func (r *PgxLedgerRepository) getEntries(ctx context.Context, filterQuery string, args ...any) ([]domain.LedgerEntry, error) {
	query := FULL_LEDGER_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.LedgerEntry{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect ledger entry rows", err)
	}
	return entries, nil
}

// FindEntryByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	entries, err := r.getEntries(ctx, `WHERE e.entry_id = $1`, entryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &entries[0], nil
}

// FindEntriesByProject lists a project's entries, active before cancelled
// ('ACTIVE' sorts before 'CANCELLED'), newest first within each group.
func (r *PgxLedgerRepository) FindEntriesByProject(ctx context.Context, projectID string, status string, limit int, offset int) ([]domain.LedgerEntry, error) {
	if status != "" {
		return r.getEntries(ctx,
			`WHERE e.project_id = $1 AND e.status = $2 ORDER BY e.status ASC, e.created_at DESC LIMIT $3 OFFSET $4`,
			projectID, status, limit, offset)
	}
	return r.getEntries(ctx,
		`WHERE e.project_id = $1 ORDER BY e.status ASC, e.created_at DESC LIMIT $2 OFFSET $3`,
		projectID, limit, offset)
}

// adjustBudgetInTx applies a signed delta to the locked project's
// current_budget. The caller must already hold the row lock.
func (r *PgxLedgerRepository) adjustBudgetInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry, delta decimal.Decimal) error {
	query := `
		UPDATE projects
		SET current_budget = current_budget + $2, last_updated_at = $3, last_updated_by = $4
		WHERE project_id = $1;
	`
	tag, err := tx.Exec(ctx, query, entry.ProjectID, delta, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust project budget", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveEntry inserts the entry, applies its budget delta and writes the
// audit record, all under the project row lock. Any failure rolls back the
// whole set.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.projectRepo.findProjectForUpdate(ctx, tx, entry.ProjectID); err != nil {
		return err
	}

	query := `
		INSERT INTO ledger_entries (
			entry_id, project_id, entry_type, amount, description, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		entry.EntryID,
		entry.ProjectID,
		string(entry.EntryType),
		entry.Amount,
		entry.Description,
		string(entry.Status),
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+entry.EntryID, err)
	}

	if err := r.adjustBudgetInTx(ctx, tx, entry, entry.BudgetDelta()); err != nil {
		return err
	}
	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// CancelEntry flips the entry to cancelled and reverses its budget effect
// under the project row lock. The status check runs again inside the
// transaction: if a concurrent cancel commits first, this one reports
// ErrAlreadyCancelled instead of double-reversing the budget.
func (r *PgxLedgerRepository) CancelEntry(ctx context.Context, entry domain.LedgerEntry, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.projectRepo.findProjectForUpdate(ctx, tx, entry.ProjectID); err != nil {
		return err
	}

	query := `
		UPDATE ledger_entries
		SET status = $2, cancelled_by = $3, cancelled_at = $4, cancellation_reason = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1 AND status = $8;
	`
	tag, err := tx.Exec(ctx, query,
		entry.EntryID,
		string(domain.EntryCancelled),
		entry.CancelledBy,
		entry.CancelledAt,
		entry.CancellationReason,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
		string(domain.EntryActive),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel ledger entry "+entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		// The guarded update matched nothing: either the entry vanished or it
		// is already cancelled. Distinguish for the caller.
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM ledger_entries WHERE entry_id = $1`, entry.EntryID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to check ledger entry status", err)
		}
		return apperrors.ErrAlreadyCancelled
	}

	if err := r.adjustBudgetInTx(ctx, tx, entry, entry.ReversalDelta()); err != nil {
		return err
	}
	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
