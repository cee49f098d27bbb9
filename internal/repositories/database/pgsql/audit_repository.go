package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

var FULL_AUDIT_SELECT_QUERY = `
SELECT
	a.record_id, a.actor_id, a.action_kind, a.resource_kind, a.resource_id,
	a.details, a.timestamp
FROM audit_records a
`

// insertAuditRecordTx appends one audit record inside an existing
// transaction. Every mutating repository calls this so the record commits
// or rolls back together with the row change it documents.
func insertAuditRecordTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	query := `
		INSERT INTO audit_records (
			record_id, actor_id, action_kind, resource_kind, resource_id, details, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		record.RecordID,
		record.ActorID,
		string(record.ActionKind),
		record.ResourceKind,
		record.ResourceID,
		record.Details,
		record.Timestamp,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record "+record.RecordID, err)
	}
	return nil
}

// SaveAuditRecord appends a record in its own transaction, for callers
// recording actions with no accompanying row mutation.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertAuditRecordTx(ctx, tx, record); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxAuditRepository) getRecords(ctx context.Context, filterQuery string, args ...any) ([]domain.AuditRecord, error) {
	query := FULL_AUDIT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit records", err)
	}
	defer rows.Close()
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.AuditRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.AuditRecord{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect audit record rows", err)
	}
	return records, nil
}

// FindRecordsByResource returns one resource's history, newest first.
func (r *PgxAuditRepository) FindRecordsByResource(ctx context.Context, resourceKind string, resourceID string, limit int, before time.Time) ([]domain.AuditRecord, error) {
	if before.IsZero() {
		return r.getRecords(ctx,
			`WHERE a.resource_kind = $1 AND a.resource_id = $2 ORDER BY a.timestamp DESC LIMIT $3`,
			resourceKind, resourceID, limit)
	}
	return r.getRecords(ctx,
		`WHERE a.resource_kind = $1 AND a.resource_id = $2 AND a.timestamp < $3 ORDER BY a.timestamp DESC LIMIT $4`,
		resourceKind, resourceID, before, limit)
}

// FindRecordsByActor returns one user's actions, newest first.
func (r *PgxAuditRepository) FindRecordsByActor(ctx context.Context, actorID string, limit int, before time.Time) ([]domain.AuditRecord, error) {
	if before.IsZero() {
		return r.getRecords(ctx,
			`WHERE a.actor_id = $1 ORDER BY a.timestamp DESC LIMIT $2`,
			actorID, limit)
	}
	return r.getRecords(ctx,
		`WHERE a.actor_id = $1 AND a.timestamp < $2 ORDER BY a.timestamp DESC LIMIT $3`,
		actorID, before, limit)
}

// FindRecords returns the global feed, newest first.
func (r *PgxAuditRepository) FindRecords(ctx context.Context, limit int, before time.Time) ([]domain.AuditRecord, error) {
	if before.IsZero() {
		return r.getRecords(ctx, `ORDER BY a.timestamp DESC LIMIT $1`, limit)
	}
	return r.getRecords(ctx, `WHERE a.timestamp < $1 ORDER BY a.timestamp DESC LIMIT $2`, before, limit)
}
