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

type PgxChecklistRepository struct {
	BaseRepository
}

// newPgxChecklistRepository creates a new repository for checklist data.
func newPgxChecklistRepository(pool *pgxpool.Pool) portsrepo.ChecklistRepositoryFacade {
	return &PgxChecklistRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ChecklistRepositoryFacade = (*PgxChecklistRepository)(nil)

var FULL_CHECKLIST_SELECT_QUERY = `
SELECT
	c.item_id, c.project_id, c.title, c.description, c.assignee_id, c.status,
	c.deadline, c.completed_at,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM checklist_items c
`

func (r *PgxChecklistRepository) getItems(ctx context.Context, filterQuery string, args ...any) ([]domain.ChecklistItem, error) {
	query := FULL_CHECKLIST_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checklist items", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ChecklistItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ChecklistItem{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect checklist item rows", err)
	}
	return items, nil
}

// FindItemByID retrieves a single checklist item.
func (r *PgxChecklistRepository) FindItemByID(ctx context.Context, itemID string) (*domain.ChecklistItem, error) {
	items, err := r.getItems(ctx, `WHERE c.item_id = $1`, itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

// FindItemsByProject lists a project's tasks, pending before done, newest
// first within each group.
func (r *PgxChecklistRepository) FindItemsByProject(ctx context.Context, projectID string) ([]domain.ChecklistItem, error) {
	return r.getItems(ctx, `WHERE c.project_id = $1 ORDER BY c.status DESC, c.created_at DESC`, projectID)
}

var FULL_ATTACHMENT_SELECT_QUERY = `
SELECT
	a.attachment_id, a.item_id, a.filename, a.storage_path, a.uploaded_by,
	a.uploaded_at
FROM checklist_attachments a
`

func (r *PgxChecklistRepository) getAttachments(ctx context.Context, filterQuery string, args ...any) ([]domain.ChecklistAttachment, error) {
	query := FULL_ATTACHMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checklist attachments", err)
	}
	defer rows.Close()
	attachments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ChecklistAttachment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ChecklistAttachment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect checklist attachment rows", err)
	}
	return attachments, nil
}

// FindAttachmentByID retrieves a single attachment.
func (r *PgxChecklistRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.ChecklistAttachment, error) {
	attachments, err := r.getAttachments(ctx, `WHERE a.attachment_id = $1`, attachmentID)
	if err != nil {
		return nil, err
	}
	if len(attachments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &attachments[0], nil
}

// FindAttachmentsByItem lists an item's attachments in upload order.
func (r *PgxChecklistRepository) FindAttachmentsByItem(ctx context.Context, itemID string) ([]domain.ChecklistAttachment, error) {
	return r.getAttachments(ctx, `WHERE a.item_id = $1 ORDER BY a.uploaded_at ASC`, itemID)
}

// SaveItem inserts a task plus its audit record in one transaction.
func (r *PgxChecklistRepository) SaveItem(ctx context.Context, item domain.ChecklistItem, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO checklist_items (
			item_id, project_id, title, description, assignee_id, status,
			deadline, completed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		item.ItemID,
		item.ProjectID,
		item.Title,
		item.Description,
		item.AssigneeID,
		string(item.Status),
		item.Deadline,
		item.CompletedAt,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert checklist item "+item.ItemID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveAttachment inserts an attachment plus its audit record in one
// transaction.
func (r *PgxChecklistRepository) SaveAttachment(ctx context.Context, attachment domain.ChecklistAttachment, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO checklist_attachments (
			attachment_id, item_id, filename, storage_path, uploaded_by, uploaded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, query,
		attachment.AttachmentID,
		attachment.ItemID,
		attachment.Filename,
		attachment.StoragePath,
		attachment.UploadedBy,
		attachment.UploadedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert attachment "+attachment.AttachmentID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteAttachment removes an attachment plus writes its audit record in
// one transaction.
func (r *PgxChecklistRepository) DeleteAttachment(ctx context.Context, attachmentID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM checklist_attachments WHERE attachment_id = $1`, attachmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete attachment "+attachmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateItem updates a task plus its audit record in one transaction.
func (r *PgxChecklistRepository) UpdateItem(ctx context.Context, item domain.ChecklistItem, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE checklist_items
		SET title = $2, description = $3, assignee_id = $4, status = $5,
			deadline = $6, completed_at = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE item_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		item.ItemID,
		item.Title,
		item.Description,
		item.AssigneeID,
		string(item.Status),
		item.Deadline,
		item.CompletedAt,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update checklist item "+item.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteItem removes a task plus writes its audit record in one
// transaction.
func (r *PgxChecklistRepository) DeleteItem(ctx context.Context, itemID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM checklist_items WHERE item_id = $1`, itemID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete checklist item "+itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
