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

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document metadata.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

var FULL_DOCUMENT_SELECT_QUERY = `
SELECT
	d.document_id, d.project_id, d.filename, d.storage_path, d.kind,
	d.visibility, d.uploaded_by, d.uploaded_at
FROM documents d
`

func (r *PgxDocumentRepository) getDocuments(ctx context.Context, filterQuery string, args ...any) ([]domain.Document, error) {
	query := FULL_DOCUMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query documents", err)
	}
	defer rows.Close()
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Document])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Document{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect document rows", err)
	}
	return docs, nil
}

// FindDocumentByID retrieves a single document's metadata.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	docs, err := r.getDocuments(ctx, `WHERE d.document_id = $1`, documentID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &docs[0], nil
}

// FindDocumentsByProject lists documents for one project, or company-wide
// ones when projectID is nil.
func (r *PgxDocumentRepository) FindDocumentsByProject(ctx context.Context, projectID *string, includeManagerOnly bool) ([]domain.Document, error) {
	visibilityFilter := ``
	if !includeManagerOnly {
		visibilityFilter = ` AND d.visibility = 'EVERYONE'`
	}
	if projectID == nil {
		return r.getDocuments(ctx, `WHERE d.project_id IS NULL`+visibilityFilter+` ORDER BY d.uploaded_at DESC`)
	}
	return r.getDocuments(ctx, `WHERE d.project_id = $1`+visibilityFilter+` ORDER BY d.uploaded_at DESC`, *projectID)
}

// SaveDocument inserts metadata plus its audit record in one transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO documents (
			document_id, project_id, filename, storage_path, kind,
			visibility, uploaded_by, uploaded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		doc.DocumentID,
		doc.ProjectID,
		doc.Filename,
		doc.StoragePath,
		doc.Kind,
		string(doc.Visibility),
		doc.UploadedBy,
		doc.UploadedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert document "+doc.DocumentID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteDocument removes metadata plus writes its audit record in one
// transaction.
func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, documentID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM documents WHERE document_id = $1`, documentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete document "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
