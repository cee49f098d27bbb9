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

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory data.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

var FULL_INVENTORY_SELECT_QUERY = `
SELECT
	i.item_id, i.project_id, i.kind, i.name, i.description, i.quantity,
	i.unit_cost, i.movement_status,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
FROM inventory_items i
`

func (r *PgxInventoryRepository) getItems(ctx context.Context, filterQuery string, args ...any) ([]domain.InventoryItem, error) {
	query := FULL_INVENTORY_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query inventory items", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.InventoryItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.InventoryItem{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect inventory item rows", err)
	}
	return items, nil
}

// FindItemByID retrieves a single inventory item.
func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	items, err := r.getItems(ctx, `WHERE i.item_id = $1`, itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

// FindItemsByProject lists a project's inventory.
func (r *PgxInventoryRepository) FindItemsByProject(ctx context.Context, projectID string) ([]domain.InventoryItem, error) {
	return r.getItems(ctx, `WHERE i.project_id = $1 ORDER BY i.name ASC`, projectID)
}

// SaveItem inserts an item plus its audit record in one transaction.
func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO inventory_items (
			item_id, project_id, kind, name, description, quantity,
			unit_cost, movement_status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		item.ItemID,
		item.ProjectID,
		string(item.Kind),
		item.Name,
		item.Description,
		item.Quantity,
		item.UnitCost,
		string(item.MovementStatus),
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert inventory item "+item.ItemID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateItem updates an item (including project moves) plus its audit
// record in one transaction.
func (r *PgxInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE inventory_items
		SET project_id = $2, name = $3, description = $4, quantity = $5,
			unit_cost = $6, movement_status = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE item_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		item.ItemID,
		item.ProjectID,
		item.Name,
		item.Description,
		item.Quantity,
		item.UnitCost,
		string(item.MovementStatus),
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update inventory item "+item.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteItem removes an item plus writes its audit record in one
// transaction.
func (r *PgxInventoryRepository) DeleteItem(ctx context.Context, itemID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1`, itemID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete inventory item "+itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
