package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// InventoryReader defines read operations for inventory data
type InventoryReader interface {
	// FindItemByID retrieves a specific inventory item by its ID.
	FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// FindItemsByProject retrieves all inventory items held by a project.
	FindItemsByProject(ctx context.Context, projectID string) ([]domain.InventoryItem, error)
}

// InventoryWriter defines write operations for inventory data.
// Mutations persist the audit record in the same transaction.
type InventoryWriter interface {
	// SaveItem persists a new inventory item.
	SaveItem(ctx context.Context, item domain.InventoryItem, audit domain.AuditRecord) error

	// UpdateItem updates an existing inventory item, including moves
	// between projects (the item carries its new project ID).
	UpdateItem(ctx context.Context, item domain.InventoryItem, audit domain.AuditRecord) error

	// DeleteItem removes an inventory item.
	DeleteItem(ctx context.Context, itemID string, audit domain.AuditRecord) error
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}
