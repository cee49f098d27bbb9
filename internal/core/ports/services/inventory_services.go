package services

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// InventoryReaderSvc defines read operations for inventory
type InventoryReaderSvc interface {
	// ListItems retrieves a project's inventory items.
	ListItems(ctx context.Context, projectID string, requestingUserID string) ([]domain.InventoryItem, error)
}

// InventoryWriterSvc defines write operations for inventory
type InventoryWriterSvc interface {
	// CreateItem registers a tool or material batch. When the request has
	// no project the item lands in the default stock project.
	CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest, creatorUserID string) (*domain.InventoryItem, error)

	// UpdateItem updates an item's details or movement status.
	UpdateItem(ctx context.Context, itemID string, req dto.UpdateInventoryItemRequest, requestingUserID string) (*domain.InventoryItem, error)

	// MoveItem transfers an item to another project.
	MoveItem(ctx context.Context, itemID string, req dto.MoveInventoryItemRequest, requestingUserID string) (*domain.InventoryItem, error)

	// DeleteItem removes an item.
	DeleteItem(ctx context.Context, itemID string, requestingUserID string) error
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
