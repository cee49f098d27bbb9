package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Inventory DTOs ---

// CreateInventoryItemRequest defines data for registering a tool or material.
// ProjectID is optional; when omitted the item lands in the default stock
// project.
type CreateInventoryItemRequest struct {
	ProjectID   *string         `json:"projectID"`
	Kind        string          `json:"kind" binding:"required,oneof=TOOL MATERIAL"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitCost    decimal.Decimal `json:"unitCost"`
}

// UpdateInventoryItemRequest defines data for updating an inventory item.
type UpdateInventoryItemRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Quantity       *int             `json:"quantity" binding:"omitempty,gt=0"`
	UnitCost       *decimal.Decimal `json:"unitCost"`
	MovementStatus *string          `json:"movementStatus" binding:"omitempty,oneof=IN_STOCK ON_SITE IN_USE"`
}

// MoveInventoryItemRequest defines data for moving an item to another project.
type MoveInventoryItemRequest struct {
	TargetProjectID string `json:"targetProjectID" binding:"required"`
}

// InventoryItemResponse defines data returned for an inventory item.
type InventoryItemResponse struct {
	ItemID         string          `json:"itemID"`
	ProjectID      string          `json:"projectID"`
	Kind           string          `json:"kind"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	MovementStatus string          `json:"movementStatus"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToInventoryItemResponse converts domain.InventoryItem to DTO.
func ToInventoryItemResponse(item *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ItemID:         item.ItemID,
		ProjectID:      item.ProjectID,
		Kind:           string(item.Kind),
		Name:           item.Name,
		Description:    item.Description,
		Quantity:       item.Quantity,
		UnitCost:       item.UnitCost,
		MovementStatus: string(item.MovementStatus),
		CreatedAt:      item.CreatedAt,
	}
}

// ListInventoryItemsResponse wraps the list of inventory items.
type ListInventoryItemsResponse struct {
	Items []InventoryItemResponse `json:"items"`
}

// ToListInventoryItemsResponse converts a slice of domain.InventoryItem to DTO.
func ToListInventoryItemsResponse(items []domain.InventoryItem) ListInventoryItemsResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToInventoryItemResponse(&item)
	}
	return ListInventoryItemsResponse{Items: responses}
}
