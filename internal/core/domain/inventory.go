package domain

import (
	"github.com/shopspring/decimal"
)

// InventoryKind distinguishes durable tools from consumable materials.
type InventoryKind string

const (
	InventoryTool     InventoryKind = "TOOL"
	InventoryMaterial InventoryKind = "MATERIAL"
)

// MovementStatus tracks where an inventory item currently is.
type MovementStatus string

const (
	MovementInStock MovementStatus = "IN_STOCK"
	MovementOnSite  MovementStatus = "ON_SITE"
	MovementInUse   MovementStatus = "IN_USE"
)

// InventoryItem is a tool or material batch held against a project.
type InventoryItem struct {
	ItemID         string          `json:"itemID" db:"item_id"`
	ProjectID      string          `json:"projectID" db:"project_id"`
	Kind           InventoryKind   `json:"kind" db:"kind"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	Quantity       int             `json:"quantity" db:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost" db:"unit_cost"`
	MovementStatus MovementStatus  `json:"movementStatus" db:"movement_status"`
	AuditFields
}
