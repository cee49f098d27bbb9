package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectStatus defines the lifecycle state of a construction project.
type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectOnHold     ProjectStatus = "ON_HOLD"
)

// Project represents a construction project and is the owning aggregate for
// its ledger entries, staffing, inventory, checklist and documents.
//
// InitialBudget is set once at creation and never changes. CurrentBudget is
// derived state: it must always equal InitialBudget plus the sum of active
// credit entries minus the sum of active debit entries. Only the ledger
// repository mutates it, inside the same transaction that writes the entry.
type Project struct {
	ProjectID      string          `json:"projectID" db:"project_id"`
	Name           string          `json:"name" db:"name"`
	Address        string          `json:"address" db:"address"`
	Owner          string          `json:"owner" db:"owner"`
	InitialBudget  decimal.Decimal `json:"initialBudget" db:"initial_budget"`
	CurrentBudget  decimal.Decimal `json:"currentBudget" db:"current_budget"`
	Status         ProjectStatus   `json:"status" db:"status"`
	IsStockDefault bool            `json:"isStockDefault" db:"is_stock_default"` // Marks the warehouse project that receives unassigned inventory
	AuditFields
}
