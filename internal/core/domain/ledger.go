package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry adds money to or removes money
// from a project's budget.
type EntryType string

const (
	Credit EntryType = "CREDIT"
	Debit  EntryType = "DEBIT"
)

// EntryStatus is the lifecycle state of a ledger entry. The only legal
// transition is EntryActive -> EntryCancelled; a cancelled entry stays
// cancelled forever.
type EntryStatus string

const (
	EntryActive    EntryStatus = "ACTIVE"
	EntryCancelled EntryStatus = "CANCELLED"
)

// LedgerEntry represents a single monetary movement against one project.
// Entries are never physically deleted on their own; they only disappear
// when their owning project is deleted with its whole subtree.
type LedgerEntry struct {
	EntryID     string          `json:"entryID" db:"entry_id"`
	ProjectID   string          `json:"projectID" db:"project_id"`
	EntryType   EntryType       `json:"entryType" db:"entry_type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"` // Always positive; sign comes from EntryType
	Description string          `json:"description" db:"description"`
	Status      EntryStatus     `json:"status" db:"status"`

	// Cancellation metadata, only set when Status is EntryCancelled.
	CancelledBy        *string    `json:"cancelledBy,omitempty" db:"cancelled_by"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancellationReason *string    `json:"cancellationReason,omitempty" db:"cancellation_reason"`

	AuditFields
}

// BudgetDelta returns the signed effect this entry has on the owning
// project's current budget at creation time.
func (e LedgerEntry) BudgetDelta() decimal.Decimal {
	if e.EntryType == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// ReversalDelta returns the signed budget adjustment that undoes this entry.
// Cancelling a credit takes its amount back out; cancelling a debit returns
// the amount to the budget.
func (e LedgerEntry) ReversalDelta() decimal.Decimal {
	return e.BudgetDelta().Neg()
}

// IsValidEntryType reports whether t is one of the known entry types.
func IsValidEntryType(t EntryType) bool {
	return t == Credit || t == Debit
}
