package domain

import "time"

// ActionKind classifies the mutation an audit record describes.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
	ActionCancel ActionKind = "cancel"
	ActionLogin  ActionKind = "login"
	ActionRead   ActionKind = "read"
)

// Well-known resource kinds. The audit trail is schema-less on purpose, so
// these are just the tags the core's own services use; collaborators may
// record other kinds without touching this package.
const (
	ResourceProject         = "Project"
	ResourceLedgerEntry     = "LedgerEntry"
	ResourceUser            = "User"
	ResourceStaffAssignment = "StaffAssignment"
	ResourceInventoryItem   = "InventoryItem"
	ResourceChecklistItem   = "ChecklistItem"
	ResourceDocument        = "Document"
	ResourceListing         = "Listing"
)

// AuditRecord is one immutable row of the append-only audit trail. ActorID is
// nil for system-initiated mutations. Details carries the semantically
// relevant delta: before/after maps for updates, a snapshot for creates and
// deletes; the recorder itself never interprets its shape.
type AuditRecord struct {
	RecordID     string         `json:"recordID" db:"record_id"`
	ActorID      *string        `json:"actorID,omitempty" db:"actor_id"`
	ActionKind   ActionKind     `json:"actionKind" db:"action_kind"`
	ResourceKind string         `json:"resourceKind" db:"resource_kind"`
	ResourceID   string         `json:"resourceID" db:"resource_id"`
	Details      map[string]any `json:"details,omitempty" db:"details"`
	Timestamp    time.Time      `json:"timestamp" db:"timestamp"`
}
