package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// --- Audit trail DTOs ---

// AuditRecordResponse defines data returned for one audit trail record.
type AuditRecordResponse struct {
	RecordID     string         `json:"recordID"`
	ActorID      *string        `json:"actorID,omitempty"`
	ActorName    string         `json:"actorName,omitempty"` // Resolved display name, "system" when ActorID is nil
	ActionKind   string         `json:"actionKind"`
	ResourceKind string         `json:"resourceKind"`
	ResourceID   string         `json:"resourceID"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// ToAuditRecordResponse converts domain.AuditRecord to DTO. actorName falls
// back to the actor id when the user row no longer exists.
func ToAuditRecordResponse(r *domain.AuditRecord, actorName string) AuditRecordResponse {
	return AuditRecordResponse{
		RecordID:     r.RecordID,
		ActorID:      r.ActorID,
		ActorName:    actorName,
		ActionKind:   string(r.ActionKind),
		ResourceKind: r.ResourceKind,
		ResourceID:   r.ResourceID,
		Details:      r.Details,
		Timestamp:    r.Timestamp,
	}
}

// ListAuditRecordsParams defines query parameters for listing audit records.
// NextToken is an opaque cursor over the timestamp ordering.
type ListAuditRecordsParams struct {
	Limit     int    `form:"limit,default=50"`
	NextToken string `form:"nextToken"`
}

// ListAuditRecordsResponse wraps a page of audit records.
type ListAuditRecordsResponse struct {
	Records   []AuditRecordResponse `json:"records"`
	NextToken string                `json:"nextToken,omitempty"`
}
