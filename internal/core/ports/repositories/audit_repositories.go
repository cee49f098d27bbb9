package repositories

import (
	"context"
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// AuditWriter defines the append operation for the audit trail. Mutating
// repositories write their own records transactionally; this standalone
// writer exists for collaborators that record actions with no accompanying
// row mutation.
type AuditWriter interface {
	// SaveAuditRecord appends a single record to the audit trail.
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}

// AuditReader defines read operations over the audit trail. All listings
// return newest records first; before is an exclusive upper bound on the
// record timestamp (zero time means no bound).
type AuditReader interface {
	// FindRecordsByResource retrieves the history of one resource.
	FindRecordsByResource(ctx context.Context, resourceKind string, resourceID string, limit int, before time.Time) ([]domain.AuditRecord, error)

	// FindRecordsByActor retrieves the actions performed by one user.
	FindRecordsByActor(ctx context.Context, actorID string, limit int, before time.Time) ([]domain.AuditRecord, error)

	// FindRecords retrieves the global audit feed.
	FindRecords(ctx context.Context, limit int, before time.Time) ([]domain.AuditRecord, error)
}

// AuditRepositoryFacade combines all audit-related repository interfaces
type AuditRepositoryFacade interface {
	AuditWriter
	AuditReader
}
