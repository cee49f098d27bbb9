package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// LedgerReader defines read operations for ledger entry data
type LedgerReader interface {
	// FindEntryByID retrieves a specific ledger entry by its ID.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindEntriesByProject retrieves a paginated list of a project's entries,
	// optionally filtered by status (empty string means all). Active entries
	// sort before cancelled ones, newest first within each group.
	FindEntriesByProject(ctx context.Context, projectID string, status string, limit int, offset int) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines write operations for ledger entry data.
// Both mutations run in a single transaction that locks the owning project
// row, writes the entry, adjusts the project's current budget and persists
// the audit record. Any failure rolls the whole thing back.
type LedgerWriter interface {
	// SaveEntry persists a new ledger entry and applies its budget delta.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry, audit domain.AuditRecord) error

	// CancelEntry marks an entry cancelled and reverses its budget effect.
	// The entry carries the cancellation fields already filled in.
	CancelEntry(ctx context.Context, entry domain.LedgerEntry, audit domain.AuditRecord) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends the facade with transaction management
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	RepositoryWithTx
}
