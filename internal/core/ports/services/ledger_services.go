package services

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger data
type LedgerReaderSvc interface {
	// GetEntryByID retrieves a specific ledger entry.
	GetEntryByID(ctx context.Context, projectID string, entryID string, requestingUserID string) (*domain.LedgerEntry, error)

	// ListEntries retrieves a project's entries alongside its budget figures.
	ListEntries(ctx context.Context, projectID string, requestingUserID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}

// LedgerWriterSvc defines write operations for ledger data
type LedgerWriterSvc interface {
	// CreateEntry records a credit or debit against a project and applies
	// its effect to the project's current budget.
	CreateEntry(ctx context.Context, projectID string, req dto.CreateLedgerEntryRequest, creatorUserID string) (*domain.LedgerEntry, error)

	// CancelEntry marks an active entry cancelled, reversing its budget
	// effect. Cancelling an already cancelled entry is a conflict.
	CancelEntry(ctx context.Context, projectID string, entryID string, reason string, requestingUserID string) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
