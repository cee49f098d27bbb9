package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// DocumentReader defines read operations for document metadata
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document by its ID.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// FindDocumentsByProject retrieves a project's documents; a nil
	// projectID selects company-wide documents. includeManagerOnly controls
	// whether MANAGERS-visibility documents are returned.
	FindDocumentsByProject(ctx context.Context, projectID *string, includeManagerOnly bool) ([]domain.Document, error)
}

// DocumentWriter defines write operations for document metadata.
// Mutations persist the audit record in the same transaction.
type DocumentWriter interface {
	// SaveDocument persists new document metadata.
	SaveDocument(ctx context.Context, doc domain.Document, audit domain.AuditRecord) error

	// DeleteDocument removes document metadata.
	DeleteDocument(ctx context.Context, documentID string, audit domain.AuditRecord) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
