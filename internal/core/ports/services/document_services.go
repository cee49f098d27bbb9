package services

import (
	"context"
	"io"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// DocumentReaderSvc defines read operations for documents
type DocumentReaderSvc interface {
	// ListDocuments retrieves a project's documents, filtered by the
	// requesting user's visibility. A nil projectID lists company-wide
	// documents.
	ListDocuments(ctx context.Context, projectID *string, requestingUserID string) ([]domain.Document, error)

	// OpenDocument returns the stored file content for streaming. Every
	// download is recorded in the audit trail.
	OpenDocument(ctx context.Context, documentID string, requestingUserID string) (*domain.Document, io.ReadCloser, error)
}

// DocumentWriterSvc defines write operations for documents
type DocumentWriterSvc interface {
	// SaveDocument stores the uploaded content and registers its metadata.
	SaveDocument(ctx context.Context, req dto.CreateDocumentRequest, content io.Reader, uploaderUserID string) (*domain.Document, error)

	// DeleteDocument removes a document's metadata and stored content.
	DeleteDocument(ctx context.Context, documentID string, requestingUserID string) error
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
