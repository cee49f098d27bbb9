package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// --- Document DTOs ---

// CreateDocumentRequest defines metadata for registering an uploaded file.
// ProjectID is nil for company-wide documents.
type CreateDocumentRequest struct {
	ProjectID  *string `json:"projectID"`
	Filename   string  `json:"filename" binding:"required"`
	Kind       string  `json:"kind"`
	Visibility string  `json:"visibility" binding:"omitempty,oneof=EVERYONE MANAGERS"`
}

// DocumentResponse defines data returned for a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentID"`
	ProjectID  *string   `json:"projectID,omitempty"`
	Filename   string    `json:"filename"`
	Kind       string    `json:"kind,omitempty"`
	Visibility string    `json:"visibility"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ToDocumentResponse converts domain.Document to DTO. The storage path stays
// server-side; clients fetch content through the download endpoint.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: d.DocumentID,
		ProjectID:  d.ProjectID,
		Filename:   d.Filename,
		Kind:       d.Kind,
		Visibility: string(d.Visibility),
		UploadedBy: d.UploadedBy,
		UploadedAt: d.UploadedAt,
	}
}

// ListDocumentsResponse wraps the list of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ToListDocumentsResponse converts a slice of domain.Document to DTO.
func ToListDocumentsResponse(docs []domain.Document) ListDocumentsResponse {
	responses := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = ToDocumentResponse(&d)
	}
	return ListDocumentsResponse{Documents: responses}
}
