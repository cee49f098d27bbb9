package domain

import "time"

// DocumentVisibility restricts who can see a document's metadata.
type DocumentVisibility string

const (
	VisibilityEveryone DocumentVisibility = "EVERYONE"
	VisibilityManagers DocumentVisibility = "MANAGERS"
)

// Document is the metadata row for a file attached to a project. The file
// bytes themselves live in external storage; the core only tracks the
// reference and audits its lifecycle.
type Document struct {
	DocumentID string             `json:"documentID" db:"document_id"`
	ProjectID  *string            `json:"projectID,omitempty" db:"project_id"` // nil for company-wide documents
	Filename   string             `json:"filename" db:"filename"`
	StoragePath string            `json:"storagePath" db:"storage_path"`
	Kind       string             `json:"kind" db:"kind"` // free-form tag: contract, blueprint, invoice, ...
	Visibility DocumentVisibility `json:"visibility" db:"visibility"`
	UploadedBy string             `json:"uploadedBy" db:"uploaded_by"`
	UploadedAt time.Time          `json:"uploadedAt" db:"uploaded_at"`
}
