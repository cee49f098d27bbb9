package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// ChecklistReader defines read operations for checklist data
type ChecklistReader interface {
	// FindItemByID retrieves a specific checklist item by its ID.
	FindItemByID(ctx context.Context, itemID string) (*domain.ChecklistItem, error)

	// FindItemsByProject retrieves all checklist items of a project.
	FindItemsByProject(ctx context.Context, projectID string) ([]domain.ChecklistItem, error)

	// FindAttachmentByID retrieves a specific attachment by its ID.
	FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.ChecklistAttachment, error)

	// FindAttachmentsByItem retrieves an item's attachments.
	FindAttachmentsByItem(ctx context.Context, itemID string) ([]domain.ChecklistAttachment, error)
}

// ChecklistWriter defines write operations for checklist data.
// Mutations persist the audit record in the same transaction.
type ChecklistWriter interface {
	// SaveItem persists a new checklist item.
	SaveItem(ctx context.Context, item domain.ChecklistItem, audit domain.AuditRecord) error

	// UpdateItem updates an existing checklist item.
	UpdateItem(ctx context.Context, item domain.ChecklistItem, audit domain.AuditRecord) error

	// DeleteItem removes a checklist item.
	DeleteItem(ctx context.Context, itemID string, audit domain.AuditRecord) error

	// SaveAttachment persists a new attachment on a checklist item.
	SaveAttachment(ctx context.Context, attachment domain.ChecklistAttachment, audit domain.AuditRecord) error

	// DeleteAttachment removes an attachment.
	DeleteAttachment(ctx context.Context, attachmentID string, audit domain.AuditRecord) error
}

// ChecklistRepositoryFacade combines all checklist-related repository interfaces
type ChecklistRepositoryFacade interface {
	ChecklistReader
	ChecklistWriter
}
