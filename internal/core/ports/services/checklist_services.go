package services

import (
	"context"
	"io"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// ChecklistReaderSvc defines read operations for checklist tasks
type ChecklistReaderSvc interface {
	// ListItems retrieves a project's checklist tasks.
	ListItems(ctx context.Context, projectID string, requestingUserID string) ([]domain.ChecklistItem, error)

	// ListAttachments retrieves an item's photo attachments.
	ListAttachments(ctx context.Context, projectID string, itemID string, requestingUserID string) ([]domain.ChecklistAttachment, error)

	// OpenAttachment streams one stored attachment image.
	OpenAttachment(ctx context.Context, projectID string, itemID string, attachmentID string, requestingUserID string) (*domain.ChecklistAttachment, io.ReadCloser, error)
}

// ChecklistWriterSvc defines write operations for checklist tasks
type ChecklistWriterSvc interface {
	// CreateItem adds a task to a project's checklist.
	CreateItem(ctx context.Context, projectID string, req dto.CreateChecklistItemRequest, creatorUserID string) (*domain.ChecklistItem, error)

	// UpdateItem updates a task; marking it DONE stamps the completion time.
	UpdateItem(ctx context.Context, projectID string, itemID string, req dto.UpdateChecklistItemRequest, requestingUserID string) (*domain.ChecklistItem, error)

	// DeleteItem removes a task.
	DeleteItem(ctx context.Context, projectID string, itemID string, requestingUserID string) error

	// AddAttachment stores a photo on a task as completion evidence.
	AddAttachment(ctx context.Context, projectID string, itemID string, filename string, content io.Reader, uploaderUserID string) (*domain.ChecklistAttachment, error)

	// RemoveAttachment removes one attachment.
	RemoveAttachment(ctx context.Context, projectID string, itemID string, attachmentID string, requestingUserID string) error
}

// ChecklistSvcFacade combines all checklist-related service interfaces
type ChecklistSvcFacade interface {
	ChecklistReaderSvc
	ChecklistWriterSvc
}
