package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// --- Checklist DTOs ---

// CreateChecklistItemRequest defines data for adding a checklist task.
type CreateChecklistItemRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  *string    `json:"assigneeID"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateChecklistItemRequest defines data for updating a checklist task.
type UpdateChecklistItemRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssigneeID  *string    `json:"assigneeID"`
	Status      *string    `json:"status" binding:"omitempty,oneof=PENDING DONE"`
	Deadline    *time.Time `json:"deadline"`
}

// ChecklistItemResponse defines data returned for a checklist task.
type ChecklistItemResponse struct {
	ItemID      string     `json:"itemID"`
	ProjectID   string     `json:"projectID"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  *string    `json:"assigneeID,omitempty"`
	Status      string     `json:"status"`
	Overdue     bool       `json:"overdue"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToChecklistItemResponse converts domain.ChecklistItem to DTO, deriving the
// overdue flag at now.
func ToChecklistItemResponse(item *domain.ChecklistItem, now time.Time) ChecklistItemResponse {
	return ChecklistItemResponse{
		ItemID:      item.ItemID,
		ProjectID:   item.ProjectID,
		Title:       item.Title,
		Description: item.Description,
		AssigneeID:  item.AssigneeID,
		Status:      string(item.Status),
		Overdue:     item.IsOverdue(now),
		Deadline:    item.Deadline,
		CompletedAt: item.CompletedAt,
		CreatedAt:   item.CreatedAt,
	}
}

// ChecklistAttachmentResponse defines data returned for an item attachment.
type ChecklistAttachmentResponse struct {
	AttachmentID string    `json:"attachmentID"`
	ItemID       string    `json:"itemID"`
	Filename     string    `json:"filename"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// ToChecklistAttachmentResponse converts domain.ChecklistAttachment to DTO.
func ToChecklistAttachmentResponse(a *domain.ChecklistAttachment) ChecklistAttachmentResponse {
	return ChecklistAttachmentResponse{
		AttachmentID: a.AttachmentID,
		ItemID:       a.ItemID,
		Filename:     a.Filename,
		UploadedBy:   a.UploadedBy,
		UploadedAt:   a.UploadedAt,
	}
}

// ListChecklistAttachmentsResponse wraps an item's attachments.
type ListChecklistAttachmentsResponse struct {
	Attachments []ChecklistAttachmentResponse `json:"attachments"`
}

// ToListChecklistAttachmentsResponse converts a slice of attachments to DTO.
func ToListChecklistAttachmentsResponse(attachments []domain.ChecklistAttachment) ListChecklistAttachmentsResponse {
	responses := make([]ChecklistAttachmentResponse, len(attachments))
	for i, a := range attachments {
		responses[i] = ToChecklistAttachmentResponse(&a)
	}
	return ListChecklistAttachmentsResponse{Attachments: responses}
}

// ListChecklistItemsResponse wraps the list of checklist tasks.
type ListChecklistItemsResponse struct {
	Items []ChecklistItemResponse `json:"items"`
}

// ToListChecklistItemsResponse converts a slice of domain.ChecklistItem to DTO.
func ToListChecklistItemsResponse(items []domain.ChecklistItem, now time.Time) ListChecklistItemsResponse {
	responses := make([]ChecklistItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToChecklistItemResponse(&item, now)
	}
	return ListChecklistItemsResponse{Items: responses}
}
