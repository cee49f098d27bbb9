package domain

import "time"

// ChecklistStatus is the stored state of a checklist item. Overdue is a
// derived display state, not a stored one.
type ChecklistStatus string

const (
	ChecklistPending ChecklistStatus = "PENDING"
	ChecklistDone    ChecklistStatus = "DONE"
)

// ChecklistItem is a task on a project's checklist, optionally assigned to a
// user and optionally carrying a deadline.
type ChecklistItem struct {
	ItemID      string          `json:"itemID" db:"item_id"`
	ProjectID   string          `json:"projectID" db:"project_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	AssigneeID  *string         `json:"assigneeID,omitempty" db:"assignee_id"`
	Status      ChecklistStatus `json:"status" db:"status"`
	Deadline    *time.Time      `json:"deadline,omitempty" db:"deadline"`
	CompletedAt *time.Time      `json:"completedAt,omitempty" db:"completed_at"`
	AuditFields
}

// IsOverdue reports whether a pending item has passed its deadline.
func (i ChecklistItem) IsOverdue(now time.Time) bool {
	return i.Status == ChecklistPending && i.Deadline != nil && i.Deadline.Before(now)
}

// ChecklistAttachment is a photo attached to a checklist item as evidence
// the task was done. The image bytes live on disk; this row tracks the
// reference.
type ChecklistAttachment struct {
	AttachmentID string    `json:"attachmentID" db:"attachment_id"`
	ItemID       string    `json:"itemID" db:"item_id"`
	Filename     string    `json:"filename" db:"filename"`
	StoragePath  string    `json:"-" db:"storage_path"`
	UploadedBy   string    `json:"uploadedBy" db:"uploaded_by"`
	UploadedAt   time.Time `json:"uploadedAt" db:"uploaded_at"`
}
