package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// attachmentImageExts are the image formats accepted as task evidence.
var attachmentImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// checklistService manages per-project task checklists and their photo
// attachments.
type checklistService struct {
	BaseService
	checklistRepo portsrepo.ChecklistRepositoryFacade
	projectRepo   portsrepo.ProjectReader
	userRepo      portsrepo.UserReader
	access        portssvc.AccessGate
	uploadDir     string
}

// NewChecklistService creates a new ChecklistService storing attachment
// images under uploadDir.
func NewChecklistService(checklistRepo portsrepo.ChecklistRepositoryFacade, projectRepo portsrepo.ProjectReader, userRepo portsrepo.UserReader, access portssvc.AccessGate, uploadDir string) portssvc.ChecklistSvcFacade {
	return &checklistService{
		checklistRepo: checklistRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		access:        access,
		uploadDir:     filepath.Join(uploadDir, "checklist"),
	}
}

var _ portssvc.ChecklistSvcFacade = (*checklistService)(nil)

// CreateItem adds a task to a project's checklist.
func (s *checklistService) CreateItem(ctx context.Context, projectID string, req dto.CreateChecklistItemRequest, creatorUserID string) (*domain.ChecklistItem, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, creatorUserID, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrMissingField)
	}
	if req.AssigneeID != nil && *req.AssigneeID != "" {
		if _, err := s.userRepo.FindUserByID(ctx, *req.AssigneeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, *req.AssigneeID)
			}
			return nil, fmt.Errorf("failed to fetch assignee: %w", err)
		}
	}

	now := time.Now().UTC()
	item := domain.ChecklistItem{
		ItemID:      uuid.NewString(),
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      domain.ChecklistPending,
		Deadline:    req.Deadline,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &creatorUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceChecklistItem,
		ResourceID:   item.ItemID,
		Details: map[string]any{
			"projectID": projectID,
			"title":     req.Title,
		},
		Timestamp: now,
	}

	if err := s.checklistRepo.SaveItem(ctx, item, audit); err != nil {
		s.LogError(ctx, err, "failed to save checklist item", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to save checklist item: %w", err)
	}
	return &item, nil
}

// UpdateItem applies partial updates; marking a task DONE stamps the
// completion time, and reopening clears it.
func (s *checklistService) UpdateItem(ctx context.Context, projectID string, itemID string, req dto.UpdateChecklistItemRequest, requestingUserID string) (*domain.ChecklistItem, error) {
	item, err := s.checklistRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: checklist item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to fetch checklist item: %w", err)
	}
	if item.ProjectID != projectID {
		return nil, fmt.Errorf("%w: checklist item %s", apperrors.ErrNotFound, itemID)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	before := map[string]any{}
	after := map[string]any{}
	updated := *item

	if req.Title != nil && *req.Title != item.Title {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrMissingField)
		}
		before["title"] = item.Title
		after["title"] = *req.Title
		updated.Title = *req.Title
	}
	if req.Description != nil && *req.Description != item.Description {
		before["description"] = item.Description
		after["description"] = *req.Description
		updated.Description = *req.Description
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID != "" {
			if _, err := s.userRepo.FindUserByID(ctx, *req.AssigneeID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, *req.AssigneeID)
				}
				return nil, fmt.Errorf("failed to fetch assignee: %w", err)
			}
		}
		before["assigneeID"] = item.AssigneeID
		after["assigneeID"] = *req.AssigneeID
		updated.AssigneeID = req.AssigneeID
	}
	if req.Deadline != nil {
		before["deadline"] = item.Deadline
		after["deadline"] = *req.Deadline
		updated.Deadline = req.Deadline
	}
	if req.Status != nil {
		newStatus := domain.ChecklistStatus(strings.ToUpper(*req.Status))
		if newStatus != domain.ChecklistPending && newStatus != domain.ChecklistDone {
			return nil, fmt.Errorf("%w: %q is not a checklist status", apperrors.ErrValidation, *req.Status)
		}
		if newStatus != item.Status {
			before["status"] = string(item.Status)
			after["status"] = string(newStatus)
			updated.Status = newStatus
			if newStatus == domain.ChecklistDone {
				updated.CompletedAt = &now
			} else {
				updated.CompletedAt = nil
			}
		}
	}

	if len(after) == 0 {
		return item, nil
	}

	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceChecklistItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"before": before,
			"after":  after,
		},
		Timestamp: now,
	}

	if err := s.checklistRepo.UpdateItem(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to update checklist item", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}
	return &updated, nil
}

// DeleteItem removes a task.
func (s *checklistService) DeleteItem(ctx context.Context, projectID string, itemID string, requestingUserID string) error {
	item, err := s.checklistRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: checklist item %s", apperrors.ErrNotFound, itemID)
		}
		return fmt.Errorf("failed to fetch checklist item: %w", err)
	}
	if item.ProjectID != projectID {
		return fmt.Errorf("%w: checklist item %s", apperrors.ErrNotFound, itemID)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return err
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceChecklistItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"projectID": projectID,
			"title":     item.Title,
			"status":    string(item.Status),
		},
		Timestamp: time.Now().UTC(),
	}

	if err := s.checklistRepo.DeleteItem(ctx, itemID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete checklist item", slog.String("item_id", itemID))
		return fmt.Errorf("failed to delete checklist item: %w", err)
	}
	return nil
}

// findItemInProject fetches an item and hides its existence when it belongs
// to a different project.
func (s *checklistService) findItemInProject(ctx context.Context, projectID string, itemID string) (*domain.ChecklistItem, error) {
	item, err := s.checklistRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: checklist item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to fetch checklist item: %w", err)
	}
	if item.ProjectID != projectID {
		return nil, fmt.Errorf("%w: checklist item %s", apperrors.ErrNotFound, itemID)
	}
	return item, nil
}

// AddAttachment stores a photo as evidence the task was done. The audit
// record lands on the checklist item, naming the new attachment.
func (s *checklistService) AddAttachment(ctx context.Context, projectID string, itemID string, filename string, content io.Reader, uploaderUserID string) (*domain.ChecklistAttachment, error) {
	item, err := s.findItemInProject(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeProjectWrite(ctx, uploaderUserID, projectID); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !attachmentImageExts[ext] {
		return nil, fmt.Errorf("%w: %q is not an accepted image type", apperrors.ErrValidation, ext)
	}

	now := time.Now().UTC()
	attachment := domain.ChecklistAttachment{
		AttachmentID: uuid.NewString(),
		ItemID:       itemID,
		Filename:     filepath.Base(filename),
		UploadedBy:   uploaderUserID,
		UploadedAt:   now,
	}
	storagePath := filepath.Join(s.uploadDir, attachment.AttachmentID+ext)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	f, err := os.Create(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(storagePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(storagePath)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	attachment.StoragePath = storagePath

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &uploaderUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceChecklistItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"attachmentID": attachment.AttachmentID,
			"filename":     attachment.Filename,
			"title":        item.Title,
		},
		Timestamp: now,
	}

	if err := s.checklistRepo.SaveAttachment(ctx, attachment, audit); err != nil {
		os.Remove(storagePath)
		s.LogError(ctx, err, "failed to save attachment", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}
	return &attachment, nil
}

// RemoveAttachment removes the attachment row, then the stored file.
func (s *checklistService) RemoveAttachment(ctx context.Context, projectID string, itemID string, attachmentID string, requestingUserID string) error {
	if _, err := s.findItemInProject(ctx, projectID, itemID); err != nil {
		return err
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return err
	}
	attachment, err := s.checklistRepo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: attachment %s", apperrors.ErrNotFound, attachmentID)
		}
		return fmt.Errorf("failed to fetch attachment: %w", err)
	}
	if attachment.ItemID != itemID {
		return fmt.Errorf("%w: attachment %s", apperrors.ErrNotFound, attachmentID)
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceChecklistItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"attachmentID": attachmentID,
			"filename":     attachment.Filename,
		},
		Timestamp: time.Now().UTC(),
	}

	if err := s.checklistRepo.DeleteAttachment(ctx, attachmentID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete attachment", slog.String("attachment_id", attachmentID))
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := os.Remove(attachment.StoragePath); err != nil && !os.IsNotExist(err) {
		s.LogWarn(ctx, "failed to remove attachment file", slog.String("path", attachment.StoragePath), slog.String("error", err.Error()))
	}
	return nil
}

// ListAttachments returns an item's photo attachments.
func (s *checklistService) ListAttachments(ctx context.Context, projectID string, itemID string, requestingUserID string) ([]domain.ChecklistAttachment, error) {
	if _, err := s.findItemInProject(ctx, projectID, itemID); err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	attachments, err := s.checklistRepo.FindAttachmentsByItem(ctx, itemID)
	if err != nil {
		s.LogError(ctx, err, "failed to list attachments", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// OpenAttachment streams one stored attachment image.
func (s *checklistService) OpenAttachment(ctx context.Context, projectID string, itemID string, attachmentID string, requestingUserID string) (*domain.ChecklistAttachment, io.ReadCloser, error) {
	if _, err := s.findItemInProject(ctx, projectID, itemID); err != nil {
		return nil, nil, err
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, nil, err
	}
	attachment, err := s.checklistRepo.FindAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: attachment %s", apperrors.ErrNotFound, attachmentID)
		}
		return nil, nil, fmt.Errorf("failed to fetch attachment: %w", err)
	}
	if attachment.ItemID != itemID {
		return nil, nil, fmt.Errorf("%w: attachment %s", apperrors.ErrNotFound, attachmentID)
	}
	f, err := os.Open(attachment.StoragePath)
	if err != nil {
		s.LogError(ctx, err, "stored attachment missing", slog.String("attachment_id", attachmentID), slog.String("path", attachment.StoragePath))
		return nil, nil, fmt.Errorf("%w: stored file unavailable", apperrors.ErrInternal)
	}
	return attachment, f, nil
}

// ListItems returns a project's checklist tasks.
func (s *checklistService) ListItems(ctx context.Context, projectID string, requestingUserID string) ([]domain.ChecklistItem, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	items, err := s.checklistRepo.FindItemsByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "failed to list checklist items", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	return items, nil
}
