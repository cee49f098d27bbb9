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

// documentService stores uploaded files on local disk and tracks their
// metadata rows. Downloads are audited so the trail shows who read what.
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepositoryFacade
	projectRepo  portsrepo.ProjectReader
	access       portssvc.AccessGate
	auditSvc     portssvc.AuditRecorderSvc
	uploadDir    string
}

// NewDocumentService creates a new DocumentService writing files under
// uploadDir.
func NewDocumentService(documentRepo portsrepo.DocumentRepositoryFacade, projectRepo portsrepo.ProjectReader, access portssvc.AccessGate, auditSvc portssvc.AuditRecorderSvc, uploadDir string) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		projectRepo:  projectRepo,
		access:       access,
		auditSvc:     auditSvc,
		uploadDir:    uploadDir,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// SaveDocument streams the content to disk and registers the metadata.
// Disk write happens first; if the metadata insert fails, the file is
// removed again so no orphan bytes survive.
func (s *documentService) SaveDocument(ctx context.Context, req dto.CreateDocumentRequest, content io.Reader, uploaderUserID string) (*domain.Document, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", apperrors.ErrMissingField)
	}
	if req.ProjectID != nil && *req.ProjectID != "" {
		if _, err := s.projectRepo.FindProjectByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, *req.ProjectID)
			}
			return nil, fmt.Errorf("failed to fetch project: %w", err)
		}
		if err := s.access.AuthorizeProjectWrite(ctx, uploaderUserID, *req.ProjectID); err != nil {
			return nil, err
		}
	} else {
		if err := s.access.AuthorizeManager(ctx, uploaderUserID); err != nil {
			return nil, err
		}
	}

	visibility := domain.VisibilityEveryone
	if req.Visibility != "" {
		visibility = domain.DocumentVisibility(strings.ToUpper(req.Visibility))
	}

	now := time.Now().UTC()
	documentID := uuid.NewString()
	// The stored name is the document ID plus the original extension;
	// collisions are impossible and the original name stays in metadata.
	storagePath := filepath.Join(s.uploadDir, documentID+filepath.Ext(req.Filename))

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

	doc := domain.Document{
		DocumentID:  documentID,
		ProjectID:   req.ProjectID,
		Filename:    req.Filename,
		StoragePath: storagePath,
		Kind:        req.Kind,
		Visibility:  visibility,
		UploadedBy:  uploaderUserID,
		UploadedAt:  now,
	}

	details := map[string]any{
		"filename":   req.Filename,
		"kind":       req.Kind,
		"visibility": string(visibility),
	}
	if req.ProjectID != nil {
		details["projectID"] = *req.ProjectID
	}
	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &uploaderUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceDocument,
		ResourceID:   documentID,
		Details:      details,
		Timestamp:    now,
	}

	if err := s.documentRepo.SaveDocument(ctx, doc, audit); err != nil {
		os.Remove(storagePath)
		s.LogError(ctx, err, "failed to save document metadata", slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}

	s.LogInfo(ctx, "document uploaded", slog.String("document_id", documentID), slog.String("filename", req.Filename))
	return &doc, nil
}

// authorizeDocumentRead applies both project scoping and the visibility
// restriction.
func (s *documentService) authorizeDocumentRead(ctx context.Context, doc *domain.Document, userID string) error {
	if doc.ProjectID != nil {
		if err := s.access.AuthorizeProjectRead(ctx, userID, *doc.ProjectID); err != nil {
			return err
		}
	}
	if doc.Visibility == domain.VisibilityManagers {
		if err := s.access.AuthorizeManager(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// OpenDocument returns the metadata and an open reader over the stored
// bytes. The download itself is appended to the audit trail.
func (s *documentService) OpenDocument(ctx context.Context, documentID string, requestingUserID string) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
		}
		return nil, nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	if err := s.authorizeDocumentRead(ctx, doc, requestingUserID); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(doc.StoragePath)
	if err != nil {
		s.LogError(ctx, err, "stored file missing", slog.String("document_id", documentID), slog.String("path", doc.StoragePath))
		return nil, nil, fmt.Errorf("%w: stored file unavailable", apperrors.ErrInternal)
	}

	if err := s.auditSvc.RecordAction(ctx, &requestingUserID, domain.ActionRead, domain.ResourceDocument, documentID, map[string]any{
		"filename": doc.Filename,
	}); err != nil {
		s.LogError(ctx, err, "failed to audit document download", slog.String("document_id", documentID))
	}

	return doc, f, nil
}

// DeleteDocument removes the metadata row first, then the stored bytes.
func (s *documentService) DeleteDocument(ctx context.Context, documentID string, requestingUserID string) error {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
		}
		return fmt.Errorf("failed to fetch document: %w", err)
	}
	if doc.ProjectID != nil {
		if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, *doc.ProjectID); err != nil {
			return err
		}
	} else if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return err
	}

	details := map[string]any{
		"filename":   doc.Filename,
		"kind":       doc.Kind,
		"visibility": string(doc.Visibility),
	}
	if doc.ProjectID != nil {
		details["projectID"] = *doc.ProjectID
	}
	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceDocument,
		ResourceID:   documentID,
		Details:      details,
		Timestamp:    time.Now().UTC(),
	}

	if err := s.documentRepo.DeleteDocument(ctx, documentID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete document metadata", slog.String("document_id", documentID))
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}
	if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
		// Metadata is already gone; log the orphan file and move on.
		s.LogWarn(ctx, "failed to remove stored file", slog.String("path", doc.StoragePath), slog.String("error", err.Error()))
	}
	return nil
}

// ListDocuments returns documents for a project, or company-wide documents
// when projectID is nil, filtered by the caller's visibility.
func (s *documentService) ListDocuments(ctx context.Context, projectID *string, requestingUserID string) ([]domain.Document, error) {
	includeManagerOnly := s.access.AuthorizeManager(ctx, requestingUserID) == nil
	if projectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, *projectID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, *projectID)
			}
			return nil, fmt.Errorf("failed to fetch project: %w", err)
		}
		if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, *projectID); err != nil {
			return nil, err
		}
	}
	docs, err := s.documentRepo.FindDocumentsByProject(ctx, projectID, includeManagerOnly)
	if err != nil {
		s.LogError(ctx, err, "failed to list documents")
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
