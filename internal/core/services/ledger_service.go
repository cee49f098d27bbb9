package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// ledgerService is the only component allowed to create or cancel ledger
// entries. It owns the budget invariant: current_budget must always equal
// initial_budget plus active credits minus active debits. The repository
// enforces atomicity; this service enforces the business rules in front
// of it.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	projectRepo portsrepo.ProjectReader
	access      portssvc.AccessGate
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, projectRepo portsrepo.ProjectReader, access portssvc.AccessGate) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		projectRepo: projectRepo,
		access:      access,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateEntry records a credit or debit against a project. Validation runs
// strictly before any write: amount, type, description, project existence,
// then the access gate. The repository applies the entry, the budget delta
// and the audit record in one transaction.
func (s *ledgerService) CreateEntry(ctx context.Context, projectID string, req dto.CreateLedgerEntryRequest, creatorUserID string) (*domain.LedgerEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}
	entryType := domain.EntryType(strings.ToUpper(req.EntryType))
	if !domain.IsValidEntryType(entryType) {
		return nil, fmt.Errorf("%w: %q is not a ledger entry type", apperrors.ErrInvalidType, req.EntryType)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrMissingField)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		s.LogError(ctx, err, "failed to fetch project for entry creation", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	if err := s.access.AuthorizeProjectWrite(ctx, creatorUserID, project.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		ProjectID:   projectID,
		EntryType:   entryType,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      domain.EntryActive,
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
		ResourceKind: domain.ResourceLedgerEntry,
		ResourceID:   entry.EntryID,
		Details: map[string]any{
			"projectID":   projectID,
			"entryType":   string(entryType),
			"amount":      req.Amount.String(),
			"description": req.Description,
		},
		Timestamp: now,
	}

	if err := s.ledgerRepo.SaveEntry(ctx, entry, audit); err != nil {
		s.LogError(ctx, err, "failed to save ledger entry", slog.String("project_id", projectID), slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to save ledger entry: %w", err)
	}

	s.LogInfo(ctx, "ledger entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("project_id", projectID),
		slog.String("entry_type", string(entryType)),
		slog.String("amount", req.Amount.String()))
	return &entry, nil
}

// CancelEntry flips an active entry to cancelled and reverses its budget
// effect: cancelling a credit subtracts the amount, cancelling a debit adds
// it back. Re-cancelling is a conflict, never a silent no-op.
func (s *ledgerService) CancelEntry(ctx context.Context, projectID string, entryID string, reason string, requestingUserID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
		}
		s.LogError(ctx, err, "failed to fetch ledger entry for cancellation", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch ledger entry: %w", err)
	}
	if entry.ProjectID != projectID {
		return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", apperrors.ErrMissingField)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	if entry.Status == domain.EntryCancelled {
		return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrAlreadyCancelled, entryID)
	}

	now := time.Now().UTC()
	cancelled := *entry
	cancelled.Status = domain.EntryCancelled
	cancelled.CancelledBy = &requestingUserID
	cancelled.CancelledAt = &now
	cancelled.CancellationReason = &reason
	cancelled.LastUpdatedAt = now
	cancelled.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionCancel,
		ResourceKind: domain.ResourceLedgerEntry,
		ResourceID:   entry.EntryID,
		Details: map[string]any{
			"projectID":      projectID,
			"entryType":      string(entry.EntryType),
			"reversedAmount": entry.ReversalDelta().String(),
			"reason":         reason,
		},
		Timestamp: now,
	}

	if err := s.ledgerRepo.CancelEntry(ctx, cancelled, audit); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCancelled) {
			// A concurrent cancellation won the race inside the transaction.
			return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrAlreadyCancelled, entryID)
		}
		s.LogError(ctx, err, "failed to cancel ledger entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to cancel ledger entry: %w", err)
	}

	s.LogInfo(ctx, "ledger entry cancelled",
		slog.String("entry_id", entryID),
		slog.String("project_id", projectID),
		slog.String("reversed_amount", entry.ReversalDelta().String()))
	return &cancelled, nil
}

// GetEntryByID retrieves one entry, scoped to its project.
func (s *ledgerService) GetEntryByID(ctx context.Context, projectID string, entryID string, requestingUserID string) (*domain.LedgerEntry, error) {
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to fetch ledger entry: %w", err)
	}
	if entry.ProjectID != projectID {
		return nil, fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, entryID)
	}
	return entry, nil
}

// ListEntries returns a project's entries, active before cancelled and
// newest first within each group, alongside the project budget figures.
func (s *ledgerService) ListEntries(ctx context.Context, projectID string, requestingUserID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}

	status := strings.ToUpper(params.Status)
	if status != "" && status != string(domain.EntryActive) && status != string(domain.EntryCancelled) {
		return nil, fmt.Errorf("%w: %q is not a ledger entry status", apperrors.ErrValidation, params.Status)
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.ledgerRepo.FindEntriesByProject(ctx, projectID, status, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list ledger entries", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	resp := dto.ToListLedgerEntriesResponse(entries, project)
	return &resp, nil
}
