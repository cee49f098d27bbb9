package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/utils/pagination"
)

// auditService exposes the append-only audit trail. It never interprets the
// details payload; callers shape their own before/after deltas.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
	userRepo  portsrepo.UserReader
	access    portssvc.AccessGate
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, userRepo portsrepo.UserReader, access portssvc.AccessGate) portssvc.AuditSvcFacade {
	return &auditService{
		auditRepo: auditRepo,
		userRepo:  userRepo,
		access:    access,
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// RecordAction appends one record outside any row-mutating transaction.
// Failures propagate to the caller; the trail never drops a mutation
// silently.
func (s *auditService) RecordAction(ctx context.Context, actorID *string, action domain.ActionKind, resourceKind string, resourceID string, details map[string]any) error {
	if strings.TrimSpace(string(action)) == "" {
		return fmt.Errorf("%w: action kind is required", apperrors.ErrMissingField)
	}
	if strings.TrimSpace(resourceKind) == "" {
		return fmt.Errorf("%w: resource kind is required", apperrors.ErrMissingField)
	}

	record := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      actorID,
		ActionKind:   action,
		ResourceKind: resourceKind,
		ResourceID:   resourceID,
		Details:      details,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "failed to append audit record",
			slog.String("resource_kind", resourceKind),
			slog.String("resource_id", resourceID))
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// decodeBefore parses the opaque page token into the exclusive timestamp
// upper bound; an empty token means the first page.
func (s *auditService) decodeBefore(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, nil
	}
	before, err := pagination.DecodeDateBasedToken(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return before, nil
}

func (s *auditService) toResponse(ctx context.Context, records []domain.AuditRecord, limit int) *dto.ListAuditRecordsResponse {
	resp := &dto.ListAuditRecordsResponse{
		Records: make([]dto.AuditRecordResponse, len(records)),
	}
	names := map[string]string{}
	for i, r := range records {
		actorName := "system"
		if r.ActorID != nil {
			name, ok := names[*r.ActorID]
			if !ok {
				if user, err := s.userRepo.FindUserByID(ctx, *r.ActorID); err == nil {
					name = user.Name
				} else {
					// Keeps rows attributable when the actor row is gone.
					name = *r.ActorID
				}
				names[*r.ActorID] = name
			}
			actorName = name
		}
		resp.Records[i] = dto.ToAuditRecordResponse(&r, actorName)
	}
	if len(records) == limit && limit > 0 {
		resp.NextToken = pagination.EncodeDateBasedToken(records[len(records)-1].Timestamp)
	}
	return resp
}

func clampAuditLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

// ListResourceHistory returns one resource's records, newest first.
func (s *auditService) ListResourceHistory(ctx context.Context, resourceKind string, resourceID string, requestingUserID string, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error) {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return nil, err
	}
	before, err := s.decodeBefore(params.NextToken)
	if err != nil {
		return nil, err
	}
	limit := clampAuditLimit(params.Limit)
	records, err := s.auditRepo.FindRecordsByResource(ctx, resourceKind, resourceID, limit, before)
	if err != nil {
		s.LogError(ctx, err, "failed to list resource history", slog.String("resource_kind", resourceKind), slog.String("resource_id", resourceID))
		return nil, fmt.Errorf("failed to list resource history: %w", err)
	}
	return s.toResponse(ctx, records, limit), nil
}

// ListActorHistory returns one user's actions, newest first.
func (s *auditService) ListActorHistory(ctx context.Context, actorID string, requestingUserID string, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error) {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, actorID)
		}
		return nil, fmt.Errorf("failed to fetch actor: %w", err)
	}
	before, err := s.decodeBefore(params.NextToken)
	if err != nil {
		return nil, err
	}
	limit := clampAuditLimit(params.Limit)
	records, err := s.auditRepo.FindRecordsByActor(ctx, actorID, limit, before)
	if err != nil {
		s.LogError(ctx, err, "failed to list actor history", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to list actor history: %w", err)
	}
	return s.toResponse(ctx, records, limit), nil
}

// ListAll returns the global audit feed, newest first. Admin only.
func (s *auditService) ListAll(ctx context.Context, requestingUserID string, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error) {
	if err := s.access.AuthorizeAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	before, err := s.decodeBefore(params.NextToken)
	if err != nil {
		return nil, err
	}
	limit := clampAuditLimit(params.Limit)
	records, err := s.auditRepo.FindRecords(ctx, limit, before)
	if err != nil {
		s.LogError(ctx, err, "failed to list audit feed")
		return nil, fmt.Errorf("failed to list audit feed: %w", err)
	}
	return s.toResponse(ctx, records, limit), nil
}
