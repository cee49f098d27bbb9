package services

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// AuditRecorderSvc is the write side of the audit trail, for collaborators
// that record actions outside a row-mutating transaction (logins, downloads,
// failed attempts). Row mutations audit themselves transactionally through
// their repositories.
type AuditRecorderSvc interface {
	// RecordAction appends one record. actorID is nil for system actions.
	RecordAction(ctx context.Context, actorID *string, action domain.ActionKind, resourceKind string, resourceID string, details map[string]any) error
}

// AuditReaderSvc defines read operations over the audit trail
type AuditReaderSvc interface {
	// ListResourceHistory retrieves one resource's history, newest first.
	ListResourceHistory(ctx context.Context, resourceKind string, resourceID string, requestingUserID string, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error)

	// ListActorHistory retrieves the actions of one user, newest first.
	ListActorHistory(ctx context.Context, actorID string, requestingUserID string, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error)

	// ListAll retrieves the global audit feed, newest first. Admin only.
	ListAll(ctx context.Context, requestingUserID string, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error)
}

// AuditSvcFacade combines all audit-related service interfaces
type AuditSvcFacade interface {
	AuditRecorderSvc
	AuditReaderSvc
}
