package services

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// ReportingSvcFacade defines the dashboard and reporting operations.
type ReportingSvcFacade interface {
	// GetGlobalKPIs computes headline numbers across all projects.
	GetGlobalKPIs(ctx context.Context, requestingUserID string) (*domain.GlobalKPIs, error)

	// GetMonthlyCashflow computes the per-month credit/debit report.
	GetMonthlyCashflow(ctx context.Context, requestingUserID string, params dto.CashflowParams) ([]domain.CashflowBucket, error)

	// GetProjectLedgerSummary recomputes one project's active sums next to
	// its stored budget figures.
	GetProjectLedgerSummary(ctx context.Context, projectID string, requestingUserID string) (*domain.ProjectLedgerSummary, error)
}
