package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// ReportingReader defines aggregate read operations for dashboards and
// reports. All sums only ever include active ledger entries.
type ReportingReader interface {
	// GetGlobalKPIs computes headline numbers across all projects.
	GetGlobalKPIs(ctx context.Context) (*domain.GlobalKPIs, error)

	// GetMonthlyCashflow computes per-month credit/debit totals over the
	// trailing months window; an empty projectID spans all projects.
	GetMonthlyCashflow(ctx context.Context, projectID string, months int) ([]domain.CashflowBucket, error)

	// GetProjectLedgerSummary recomputes one project's active sums next to
	// its stored budget figures.
	GetProjectLedgerSummary(ctx context.Context, projectID string) (*domain.ProjectLedgerSummary, error)
}
