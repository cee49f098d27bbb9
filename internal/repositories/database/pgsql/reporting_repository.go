package pgsql

import (
	"context"
	"fmt"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository computes dashboard aggregates in SQL. Only active
// ledger entries ever enter a sum.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository.
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingReader {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingReader = (*reportingRepository)(nil)

// GetGlobalKPIs computes headline numbers across all projects.
func (r *reportingRepository) GetGlobalKPIs(ctx context.Context) (*domain.GlobalKPIs, error) {
	query := `
		SELECT
			COUNT(*) AS total_projects,
			COUNT(*) FILTER (WHERE status = 'IN_PROGRESS') AS projects_in_progress,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS projects_completed,
			COALESCE(SUM(current_budget), 0) AS total_current_budget
		FROM projects
	`
	var kpis domain.GlobalKPIs
	if err := r.Pool.QueryRow(ctx, query).Scan(
		&kpis.TotalProjects,
		&kpis.ProjectsInProgress,
		&kpis.ProjectsCompleted,
		&kpis.TotalCurrentBudget,
	); err != nil {
		return nil, fmt.Errorf("error querying project KPIs: %w", err)
	}

	sumQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'CREDIT'), 0) AS total_credits,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'DEBIT'), 0) AS total_debits
		FROM ledger_entries
		WHERE status = 'ACTIVE'
	`
	if err := r.Pool.QueryRow(ctx, sumQuery).Scan(&kpis.TotalCredits, &kpis.TotalDebits); err != nil {
		return nil, fmt.Errorf("error querying ledger totals: %w", err)
	}
	return &kpis, nil
}

// GetMonthlyCashflow buckets active entries by calendar month over the
// trailing window.
func (r *reportingRepository) GetMonthlyCashflow(ctx context.Context, projectID string, months int) ([]domain.CashflowBucket, error) {
	query := `
		SELECT
			to_char(created_at, 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'CREDIT'), 0) AS credits,
			COALESCE(SUM(amount) FILTER (WHERE entry_type = 'DEBIT'), 0) AS debits
		FROM ledger_entries
		WHERE status = 'ACTIVE'
			AND created_at >= date_trunc('month', now()) - make_interval(months => $1 - 1)
			AND ($2 = '' OR project_id = $2)
		GROUP BY 1
		ORDER BY 1 DESC
	`
	rows, err := r.Pool.Query(ctx, query, months, projectID)
	if err != nil {
		return nil, fmt.Errorf("error querying cashflow data: %w", err)
	}
	defer rows.Close()

	var result []domain.CashflowBucket
	for rows.Next() {
		var bucket domain.CashflowBucket
		if err := rows.Scan(&bucket.Month, &bucket.Credits, &bucket.Debits); err != nil {
			return nil, fmt.Errorf("error scanning cashflow row: %w", err)
		}
		result = append(result, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cashflow rows: %w", err)
	}
	return result, nil
}

// GetProjectLedgerSummary recomputes one project's active sums next to its
// stored budgets, so drift in the invariant would be visible.
func (r *reportingRepository) GetProjectLedgerSummary(ctx context.Context, projectID string) (*domain.ProjectLedgerSummary, error) {
	query := `
		SELECT
			p.project_id,
			p.initial_budget,
			p.current_budget,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'ACTIVE' AND e.entry_type = 'CREDIT'), 0) AS active_credits,
			COALESCE(SUM(e.amount) FILTER (WHERE e.status = 'ACTIVE' AND e.entry_type = 'DEBIT'), 0) AS active_debits
		FROM projects p
		LEFT JOIN ledger_entries e ON e.project_id = p.project_id
		WHERE p.project_id = $1
		GROUP BY p.project_id, p.initial_budget, p.current_budget
	`
	var summary domain.ProjectLedgerSummary
	if err := r.Pool.QueryRow(ctx, query, projectID).Scan(
		&summary.ProjectID,
		&summary.InitialBudget,
		&summary.CurrentBudget,
		&summary.ActiveCredits,
		&summary.ActiveDebits,
	); err != nil {
		return nil, fmt.Errorf("error querying project ledger summary: %w", err)
	}
	return &summary, nil
}
