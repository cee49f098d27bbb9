package dto

import (
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Reporting DTOs ---

// GlobalKPIsResponse defines the headline dashboard numbers.
type GlobalKPIsResponse struct {
	TotalProjects      int             `json:"totalProjects"`
	ProjectsInProgress int             `json:"projectsInProgress"`
	ProjectsCompleted  int             `json:"projectsCompleted"`
	TotalCurrentBudget decimal.Decimal `json:"totalCurrentBudget"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`
}

// ToGlobalKPIsResponse converts domain.GlobalKPIs to DTO.
func ToGlobalKPIsResponse(k *domain.GlobalKPIs) GlobalKPIsResponse {
	return GlobalKPIsResponse{
		TotalProjects:      k.TotalProjects,
		ProjectsInProgress: k.ProjectsInProgress,
		ProjectsCompleted:  k.ProjectsCompleted,
		TotalCurrentBudget: k.TotalCurrentBudget,
		TotalCredits:       k.TotalCredits,
		TotalDebits:        k.TotalDebits,
	}
}

// CashflowParams defines query parameters for the monthly cashflow report.
type CashflowParams struct {
	ProjectID string `form:"projectID"` // Optional filter, empty means all projects
	Months    int    `form:"months,default=12"`
}

// CashflowResponse wraps the per-month credit/debit buckets.
type CashflowResponse struct {
	Buckets []domain.CashflowBucket `json:"buckets"`
}

// ProjectLedgerSummaryResponse exposes the stored budget next to the
// recomputed sums so clients can display drift if it ever appears.
type ProjectLedgerSummaryResponse struct {
	ProjectID     string          `json:"projectID"`
	InitialBudget decimal.Decimal `json:"initialBudget"`
	CurrentBudget decimal.Decimal `json:"currentBudget"`
	ActiveCredits decimal.Decimal `json:"activeCredits"`
	ActiveDebits  decimal.Decimal `json:"activeDebits"`
}

// ToProjectLedgerSummaryResponse converts domain.ProjectLedgerSummary to DTO.
func ToProjectLedgerSummaryResponse(s *domain.ProjectLedgerSummary) ProjectLedgerSummaryResponse {
	return ProjectLedgerSummaryResponse{
		ProjectID:     s.ProjectID,
		InitialBudget: s.InitialBudget,
		CurrentBudget: s.CurrentBudget,
		ActiveCredits: s.ActiveCredits,
		ActiveDebits:  s.ActiveDebits,
	}
}
