package domain

import (
	"github.com/shopspring/decimal"
)

// GlobalKPIs aggregates headline numbers across all projects. Sums only ever
// include active ledger entries.
type GlobalKPIs struct {
	TotalProjects      int             `json:"totalProjects"`
	ProjectsInProgress int             `json:"projectsInProgress"`
	ProjectsCompleted  int             `json:"projectsCompleted"`
	TotalCurrentBudget decimal.Decimal `json:"totalCurrentBudget"`
	TotalCredits       decimal.Decimal `json:"totalCredits"`
	TotalDebits        decimal.Decimal `json:"totalDebits"`
}

// CashflowBucket is one month of credit/debit totals, keyed "YYYY-MM".
type CashflowBucket struct {
	Month   string          `json:"month"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
}

// ProjectLedgerSummary is the per-project view of the budget invariant:
// CurrentBudget as stored, alongside the recomputed sums it must match.
type ProjectLedgerSummary struct {
	ProjectID     string          `json:"projectID"`
	InitialBudget decimal.Decimal `json:"initialBudget"`
	CurrentBudget decimal.Decimal `json:"currentBudget"`
	ActiveCredits decimal.Decimal `json:"activeCredits"`
	ActiveDebits  decimal.Decimal `json:"activeDebits"`
}
