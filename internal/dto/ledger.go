package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Ledger DTOs ---

// CreateLedgerEntryRequest defines data for recording a new ledger entry.
type CreateLedgerEntryRequest struct {
	EntryType   string          `json:"entryType" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// CancelLedgerEntryRequest defines data for cancelling a ledger entry.
type CancelLedgerEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LedgerEntryResponse defines data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID            string          `json:"entryID"`
	ProjectID          string          `json:"projectID"`
	EntryType          string          `json:"entryType"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	Status             string          `json:"status"`
	CancelledBy        *string         `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	CreatedBy          string          `json:"createdBy"`
}

// ToLedgerEntryResponse converts domain.LedgerEntry to DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:            e.EntryID,
		ProjectID:          e.ProjectID,
		EntryType:          string(e.EntryType),
		Amount:             e.Amount,
		Description:        e.Description,
		Status:             string(e.Status),
		CancelledBy:        e.CancelledBy,
		CancelledAt:        e.CancelledAt,
		CancellationReason: e.CancellationReason,
		CreatedAt:          e.CreatedAt,
		CreatedBy:          e.CreatedBy,
	}
}

// ListLedgerEntriesParams defines query parameters for listing ledger entries.
type ListLedgerEntriesParams struct {
	Status string `form:"status"` // Optional filter: ACTIVE or CANCELLED
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

// ListLedgerEntriesResponse wraps the list of ledger entries alongside the
// owning project's budget figures, so clients can refresh both in one call.
type ListLedgerEntriesResponse struct {
	Entries       []LedgerEntryResponse `json:"entries"`
	InitialBudget decimal.Decimal       `json:"initialBudget"`
	CurrentBudget decimal.Decimal       `json:"currentBudget"`
}

// ToListLedgerEntriesResponse converts domain entries plus their project to DTO.
func ToListLedgerEntriesResponse(entries []domain.LedgerEntry, project *domain.Project) ListLedgerEntriesResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToLedgerEntryResponse(&e)
	}
	return ListLedgerEntriesResponse{
		Entries:       responses,
		InitialBudget: project.InitialBudget,
		CurrentBudget: project.CurrentBudget,
	}
}
