package domain_test

import (
	"testing"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_BudgetDelta(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.LedgerEntry
		want  decimal.Decimal
	}{
		{
			name:  "credit adds to the budget",
			entry: domain.LedgerEntry{EntryType: domain.Credit, Amount: decimal.NewFromInt(500)},
			want:  decimal.NewFromInt(500),
		},
		{
			name:  "debit removes from the budget",
			entry: domain.LedgerEntry{EntryType: domain.Debit, Amount: decimal.NewFromInt(200)},
			want:  decimal.NewFromInt(-200),
		},
		{
			name:  "fractional amounts keep their precision",
			entry: domain.LedgerEntry{EntryType: domain.Debit, Amount: decimal.RequireFromString("0.01")},
			want:  decimal.RequireFromString("-0.01"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.entry.BudgetDelta().Equal(tt.want),
				"got %s, want %s", tt.entry.BudgetDelta(), tt.want)
		})
	}
}

func TestLedgerEntry_ReversalDelta(t *testing.T) {
	credit := domain.LedgerEntry{EntryType: domain.Credit, Amount: decimal.NewFromInt(500)}
	debit := domain.LedgerEntry{EntryType: domain.Debit, Amount: decimal.NewFromInt(200)}

	assert.True(t, credit.ReversalDelta().Equal(decimal.NewFromInt(-500)))
	assert.True(t, debit.ReversalDelta().Equal(decimal.NewFromInt(200)))
}

// TestBudgetArithmetic_Walkthrough replays a short project history and checks
// that applying each delta in order reproduces the expected running budget.
func TestBudgetArithmetic_Walkthrough(t *testing.T) {
	budget := decimal.NewFromInt(1000)

	credit := domain.LedgerEntry{EntryType: domain.Credit, Amount: decimal.NewFromInt(500)}
	budget = budget.Add(credit.BudgetDelta())
	assert.True(t, budget.Equal(decimal.NewFromInt(1500)))

	debit := domain.LedgerEntry{EntryType: domain.Debit, Amount: decimal.NewFromInt(200)}
	budget = budget.Add(debit.BudgetDelta())
	assert.True(t, budget.Equal(decimal.NewFromInt(1300)))

	// Cancelling the debit puts its amount back.
	budget = budget.Add(debit.ReversalDelta())
	assert.True(t, budget.Equal(decimal.NewFromInt(1500)))

	// Cancelling the credit afterwards drops back to the initial budget.
	budget = budget.Add(credit.ReversalDelta())
	assert.True(t, budget.Equal(decimal.NewFromInt(1000)))
}

func TestIsValidEntryType(t *testing.T) {
	assert.True(t, domain.IsValidEntryType(domain.Credit))
	assert.True(t, domain.IsValidEntryType(domain.Debit))
	assert.False(t, domain.IsValidEntryType(domain.EntryType("TRANSFER")))
	assert.False(t, domain.IsValidEntryType(domain.EntryType("")))
}
