package accounting_test

import (
	"testing"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		lines        []domain.DraftLine
		wantDebits   string
		wantCredits  string
		wantDiff     string
		wantBalanced bool
	}{
		{
			name:         "no lines",
			lines:        nil,
			wantDebits:   "0",
			wantCredits:  "0",
			wantDiff:     "0",
			wantBalanced: false,
		},
		{
			name: "all zero amounts",
			lines: []domain.DraftLine{
				{AccountID: "a1", Debit: "0", Credit: ""},
				{AccountID: "a2", Debit: "", Credit: "0"},
			},
			wantDebits:   "0",
			wantCredits:  "0",
			wantDiff:     "0",
			wantBalanced: false,
		},
		{
			name: "malformed amounts coerce to zero",
			lines: []domain.DraftLine{
				{AccountID: "a1", Debit: "abc", Credit: ""},
				{AccountID: "a2", Debit: "", Credit: "12..5"},
				{AccountID: "a3", Debit: "  10.00 ", Credit: ""},
				{AccountID: "a4", Debit: "", Credit: "10"},
			},
			wantDebits:   "10",
			wantCredits:  "10",
			wantDiff:     "0",
			wantBalanced: true,
		},
		{
			name: "balanced two line entry",
			lines: []domain.DraftLine{
				{AccountID: "a1", Debit: "100", Credit: ""},
				{AccountID: "a2", Debit: "", Credit: "100"},
			},
			wantDebits:   "100",
			wantCredits:  "100",
			wantDiff:     "0",
			wantBalanced: true,
		},
		{
			name: "difference inside tolerance",
			lines: []domain.DraftLine{
				{AccountID: "a1", Debit: "100.00", Credit: ""},
				{AccountID: "a2", Debit: "", Credit: "99.995"},
			},
			wantDebits:   "100",
			wantCredits:  "99.995",
			wantDiff:     "0.005",
			wantBalanced: true,
		},
		{
			name: "difference outside tolerance",
			lines: []domain.DraftLine{
				{AccountID: "a1", Debit: "100.00", Credit: ""},
				{AccountID: "a2", Debit: "", Credit: "99.98"},
			},
			wantDebits:   "100",
			wantCredits:  "99.98",
			wantDiff:     "0.02",
			wantBalanced: false,
		},
		{
			name: "difference exactly at tolerance is not balanced",
			lines: []domain.DraftLine{
				{AccountID: "a1", Debit: "100.00", Credit: ""},
				{AccountID: "a2", Debit: "", Credit: "99.99"},
			},
			wantDebits:   "100",
			wantCredits:  "99.99",
			wantDiff:     "0.01",
			wantBalanced: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.Summarize(tt.lines)
			assert.True(t, got.TotalDebits.Equal(decimal.RequireFromString(tt.wantDebits)),
				"debits: got %s", got.TotalDebits)
			assert.True(t, got.TotalCredits.Equal(decimal.RequireFromString(tt.wantCredits)),
				"credits: got %s", got.TotalCredits)
			assert.True(t, got.Difference.Equal(decimal.RequireFromString(tt.wantDiff)),
				"difference: got %s", got.Difference)
			assert.Equal(t, tt.wantBalanced, got.Balanced)
		})
	}
}

// Summarize must be total: arbitrary garbage in every field still yields a
// summary, never a panic.
func TestSummarize_TotalOverGarbage(t *testing.T) {
	lines := []domain.DraftLine{
		{Debit: "NaN", Credit: "Infinity"},
		{Debit: "--5", Credit: "1e"},
		{Debit: "", Credit: ""},
		{Debit: "\t", Credit: "12,50"},
	}
	assert.NotPanics(t, func() {
		got := accounting.Summarize(lines)
		assert.True(t, got.TotalDebits.IsZero())
		assert.True(t, got.TotalCredits.IsZero())
		assert.False(t, got.Balanced)
	})
}
