package domain_test

import (
	"testing"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDraftLine_MutualExclusivity(t *testing.T) {
	t.Run("setting debit clears existing credit", func(t *testing.T) {
		line := domain.DraftLine{AccountID: "A1", Credit: "30"}
		line.SetDebit("50")
		assert.Equal(t, "50", line.Debit)
		assert.Equal(t, "", line.Credit)
	})

	t.Run("setting credit clears existing debit", func(t *testing.T) {
		line := domain.DraftLine{AccountID: "A1", Debit: "50"}
		line.SetCredit("30")
		assert.Equal(t, "30", line.Credit)
		assert.Equal(t, "", line.Debit)
	})

	t.Run("zero value does not clear the other side", func(t *testing.T) {
		line := domain.DraftLine{AccountID: "A1", Credit: "30"}
		line.SetDebit("0")
		assert.Equal(t, "30", line.Credit)
	})

	t.Run("clearing a field does not clear the other side", func(t *testing.T) {
		line := domain.DraftLine{AccountID: "A1", Credit: "30"}
		line.SetDebit("")
		assert.Equal(t, "30", line.Credit)
	})
}

func TestAmountOrZero(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want decimal.Decimal
	}{
		{"plain integer", "100", decimal.NewFromInt(100)},
		{"two decimals", "12.34", decimal.RequireFromString("12.34")},
		{"surrounding whitespace", " 9.50 ", decimal.RequireFromString("9.50")},
		{"negative passes through", "-5", decimal.NewFromInt(-5)},
		{"empty", "", decimal.Zero},
		{"whitespace only", "  \t", decimal.Zero},
		{"non numeric", "abc", decimal.Zero},
		{"double dot", "1..2", decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.AmountOrZero(tt.raw)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestValidationResult_Valid(t *testing.T) {
	var r domain.ValidationResult
	assert.True(t, r.Valid())

	r.AddFieldError("description", "Description is required")
	assert.False(t, r.Valid())

	var entryOnly domain.ValidationResult
	entryOnly.AddEntryError("At least two journal entry lines are required")
	assert.False(t, entryOnly.Valid())
}

func TestValidationResult_Merge(t *testing.T) {
	var a domain.ValidationResult
	a.AddFieldError("description", "Description is required")

	var b domain.ValidationResult
	b.AddFieldError("description", "Description is too long")
	b.AddFieldError("lines.0.chart_of_account_id", "Account is required")
	b.AddEntryError("Journal entry must be balanced (debits must equal credits)")

	a.Merge(b)

	assert.Len(t, a.FieldErrors["description"], 2)
	assert.Len(t, a.FieldErrors["lines.0.chart_of_account_id"], 1)
	assert.Len(t, a.EntryErrors, 1)
	assert.Equal(t, []string{"description", "lines.0.chart_of_account_id"}, a.SortedFields())
}
