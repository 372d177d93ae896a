package accounting_test

import (
	"testing"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() domain.JournalDraft {
	return domain.JournalDraft{
		EntryDate:   "2025-06-30",
		Description: "Office rent for June",
		Lines: []domain.DraftLine{
			{AccountID: "A1", Debit: "100", Credit: ""},
			{AccountID: "A2", Debit: "", Credit: "100"},
		},
	}
}

func TestValidateDraft_Valid(t *testing.T) {
	result := accounting.ValidateDraft(validDraft())
	assert.True(t, result.Valid())
	assert.Empty(t, result.FieldErrors)
	assert.Empty(t, result.EntryErrors)
}

func TestValidateDraft_MissingEntryDate(t *testing.T) {
	d := validDraft()
	d.EntryDate = "   "
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["entry_date"], accounting.MsgEntryDateRequired)
}

func TestValidateDraft_MissingDescription(t *testing.T) {
	d := validDraft()
	d.Description = ""
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["description"], accounting.MsgDescriptionRequired)
}

// A single-line draft fails the minimum line count rule regardless of its
// amounts being internally consistent.
func TestValidateDraft_SingleLine(t *testing.T) {
	d := validDraft()
	d.Lines = d.Lines[:1]
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.EntryErrors, accounting.MsgMinTwoLines)
}

func TestValidateDraft_MissingAccount(t *testing.T) {
	d := validDraft()
	d.Lines[1].AccountID = ""
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["lines.1.chart_of_account_id"], accounting.MsgAccountRequired)
}

func TestValidateDraft_LineWithoutAmount(t *testing.T) {
	d := validDraft()
	d.Lines = append(d.Lines, domain.DraftLine{AccountID: "A3"})
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["lines.2.debit_amount"], accounting.MsgAmountRequired)
}

func TestValidateDraft_AllLinesZero(t *testing.T) {
	d := validDraft()
	d.Lines = []domain.DraftLine{
		{AccountID: "A1", Debit: "0"},
		{AccountID: "A2", Credit: "0"},
	}
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.EntryErrors, accounting.MsgNoNonzeroLine)
}

func TestValidateDraft_Unbalanced(t *testing.T) {
	d := validDraft()
	d.Lines[1].Credit = "90"
	result := accounting.ValidateDraft(d)
	assert.False(t, result.Valid())
	assert.Contains(t, result.EntryErrors, accounting.MsgUnbalanced)
}

// A line carrying both a debit and a credit must be rejected even when the
// totals balance; raw payloads never go through SetDebit/SetCredit.
func TestValidateDraft_BothSidesOnOneLine(t *testing.T) {
	d := validDraft()
	d.Lines = []domain.DraftLine{
		{AccountID: "A1", Debit: "50", Credit: "50"},
		{AccountID: "A2", Debit: "50", Credit: "50"},
	}
	result := accounting.ValidateDraft(d)
	require.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["lines.0.debit_amount"], accounting.MsgAmountExclusive)
	assert.Contains(t, result.FieldErrors["lines.0.credit_amount"], accounting.MsgAmountExclusive)
	assert.Contains(t, result.FieldErrors["lines.1.debit_amount"], accounting.MsgAmountExclusive)
}

// Negative amounts are rejected per side even when they net out to a
// balanced entry.
func TestValidateDraft_NegativeAmounts(t *testing.T) {
	d := validDraft()
	d.Lines = []domain.DraftLine{
		{AccountID: "A1", Debit: "100"},
		{AccountID: "A2", Debit: "-50"},
		{AccountID: "A3", Credit: "50"},
	}
	result := accounting.ValidateDraft(d)
	require.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["lines.1.debit_amount"], accounting.MsgAmountNegative)

	d.Lines[1] = domain.DraftLine{AccountID: "A2", Credit: "-50"}
	result = accounting.ValidateDraft(d)
	require.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["lines.1.credit_amount"], accounting.MsgAmountNegative)
}

// Every rule is evaluated on each run; a draft with several independent
// problems reports all of them at once rather than stopping at the first.
func TestValidateDraft_AccumulatesAllErrors(t *testing.T) {
	d := domain.JournalDraft{
		EntryDate:   "2025-06-30",
		Description: "",
		Lines: []domain.DraftLine{
			{AccountID: "A1", Debit: "100", Credit: ""},
		},
	}
	result := accounting.ValidateDraft(d)

	require.False(t, result.Valid())
	assert.Contains(t, result.FieldErrors["description"], accounting.MsgDescriptionRequired)
	assert.Contains(t, result.EntryErrors, accounting.MsgMinTwoLines)
	assert.Contains(t, result.EntryErrors, accounting.MsgUnbalanced)
}

func TestValidationResult_ErrorMap(t *testing.T) {
	d := domain.JournalDraft{
		Lines: []domain.DraftLine{{AccountID: "A1"}},
	}
	result := accounting.ValidateDraft(d)
	errMap := result.ErrorMap()

	assert.Contains(t, errMap, "entry_date")
	assert.Contains(t, errMap, "description")
	assert.Contains(t, errMap, "lines.0.debit_amount")
	assert.Contains(t, errMap["entry"], accounting.MsgMinTwoLines)
	assert.Contains(t, errMap["entry"], accounting.MsgNoNonzeroLine)
}
