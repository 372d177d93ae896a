package accounting

import (
	"strings"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
)

// Validation messages surfaced to the client. Kept as constants so the
// handler tests and the submission client assert against the same strings.
const (
	MsgEntryDateRequired   = "Entry date is required"
	MsgDescriptionRequired = "Description is required"
	MsgAccountRequired     = "Account is required"
	MsgAmountRequired      = "Either debit or credit amount is required"
	MsgAmountExclusive     = "A line cannot have both a debit and a credit amount"
	MsgAmountNegative      = "Amount cannot be negative"
	MsgMinTwoLines         = "At least two journal entry lines are required"
	MsgNoNonzeroLine       = "At least one line must have a debit or credit amount"
	MsgUnbalanced          = "Journal entry must be balanced (debits must equal credits)"
)

// ValidateDraft runs every structural rule against the draft and accumulates
// the failures. Rules are never short-circuited: a draft missing its
// description, with too few lines and unbalanced amounts reports all three
// problems in a single result.
func ValidateDraft(d domain.JournalDraft) domain.ValidationResult {
	var result domain.ValidationResult

	if strings.TrimSpace(d.EntryDate) == "" {
		result.AddFieldError("entry_date", MsgEntryDateRequired)
	}
	if strings.TrimSpace(d.Description) == "" {
		result.AddFieldError("description", MsgDescriptionRequired)
	}
	if len(d.Lines) < 2 {
		result.AddEntryError(MsgMinTwoLines)
	}

	anyNonzero := false
	for i, line := range d.Lines {
		if strings.TrimSpace(line.AccountID) == "" {
			result.AddFieldError(domain.LineField(i, "chart_of_account_id"), MsgAccountRequired)
		}
		debit := domain.AmountOrZero(line.Debit)
		credit := domain.AmountOrZero(line.Credit)
		if debit.IsZero() && credit.IsZero() {
			result.AddFieldError(domain.LineField(i, "debit_amount"), MsgAmountRequired)
		} else {
			anyNonzero = true
		}
		// Raw payloads bypass the SetDebit/SetCredit exclusivity, so the
		// rule is enforced here as well.
		if !debit.IsZero() && !credit.IsZero() {
			result.AddFieldError(domain.LineField(i, "debit_amount"), MsgAmountExclusive)
			result.AddFieldError(domain.LineField(i, "credit_amount"), MsgAmountExclusive)
		}
		if debit.IsNegative() {
			result.AddFieldError(domain.LineField(i, "debit_amount"), MsgAmountNegative)
		}
		if credit.IsNegative() {
			result.AddFieldError(domain.LineField(i, "credit_amount"), MsgAmountNegative)
		}
	}
	if !anyNonzero {
		result.AddEntryError(MsgNoNonzeroLine)
	}

	if Summarize(d.Lines).Difference.GreaterThanOrEqual(BalanceTolerance) {
		result.AddEntryError(MsgUnbalanced)
	}

	return result
}
