// Package accounting holds the pure double-entry arithmetic shared by
// services, repositories and the submission client: balance summarisation
// over draft lines and the accumulated validation rules for a journal draft.
package accounting

import (
	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum absolute difference between total debits
// and total credits for an entry to count as balanced. Matches the backend's
// two-decimal rounding of posted amounts.
var BalanceTolerance = decimal.New(1, -2) // 0.01

// BalanceSummary is the display-ready aggregate of a draft's lines.
// Totals are exact sums of the coerced amounts; rounding to two decimals
// happens at the presentation boundary, not here.
type BalanceSummary struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Difference   decimal.Decimal
	Balanced     bool
}

// Summarize computes totals and the balanced state for the given lines.
// It is total over all inputs: missing or non-numeric amounts coerce to
// zero and never produce an error. An entry whose lines are all zero is
// explicitly not balanced, so an empty draft never reads as balanced.
func Summarize(lines []domain.DraftLine) BalanceSummary {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, line := range lines {
		totalDebits = totalDebits.Add(domain.AmountOrZero(line.Debit))
		totalCredits = totalCredits.Add(domain.AmountOrZero(line.Credit))
	}
	difference := totalDebits.Sub(totalCredits).Abs()
	return BalanceSummary{
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Difference:   difference,
		Balanced:     difference.LessThan(BalanceTolerance) && totalDebits.IsPositive(),
	}
}
