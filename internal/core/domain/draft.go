package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// JournalDraft is an in-progress journal entry as captured from a form-shaped
// payload. Amounts and the entry date are kept as the raw strings the client
// sent; coercion to numbers is the balance calculator's job and degrades
// malformed input to zero rather than failing.
type JournalDraft struct {
	EntryID      string // Empty for a new entry; set when editing a draft
	EntryDate    string
	Description  string
	CurrencyCode string
	SaveAsDraft  bool
	Lines        []DraftLine
}

// DraftLine is one debit/credit row of a draft. At most one of Debit/Credit
// holds a nonzero amount; SetDebit and SetCredit maintain that invariant as
// edits arrive, mirroring the mutual exclusivity the entry form enforces on
// every keystroke.
type DraftLine struct {
	AccountID string
	Debit     string
	Credit    string
	Memo      string
}

// SetDebit assigns the debit amount. A value that coerces to a nonzero
// number clears the credit side.
func (l *DraftLine) SetDebit(raw string) {
	l.Debit = raw
	if !AmountOrZero(raw).IsZero() {
		l.Credit = ""
	}
}

// SetCredit assigns the credit amount. A value that coerces to a nonzero
// number clears the debit side.
func (l *DraftLine) SetCredit(raw string) {
	l.Credit = raw
	if !AmountOrZero(raw).IsZero() {
		l.Debit = ""
	}
}

// AmountOrZero coerces a raw amount string to a decimal. Missing or
// non-numeric input yields zero; this function is total and never fails.
func AmountOrZero(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LineField builds the wire field path for a line-scoped error, matching the
// indexed nested paths of the REST contract (e.g. "lines.0.debit_amount").
func LineField(index int, field string) string {
	return fmt.Sprintf("lines.%d.%s", index, field)
}

// ValidationResult accumulates everything wrong with a draft. Field errors
// are keyed by wire field path; entry errors apply to the entry as a whole.
// All rules are evaluated on every run so the caller sees every problem at
// once rather than the first one encountered.
type ValidationResult struct {
	FieldErrors map[string][]string
	EntryErrors []string
}

// Valid reports whether the draft passed every rule.
func (r ValidationResult) Valid() bool {
	return len(r.FieldErrors) == 0 && len(r.EntryErrors) == 0
}

// AddFieldError appends a message for the given wire field path.
func (r *ValidationResult) AddFieldError(field, message string) {
	if r.FieldErrors == nil {
		r.FieldErrors = make(map[string][]string)
	}
	r.FieldErrors[field] = append(r.FieldErrors[field], message)
}

// AddEntryError appends an entry-level message.
func (r *ValidationResult) AddEntryError(message string) {
	r.EntryErrors = append(r.EntryErrors, message)
}

// Merge folds another result into this one.
func (r *ValidationResult) Merge(other ValidationResult) {
	for field, msgs := range other.FieldErrors {
		for _, msg := range msgs {
			r.AddFieldError(field, msg)
		}
	}
	r.EntryErrors = append(r.EntryErrors, other.EntryErrors...)
}

// ErrorMap flattens the result into the wire error shape used by 422
// responses. Entry-level messages are collected under the "entry" key.
func (r ValidationResult) ErrorMap() map[string][]string {
	out := make(map[string][]string, len(r.FieldErrors)+1)
	for field, msgs := range r.FieldErrors {
		out[field] = append([]string(nil), msgs...)
	}
	if len(r.EntryErrors) > 0 {
		out["entry"] = append([]string(nil), r.EntryErrors...)
	}
	return out
}

// SortedFields returns the field paths in deterministic order, useful for
// stable rendering and assertions.
func (r ValidationResult) SortedFields() []string {
	fields := make([]string, 0, len(r.FieldErrors))
	for f := range r.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
