package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single, balanced double-entry record composed of
// two or more lines. Only DRAFT entries may be edited; posting freezes the
// entry, and corrections happen via reversal.
type JournalEntry struct {
	EntryID      string      `json:"entryID"` // Primary key (UUID)
	EntryDate    time.Time   `json:"entryDate"`
	Description  string      `json:"description"`
	CurrencyCode string      `json:"currencyCode"`
	Status       EntryStatus `json:"status"`
	// Reversal linkage. An entry that reverses another carries
	// OriginalEntryID; a reversed entry carries ReversingEntryID.
	OriginalEntryID  *string         `json:"originalEntryID,omitempty"`
	ReversingEntryID *string         `json:"reversingEntryID,omitempty"`
	TotalDebits      decimal.Decimal `json:"totalDebits"`
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	Lines            []JournalLine   `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalLine is one row of a journal entry, posting to a single account as
// either a debit or a credit. Exactly one of Debit/Credit is nonzero.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	LineNo    int             `json:"lineNo"` // Display order, not semantically meaningful
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	AuditFields
}

// IsEditable reports whether the entry may still be modified.
func (e *JournalEntry) IsEditable() bool {
	return e.Status == Draft
}

// IsReversal reports whether this entry was created to reverse another.
func (e *JournalEntry) IsReversal() bool {
	return e.OriginalEntryID != nil
}

// ReversedLine returns a copy of the line with debit and credit swapped.
func (l JournalLine) ReversedLine() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}
