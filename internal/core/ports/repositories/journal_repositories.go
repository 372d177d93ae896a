package repositories

import (
	"context"
	"time"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves a specific journal entry by its identifier,
	// without lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of one entry in display order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by
	// entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListEntries retrieves a token-paginated page of entries, newest first.
	// status filters by lifecycle state when non-empty. It returns the page,
	// a token for the next page, and an error.
	ListEntries(ctx context.Context, limit int, nextToken *string, status string) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveEntry persists a new entry with its lines. For POSTED entries,
	// balanceChanges carries the net signed delta per account and is applied
	// to account balances in the same database transaction; drafts pass an
	// empty map.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// ReplaceEntry overwrites a DRAFT entry's header fields and lines. When
	// entry.Status is POSTED the edit posts the entry in the same database
	// transaction, applying balanceChanges; otherwise the map is empty.
	ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// MarkPosted transitions a DRAFT entry to POSTED and applies the account
	// balance deltas atomically.
	MarkPosted(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, userID string, at time.Time) error

	// SaveReversal persists the reversing entry with its lines and balance
	// deltas, and marks the original entry REVERSED with the back-link, all
	// in one database transaction.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, originalEntryID string) error
}

// JournalEntryRepository combines all journal-entry repository interfaces.
type JournalEntryRepository interface {
	JournalEntryReader
	JournalEntryWriter
}
