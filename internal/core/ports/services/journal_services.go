package services

import (
	"context"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/dto"
)

// JournalEntryReaderSvc defines read operations over journal entries.
type JournalEntryReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a token-paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalEntryWriterSvc defines write operations over journal entries.
type JournalEntryWriterSvc interface {
	// CreateEntry validates the payload and persists a new entry. Invalid
	// payloads return *apperrors.ValidationError carrying every problem at
	// once; nothing is persisted in that case.
	CreateEntry(ctx context.Context, req dto.SaveJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry revalidates and replaces a DRAFT entry's header and lines.
	UpdateEntry(ctx context.Context, entryID string, req dto.SaveJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry transitions a DRAFT entry to POSTED, applying balances.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and persists the mirror of a POSTED entry and
	// marks the original REVERSED.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}

// JournalEntrySvc combines read and write journal entry operations.
type JournalEntrySvc interface {
	JournalEntryReaderSvc
	JournalEntryWriterSvc
}
