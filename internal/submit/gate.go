// Package submit implements the client-side submission flow for journal
// entry forms: validate the draft locally, then hand it to a backend exactly
// once, reporting the outcome as an explicit variant.
package submit

import (
	"context"
	"sync"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/dto"
	"github.com/ledgerpost/ledgerpost/internal/utils/accounting"
)

// Backend persists a validated entry payload. Implementations are the HTTP
// client in this package and test fakes.
type Backend interface {
	// CreateEntry submits a new entry. A non-nil ErrorsResponse means the
	// server rejected the payload with field errors; err covers transport
	// and unexpected server failures.
	CreateEntry(ctx context.Context, req dto.SaveJournalEntryRequest) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error)

	// UpdateEntry resubmits an existing draft.
	UpdateEntry(ctx context.Context, entryID string, req dto.SaveJournalEntryRequest) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error)
}

// Outcome is the result of one submission attempt. Exactly one variant is
// returned; callers switch on the concrete type.
type Outcome interface {
	isOutcome()
}

// Accepted means the backend persisted the entry.
type Accepted struct {
	Entry dto.JournalEntryResponse
}

// Rejected means validation failed, either locally before any network call
// or server-side with a 422. Errors uses wire field paths, entry-level
// messages under "entry".
type Rejected struct {
	// Local is true when the draft never left the client.
	Local  bool
	Errors map[string][]string
}

// Failed means the backend could not be reached or answered outside the
// contract. The draft state is preserved for a retry.
type Failed struct {
	Err error
}

// Busy means a submission is already in flight; this attempt was dropped
// without touching the backend.
type Busy struct{}

func (Accepted) isOutcome() {}
func (Rejected) isOutcome() {}
func (Failed) isOutcome()   {}
func (Busy) isOutcome()     {}

// Gate serializes submissions of one entry form. It refuses overlapping
// submits, runs full local validation before any network call, and maps the
// backend's answer onto an Outcome.
type Gate struct {
	backend Backend

	mu         sync.Mutex
	submitting bool
}

// NewGate creates a submission gate over the given backend.
func NewGate(backend Backend) *Gate {
	return &Gate{backend: backend}
}

// Submitting reports whether a submission is currently in flight.
func (g *Gate) Submitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitting
}

// Submit validates the draft and sends it to the backend. A draft with a
// non-empty EntryID is resubmitted as an update to that entry. Only one
// submission runs at a time; concurrent calls get Busy.
func (g *Gate) Submit(ctx context.Context, draft domain.JournalDraft) Outcome {
	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return Busy{}
	}
	g.submitting = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.submitting = false
		g.mu.Unlock()
	}()

	// Full local validation first. An invalid draft never reaches the
	// network; the caller gets every problem at once.
	if result := accounting.ValidateDraft(draft); !result.Valid() {
		return Rejected{Local: true, Errors: result.ErrorMap()}
	}

	req := toRequest(draft)

	var (
		entry   *dto.JournalEntryResponse
		rejects *dto.ErrorsResponse
		err     error
	)
	if draft.EntryID != "" {
		entry, rejects, err = g.backend.UpdateEntry(ctx, draft.EntryID, req)
	} else {
		entry, rejects, err = g.backend.CreateEntry(ctx, req)
	}
	switch {
	case err != nil:
		return Failed{Err: err}
	case rejects != nil:
		return Rejected{Errors: rejects.Errors}
	default:
		return Accepted{Entry: *entry}
	}
}

// toRequest converts a draft into the wire payload.
func toRequest(draft domain.JournalDraft) dto.SaveJournalEntryRequest {
	lines := make([]dto.JournalLineRequest, len(draft.Lines))
	for i, l := range draft.Lines {
		lines[i] = dto.JournalLineRequest{
			ChartOfAccountID: l.AccountID,
			DebitAmount:      dto.RawAmount(l.Debit),
			CreditAmount:     dto.RawAmount(l.Credit),
			Memo:             l.Memo,
		}
	}
	return dto.SaveJournalEntryRequest{
		EntryDate:    draft.EntryDate,
		Description:  draft.Description,
		CurrencyCode: draft.CurrencyCode,
		SaveAsDraft:  draft.SaveAsDraft,
		Lines:        lines,
	}
}
