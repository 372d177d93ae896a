package submit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/dto"
	"github.com/ledgerpost/ledgerpost/internal/utils/accounting"
)

// fakeBackend counts calls and returns canned responses. block, when set, is
// closed by the test to release in-flight calls.
type fakeBackend struct {
	createCalls int64
	updateCalls int64
	entry       *dto.JournalEntryResponse
	rejects     *dto.ErrorsResponse
	err         error
	block       chan struct{}
}

func (f *fakeBackend) CreateEntry(ctx context.Context, req dto.SaveJournalEntryRequest) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error) {
	atomic.AddInt64(&f.createCalls, 1)
	if f.block != nil {
		<-f.block
	}
	return f.entry, f.rejects, f.err
}

func (f *fakeBackend) UpdateEntry(ctx context.Context, entryID string, req dto.SaveJournalEntryRequest) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error) {
	atomic.AddInt64(&f.updateCalls, 1)
	return f.entry, f.rejects, f.err
}

func validDraft() domain.JournalDraft {
	return domain.JournalDraft{
		EntryDate:   "2025-06-30",
		Description: "Office supplies",
		Lines: []domain.DraftLine{
			{AccountID: "acc-1", Debit: "100.00"},
			{AccountID: "acc-2", Credit: "100.00"},
		},
	}
}

func TestSubmit_Accepted(t *testing.T) {
	backend := &fakeBackend{entry: &dto.JournalEntryResponse{EntryID: "e-1", Status: "POSTED"}}
	gate := NewGate(backend)

	outcome := gate.Submit(context.Background(), validDraft())

	accepted, ok := outcome.(Accepted)
	require.True(t, ok, "expected Accepted, got %T", outcome)
	assert.Equal(t, "e-1", accepted.Entry.EntryID)
	assert.EqualValues(t, 1, backend.createCalls)
	assert.False(t, gate.Submitting())
}

func TestSubmit_UpdateWhenDraftHasEntryID(t *testing.T) {
	backend := &fakeBackend{entry: &dto.JournalEntryResponse{EntryID: "e-1"}}
	gate := NewGate(backend)

	draft := validDraft()
	draft.EntryID = "e-1"
	outcome := gate.Submit(context.Background(), draft)

	_, ok := outcome.(Accepted)
	require.True(t, ok, "expected Accepted, got %T", outcome)
	assert.EqualValues(t, 0, backend.createCalls)
	assert.EqualValues(t, 1, backend.updateCalls)
}

func TestSubmit_InvalidDraftNeverReachesBackend(t *testing.T) {
	backend := &fakeBackend{}
	gate := NewGate(backend)

	draft := validDraft()
	draft.Description = ""
	draft.Lines[1].Credit = "40.00" // also unbalanced now

	outcome := gate.Submit(context.Background(), draft)

	rejected, ok := outcome.(Rejected)
	require.True(t, ok, "expected Rejected, got %T", outcome)
	assert.True(t, rejected.Local)
	assert.Contains(t, rejected.Errors["description"], accounting.MsgDescriptionRequired)
	assert.Contains(t, rejected.Errors["entry"], accounting.MsgUnbalanced)
	assert.EqualValues(t, 0, backend.createCalls)
}

func TestSubmit_ServerRejection(t *testing.T) {
	backend := &fakeBackend{rejects: &dto.ErrorsResponse{
		Errors: map[string][]string{"lines.0.chart_of_account_id": {"Selected account does not exist"}},
	}}
	gate := NewGate(backend)

	outcome := gate.Submit(context.Background(), validDraft())

	rejected, ok := outcome.(Rejected)
	require.True(t, ok, "expected Rejected, got %T", outcome)
	assert.False(t, rejected.Local)
	assert.Contains(t, rejected.Errors, "lines.0.chart_of_account_id")
}

func TestSubmit_TransportFailure(t *testing.T) {
	backendErr := errors.New("connection refused")
	backend := &fakeBackend{err: backendErr}
	gate := NewGate(backend)

	outcome := gate.Submit(context.Background(), validDraft())

	failed, ok := outcome.(Failed)
	require.True(t, ok, "expected Failed, got %T", outcome)
	assert.ErrorIs(t, failed.Err, backendErr)
	assert.False(t, gate.Submitting())
}

func TestSubmit_ConcurrentSubmitsCallBackendOnce(t *testing.T) {
	backend := &fakeBackend{
		entry: &dto.JournalEntryResponse{EntryID: "e-1"},
		block: make(chan struct{}),
	}
	gate := NewGate(backend)
	draft := validDraft()

	var firstOutcome Outcome
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstOutcome = gate.Submit(context.Background(), draft)
	}()

	// Wait until the first submit holds the gate.
	require.Eventually(t, gate.Submitting, time.Second, time.Millisecond)

	// Every attempt while the first is in flight is dropped at the guard.
	const attempts = 8
	for i := 0; i < attempts; i++ {
		outcome := gate.Submit(context.Background(), draft)
		_, ok := outcome.(Busy)
		require.True(t, ok, "expected Busy, got %T", outcome)
	}

	close(backend.block)
	wg.Wait()

	_, ok := firstOutcome.(Accepted)
	require.True(t, ok, "expected Accepted, got %T", firstOutcome)
	assert.EqualValues(t, 1, backend.createCalls, "backend must be called exactly once")
}
