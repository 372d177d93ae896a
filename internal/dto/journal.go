package dto

import (
	"encoding/json"
	"time"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
)

// RawAmount is an amount field as it arrives from a form-shaped payload.
// Clients send amounts as strings ("100.00"), but a bare JSON number is
// accepted too; either way the raw text is preserved so coercion stays the
// balance calculator's concern.
type RawAmount string

func (a *RawAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = RawAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*a = RawAmount(n.String())
		return nil
	}
	// Anything else (null, object) degrades to empty, which coerces to zero.
	*a = ""
	return nil
}

func (a RawAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// JournalLineRequest is one row of the entry form payload.
type JournalLineRequest struct {
	ChartOfAccountID string    `json:"chart_of_account_id"`
	DebitAmount      RawAmount `json:"debit_amount"`
	CreditAmount     RawAmount `json:"credit_amount"`
	Memo             string    `json:"memo"`
}

// SaveJournalEntryRequest is the create/update payload for a journal entry.
// Business validation is accumulated by the service, so none of these fields
// carry binding tags beyond structure; a missing description must surface as
// a field error alongside every other problem, not as a lone 400.
type SaveJournalEntryRequest struct {
	EntryDate    string               `json:"entry_date"`
	Description  string               `json:"description"`
	CurrencyCode string               `json:"currency_code"`
	SaveAsDraft  bool                 `json:"save_as_draft"`
	Lines        []JournalLineRequest `json:"lines"`
}

// ToDraft converts the payload into the domain draft the validator and
// calculator operate on. entryID is empty for a create.
func (r SaveJournalEntryRequest) ToDraft(entryID string) domain.JournalDraft {
	lines := make([]domain.DraftLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.DraftLine{
			AccountID: l.ChartOfAccountID,
			Debit:     string(l.DebitAmount),
			Credit:    string(l.CreditAmount),
			Memo:      l.Memo,
		}
	}
	return domain.JournalDraft{
		EntryID:      entryID,
		EntryDate:    r.EntryDate,
		Description:  r.Description,
		CurrencyCode: r.CurrencyCode,
		SaveAsDraft:  r.SaveAsDraft,
		Lines:        lines,
	}
}

// JournalLineResponse is one persisted line in API responses. Amounts are
// rendered with two decimal places, the display precision of the ledger.
type JournalLineResponse struct {
	LineID           string `json:"line_id"`
	LineNo           int    `json:"line_no"`
	ChartOfAccountID string `json:"chart_of_account_id"`
	DebitAmount      string `json:"debit_amount"`
	CreditAmount     string `json:"credit_amount"`
	Memo             string `json:"memo,omitempty"`
}

// JournalEntryResponse is a persisted journal entry in API responses.
type JournalEntryResponse struct {
	EntryID          string                `json:"entry_id"`
	EntryDate        string                `json:"entry_date"`
	Description      string                `json:"description"`
	CurrencyCode     string                `json:"currency_code"`
	Status           string                `json:"status"`
	TotalDebits      string                `json:"total_debits"`
	TotalCredits     string                `json:"total_credits"`
	OriginalEntryID  *string               `json:"original_entry_id,omitempty"`
	ReversingEntryID *string               `json:"reversing_entry_id,omitempty"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	CreatedBy        string                `json:"created_by"`
}

// ListJournalEntriesResponse is the token-paginated list payload.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"next_token,omitempty"`
}

const entryDateFormat = "2006-01-02"

// ToJournalLineResponse converts a domain line.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:           l.LineID,
		LineNo:           l.LineNo,
		ChartOfAccountID: l.AccountID,
		DebitAmount:      l.Debit.StringFixed(2),
		CreditAmount:     l.Credit.StringFixed(2),
		Memo:             l.Memo,
	}
}

// ToJournalEntryResponse converts a domain entry, including its lines when
// they are loaded.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryDate:        e.EntryDate.Format(entryDateFormat),
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		Status:           string(e.Status),
		TotalDebits:      e.TotalDebits.StringFixed(2),
		TotalCredits:     e.TotalCredits.StringFixed(2),
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(&e.Lines[i])
		}
	}
	return resp
}

// ListJournalEntriesParams carries list filters from the query string.
type ListJournalEntriesParams struct {
	Limit        int
	NextToken    *string
	IncludeLines bool
	Status       string
}
