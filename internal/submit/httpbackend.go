package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerpost/ledgerpost/internal/dto"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPBackend talks to a ledgerpost server over its REST API.
type HTTPBackend struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ Backend = (*HTTPBackend)(nil)

// NewHTTPBackend creates a backend against baseURL (e.g.
// "http://localhost:8080"), authenticating with the given bearer token.
func NewHTTPBackend(baseURL, token string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (b *HTTPBackend) CreateEntry(ctx context.Context, req dto.SaveJournalEntryRequest) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error) {
	return b.send(ctx, http.MethodPost, b.baseURL+"/api/v1/journal-entries", req, http.StatusCreated)
}

func (b *HTTPBackend) UpdateEntry(ctx context.Context, entryID string, req dto.SaveJournalEntryRequest) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error) {
	return b.send(ctx, http.MethodPut, b.baseURL+"/api/v1/journal-entries/"+entryID, req, http.StatusOK)
}

// send performs one request and maps the response onto the backend contract:
// the expected success status decodes into an entry, 422 decodes into the
// errors envelope, anything else is a failure.
func (b *HTTPBackend) send(ctx context.Context, method, url string, payload dto.SaveJournalEntryRequest, wantStatus int) (*dto.JournalEntryResponse, *dto.ErrorsResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode entry payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case wantStatus:
		var entry dto.JournalEntryResponse
		if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
			return nil, nil, fmt.Errorf("failed to decode entry response: %w", err)
		}
		return &entry, nil, nil
	case http.StatusUnprocessableEntity:
		var rejects dto.ErrorsResponse
		if err := json.NewDecoder(resp.Body).Decode(&rejects); err != nil {
			return nil, nil, fmt.Errorf("failed to decode validation response: %w", err)
		}
		return nil, &rejects, nil
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}
}
