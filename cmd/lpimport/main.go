// Command lpimport submits journal entries from a JSON file to a running
// ledgerpost server, one at a time through the local submission gate so each
// entry is fully validated before it goes over the wire.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	"github.com/ledgerpost/ledgerpost/internal/submit"
)

// importFile is the expected shape of the input: a list of drafts in the
// same field layout as the API payload.
type importFile struct {
	Entries []importEntry `json:"entries"`
}

type importEntry struct {
	EntryDate    string       `json:"entry_date"`
	Description  string       `json:"description"`
	CurrencyCode string       `json:"currency_code"`
	SaveAsDraft  bool         `json:"save_as_draft"`
	Lines        []importLine `json:"lines"`
}

type importLine struct {
	ChartOfAccountID string `json:"chart_of_account_id"`
	DebitAmount      string `json:"debit_amount"`
	CreditAmount     string `json:"credit_amount"`
	Memo             string `json:"memo"`
}

func (e importEntry) toDraft() domain.JournalDraft {
	lines := make([]domain.DraftLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = domain.DraftLine{
			AccountID: l.ChartOfAccountID,
			Debit:     l.DebitAmount,
			Credit:    l.CreditAmount,
			Memo:      l.Memo,
		}
	}
	return domain.JournalDraft{
		EntryDate:    e.EntryDate,
		Description:  e.Description,
		CurrencyCode: e.CurrencyCode,
		SaveAsDraft:  e.SaveAsDraft,
		Lines:        lines,
	}
}

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "Base URL of the ledgerpost server")
		token     = flag.String("token", "", "Bearer token for the API")
		inputPath = flag.String("file", "", "Path to the JSON file with entries to import")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: lpimport -file entries.json [-server URL] [-token TOKEN]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Error("Failed to read input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var file importFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Error("Failed to parse input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gate := submit.NewGate(submit.NewHTTPBackend(*serverURL, *token))

	accepted, rejected, failed := 0, 0, 0
	for i, entry := range file.Entries {
		outcome := gate.Submit(context.Background(), entry.toDraft())
		switch o := outcome.(type) {
		case submit.Accepted:
			accepted++
			logger.Info("Entry accepted",
				slog.Int("index", i),
				slog.String("entry_id", o.Entry.EntryID),
				slog.String("status", o.Entry.Status),
			)
		case submit.Rejected:
			rejected++
			logger.Warn("Entry rejected",
				slog.Int("index", i),
				slog.Bool("local", o.Local),
			)
			printProblems(os.Stderr, i, o.Errors)
		case submit.Failed:
			failed++
			logger.Error("Submission failed",
				slog.Int("index", i),
				slog.String("error", o.Err.Error()),
			)
		}
	}

	fmt.Printf("imported %d of %d entries (%d rejected, %d failed)\n",
		accepted, len(file.Entries), rejected, failed)
	if rejected > 0 || failed > 0 {
		os.Exit(1)
	}
}

// printProblems renders a rejection's field errors in stable order.
func printProblems(w *os.File, index int, errs map[string][]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, msg := range errs[field] {
			fmt.Fprintf(w, "  entry %d: %s: %s\n", index, field, msg)
		}
	}
}
