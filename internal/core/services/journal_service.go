package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpost/ledgerpost/internal/apperrors"
	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	portsrepo "github.com/ledgerpost/ledgerpost/internal/core/ports/repositories"
	portssvc "github.com/ledgerpost/ledgerpost/internal/core/ports/services"
	"github.com/ledgerpost/ledgerpost/internal/dto"
	"github.com/ledgerpost/ledgerpost/internal/middleware"
	"github.com/ledgerpost/ledgerpost/internal/utils/accounting"
)

var (
	// ErrEntryNotEditable indicates an attempt to edit a posted or reversed entry.
	ErrEntryNotEditable = errors.New("only draft entries can be edited")
	// ErrEntryNotDraft indicates a post attempt on a non-draft entry.
	ErrEntryNotDraft = errors.New("entry is not a draft")
	// ErrEntryNotPosted indicates a reversal attempt on a non-posted entry.
	ErrEntryNotPosted = errors.New("entry must be posted to be reversed")
	// ErrEntryAlreadyReversed indicates the entry already has a reversal.
	ErrEntryAlreadyReversed = errors.New("entry has already been reversed")
	// ErrEntryIsReversal indicates an attempt to reverse a reversal entry.
	ErrEntryIsReversal = errors.New("cannot reverse a reversal entry")
)

// Server-side validation messages. These cover rules the client cannot check
// locally; they surface through the same 422 envelope as the structural ones.
const (
	MsgEntryDateInvalid = "Entry date must be a valid date in YYYY-MM-DD format"
	MsgAccountUnknown   = "Selected account does not exist"
	MsgAccountInactive  = "Selected account is inactive"
	MsgCurrencyMismatch = "Account currency does not match the entry currency"
)

const (
	defaultCurrencyCode  = "USD"
	entryDateLayout      = "2006-01-02"
	defaultListPageSize  = 20
	maxListPageSize      = 100
	reversalMemoTemplate = "Reversal of: %s"
)

// journalEntryService provides journal entry operations: accumulated
// validation, atomic persistence, posting and reversal.
type journalEntryService struct {
	entryRepo  portsrepo.JournalEntryRepository
	accountSvc portssvc.AccountSvc
	now        func() time.Time
}

// NewJournalEntryService creates the journal entry service.
func NewJournalEntryService(entryRepo portsrepo.JournalEntryRepository, accountSvc portssvc.AccountSvc) portssvc.JournalEntrySvc {
	return &journalEntryService{
		entryRepo:  entryRepo,
		accountSvc: accountSvc,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.JournalEntrySvc = (*journalEntryService)(nil)

// validatedDraft is the outcome of full draft validation: the parsed pieces
// needed to build the persistent entry.
type validatedDraft struct {
	entryDate time.Time
	currency  string
	accounts  map[string]domain.Account
}

// validateDraft runs the structural rules and the server-side account rules,
// accumulating every failure. The returned *apperrors.ValidationError is nil
// when the draft is valid. An infrastructure failure while resolving accounts
// is returned as the second error and is not a validation outcome.
func (s *journalEntryService) validateDraft(ctx context.Context, draft domain.JournalDraft) (*validatedDraft, *apperrors.ValidationError, error) {
	result := accounting.ValidateDraft(draft)

	var entryDate time.Time
	if raw := strings.TrimSpace(draft.EntryDate); raw != "" {
		parsed, err := time.Parse(entryDateLayout, raw)
		if err != nil {
			result.AddFieldError("entry_date", MsgEntryDateInvalid)
		} else {
			entryDate = parsed
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(draft.CurrencyCode))
	if currency == "" {
		currency = defaultCurrencyCode
	}

	// Resolve the referenced accounts. Rules the client cannot evaluate
	// locally are accumulated into the same result so the caller sees the
	// full picture in one response.
	accountIDs := make([]string, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		if id := strings.TrimSpace(line.AccountID); id != "" {
			accountIDs = append(accountIDs, id)
		}
	}
	accounts := map[string]domain.Account{}
	if len(accountIDs) > 0 {
		var err error
		accounts, err = s.accountSvc.GetAccountsByIDs(ctx, uniqueStrings(accountIDs))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch accounts: %w", err)
		}
	}
	for i, line := range draft.Lines {
		id := strings.TrimSpace(line.AccountID)
		if id == "" {
			continue // already reported by the structural rules
		}
		account, found := accounts[id]
		switch {
		case !found:
			result.AddFieldError(domain.LineField(i, "chart_of_account_id"), MsgAccountUnknown)
		case !account.IsActive:
			result.AddFieldError(domain.LineField(i, "chart_of_account_id"), MsgAccountInactive)
		case account.CurrencyCode != currency:
			result.AddFieldError(domain.LineField(i, "chart_of_account_id"), MsgCurrencyMismatch)
		}
	}

	if !result.Valid() {
		return nil, apperrors.NewValidationError(result.ErrorMap()), nil
	}
	return &validatedDraft{entryDate: entryDate, currency: currency, accounts: accounts}, nil, nil
}

// buildLines converts validated draft lines into persistent lines. Amounts
// are rounded to two decimals, the ledger's posting precision.
func buildLines(draft domain.JournalDraft, entryID, userID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(draft.Lines))
	for i, dl := range draft.Lines {
		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			LineNo:    i + 1,
			AccountID: strings.TrimSpace(dl.AccountID),
			Debit:     domain.AmountOrZero(dl.Debit).Round(2),
			Credit:    domain.AmountOrZero(dl.Credit).Round(2),
			Memo:      dl.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

func lineTotals(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal) {
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

func accountTypes(accounts map[string]domain.Account) map[string]domain.AccountType {
	types := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		types[id] = account.AccountType
	}
	return types
}

// CreateEntry validates the payload and persists a new journal entry.
// Invalid payloads never reach the repository.
func (s *journalEntryService) CreateEntry(ctx context.Context, req dto.SaveJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	draft := req.ToDraft("")
	validated, invalid, err := s.validateDraft(ctx, draft)
	if err != nil {
		logger.Error("Failed to validate entry draft", slog.String("error", err.Error()))
		return nil, err
	}
	if invalid != nil {
		logger.Warn("Journal entry rejected by validation", slog.Int("problem_count", len(invalid.Errors)))
		return nil, invalid
	}

	now := s.now()
	entryID := uuid.NewString()
	lines := buildLines(draft, entryID, creatorUserID, now)
	totalDebits, totalCredits := lineTotals(lines)

	status := domain.Posted
	if draft.SaveAsDraft {
		status = domain.Draft
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		EntryDate:    validated.entryDate,
		Description:  strings.TrimSpace(draft.Description),
		CurrencyCode: validated.currency,
		Status:       status,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	balanceChanges := map[string]decimal.Decimal{}
	if status == domain.Posted {
		balanceChanges, err = accounting.BalanceChanges(lines, accountTypes(validated.accounts))
		if err != nil {
			logger.Error("Failed to compute balance changes", slog.String("error", err.Error()))
			return nil, fmt.Errorf("internal error computing balance changes: %w", err)
		}
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines, balanceChanges); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("status", string(entry.Status)),
		slog.String("total_debits", entry.TotalDebits.StringFixed(2)),
	)
	entry.Lines = lines
	return &entry, nil
}

// UpdateEntry revalidates and replaces a DRAFT entry. Submitting the update
// without save_as_draft posts the entry in the same operation.
func (s *journalEntryService) UpdateEntry(ctx context.Context, entryID string, req dto.SaveJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if !existing.IsEditable() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEntryNotEditable)
	}

	draft := req.ToDraft(entryID)
	validated, invalid, err := s.validateDraft(ctx, draft)
	if err != nil {
		logger.Error("Failed to validate entry draft", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	if invalid != nil {
		logger.Warn("Journal entry update rejected by validation", slog.String("entry_id", entryID))
		return nil, invalid
	}

	now := s.now()
	lines := buildLines(draft, entryID, userID, now)
	totalDebits, totalCredits := lineTotals(lines)

	status := domain.Posted
	if draft.SaveAsDraft {
		status = domain.Draft
	}

	entry := *existing
	entry.EntryDate = validated.entryDate
	entry.Description = strings.TrimSpace(draft.Description)
	entry.CurrencyCode = validated.currency
	entry.Status = status
	entry.TotalDebits = totalDebits
	entry.TotalCredits = totalCredits
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	balanceChanges := map[string]decimal.Decimal{}
	if status == domain.Posted {
		balanceChanges, err = accounting.BalanceChanges(lines, accountTypes(validated.accounts))
		if err != nil {
			return nil, fmt.Errorf("internal error computing balance changes: %w", err)
		}
	}

	if err := s.entryRepo.ReplaceEntry(ctx, entry, lines, balanceChanges); err != nil {
		logger.Error("Failed to replace journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID), slog.String("status", string(status)))
	entry.Lines = lines
	return &entry, nil
}

// PostEntry transitions a DRAFT entry to POSTED and applies balances.
func (s *journalEntryService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEntryNotDraft)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to load lines for posting", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load entry lines: %w", err)
	}

	changes, err := s.balanceChangesFor(ctx, lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.entryRepo.MarkPosted(ctx, entryID, changes, userID, now); err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID))
	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines
	return entry, nil
}

// ReverseEntry creates the mirror of a POSTED entry and links the pair.
func (s *journalEntryService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEntryIsReversal)
	}
	if original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEntryAlreadyReversed)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEntryNotPosted)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to load lines for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load entry lines: %w", err)
	}

	now := s.now()
	reversingID := uuid.NewString()
	reversingLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		mirrored := line.ReversedLine()
		mirrored.LineID = uuid.NewString()
		mirrored.EntryID = reversingID
		mirrored.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		reversingLines[i] = mirrored
	}

	changes, err := s.balanceChangesFor(ctx, reversingLines)
	if err != nil {
		return nil, err
	}

	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		EntryDate:       original.EntryDate,
		Description:     fmt.Sprintf(reversalMemoTemplate, original.Description),
		CurrencyCode:    original.CurrencyCode,
		Status:          domain.Posted,
		OriginalEntryID: &original.EntryID,
		TotalDebits:     original.TotalCredits,
		TotalCredits:    original.TotalDebits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.entryRepo.SaveReversal(ctx, reversing, reversingLines, changes, original.EntryID); err != nil {
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversingID),
	)
	reversing.Lines = reversingLines
	return &reversing, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalEntryService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to load entry lines", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a token-paginated page of entries.
func (s *journalEntryService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListPageSize
	}
	if limit > maxListPageSize {
		limit = maxListPageSize
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, limit, params.NextToken, params.Status)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	var linesByEntry map[string][]domain.JournalLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, entry := range entries {
			entryIDs[i] = entry.EntryID
		}
		linesByEntry, err = s.entryRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			// Serve the page without lines rather than failing it outright.
			logger.Warn("Failed to load lines for entry page", slog.String("error", err.Error()))
		}
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		if linesByEntry != nil {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// balanceChangesFor resolves account types for the lines and aggregates the
// signed deltas.
func (s *journalEntryService) balanceChangesFor(ctx context.Context, lines []domain.JournalLine) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	changes, err := accounting.BalanceChanges(lines, accountTypes(accounts))
	if err != nil {
		return nil, fmt.Errorf("internal error computing balance changes: %w", err)
	}
	return changes, nil
}

// uniqueStrings returns the unique strings from the input, preserving order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
