package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerpost/ledgerpost/internal/apperrors"
	"github.com/ledgerpost/ledgerpost/internal/core/domain"
	portsrepo "github.com/ledgerpost/ledgerpost/internal/core/ports/repositories"
	"github.com/ledgerpost/ledgerpost/internal/utils/pagination"
)

type PgxJournalEntryRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxJournalEntryRepository creates the repository for journal entry and
// line data. The account repository is injected for balance updates that must
// share the entry's transaction.
func newPgxJournalEntryRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) portsrepo.JournalEntryRepository {
	return &PgxJournalEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalEntryRepository = (*PgxJournalEntryRepository)(nil)

const entryColumns = `entry_id, entry_date, description, currency_code, status, original_entry_id, reversing_entry_id, total_debits, total_credits, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_no, account_id, debit, credit, memo, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.EntryDate,
		&e.Description,
		&e.CurrencyCode,
		&e.Status,
		&e.OriginalEntryID,
		&e.ReversingEntryID,
		&e.TotalDebits,
		&e.TotalCredits,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func scanLine(row pgx.Row) (domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.LineNo,
		&l.AccountID,
		&l.Debit,
		&l.Credit,
		&l.Memo,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

// insertEntryInTx inserts the entry header within an open transaction.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.CurrencyCode,
		entry.Status,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.TotalDebits,
		entry.TotalCredits,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// insertLinesInTx batch-inserts the entry's lines within an open transaction.
func insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.EntryID,
			line.LineNo,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Memo,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute line insert batch: %w", err)
	}
	return nil
}

// applyBalancesInTx locks the affected accounts and applies the deltas.
func (r *PgxJournalEntryRepository) applyBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// SaveEntry persists a new entry with its lines, applying balance deltas for
// posted entries, all within one database transaction.
func (r *PgxJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.applyBalancesInTx(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ReplaceEntry overwrites a draft entry's header and lines. When the entry
// arrives as POSTED, the balance deltas are applied in the same transaction.
func (r *PgxJournalEntryRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    currency_code = $4,
		    status = $5,
		    total_debits = $6,
		    total_credits = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.CurrencyCode,
		entry.Status,
		entry.TotalDebits,
		entry.TotalCredits,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either gone or no longer a draft; the status guard makes a
		// concurrent post lose instead of silently overwriting.
		return fmt.Errorf("%w: journal entry %s is not an editable draft", apperrors.ErrConflict, entry.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return fmt.Errorf("failed to delete lines for entry %s: %w", entry.EntryID, err)
	}

	if err := r.applyBalancesInTx(ctx, tx, balanceChanges, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkPosted transitions a draft to POSTED and applies balance deltas
// atomically.
func (r *PgxJournalEntryRepository) MarkPosted(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET status = 'POSTED', last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, at, userID)
	if err != nil {
		return fmt.Errorf("failed to post journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not a draft", apperrors.ErrConflict, entryID)
	}

	if err := r.applyBalancesInTx(ctx, tx, balanceChanges, userID, at); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists the reversing entry and marks the original REVERSED
// with the back-link, all in one transaction.
func (r *PgxJournalEntryRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, originalEntryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	linkQuery := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, linkQuery, originalEntryID, reversing.EntryID, reversing.CreatedAt, reversing.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// A concurrent reversal got there first, or the entry changed state.
		return fmt.Errorf("%w: journal entry %s cannot be reversed", apperrors.ErrConflict, originalEntryID)
	}

	if err := insertEntryInTx(ctx, tx, reversing); err != nil {
		return err
	}
	if err := r.applyBalancesInTx(ctx, tx, balanceChanges, reversing.CreatedBy, reversing.CreatedAt); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry header without its lines.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of one entry in display order.
func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_no;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry.
func (r *PgxJournalEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry IDs: %w", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		linesMap[line.EntryID] = append(linesMap[line.EntryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", err)
	}

	// Entries with no lines still get an entry in the map.
	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalLine{}
		}
	}
	return linesMap, nil
}

// ListEntries retrieves a token-paginated page of entries, newest first.
func (r *PgxJournalEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string, status string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	filterClause := `WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		args = append(args, status)
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid next_token: %s", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += fmt.Sprintf(` AND (entry_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}
