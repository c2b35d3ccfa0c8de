// source: journal.sql

package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createJournalEntry = `-- name: CreateJournalEntry :exec
INSERT INTO journal_entries (
    id, document_number, posting_date, document_date, fiscal_year, fiscal_period, currency,
    rate_id, rate_from, rate_to, rate_date, rate, rate_source, rate_created_at,
    description, source, status, total_debit, total_credit, reverses_entry_id, reversed_by_entry_id,
    created_by, posted_by, posted_at, version, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
    $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
)
`

type CreateJournalEntryParams struct {
	ID                string             `json:"id"`
	DocumentNumber    string             `json:"document_number"`
	PostingDate       pgtype.Date        `json:"posting_date"`
	DocumentDate      pgtype.Date        `json:"document_date"`
	FiscalYear        int32              `json:"fiscal_year"`
	FiscalPeriod      int32              `json:"fiscal_period"`
	Currency          string             `json:"currency"`
	RateID            pgtype.Text        `json:"rate_id"`
	RateFrom          pgtype.Text        `json:"rate_from"`
	RateTo            pgtype.Text        `json:"rate_to"`
	RateDate          pgtype.Date        `json:"rate_date"`
	Rate              pgtype.Numeric     `json:"rate"`
	RateSource        pgtype.Text        `json:"rate_source"`
	RateCreatedAt     pgtype.Timestamptz `json:"rate_created_at"`
	Description       string             `json:"description"`
	Source            string             `json:"source"`
	Status            string             `json:"status"`
	TotalDebit        pgtype.Numeric     `json:"total_debit"`
	TotalCredit       pgtype.Numeric     `json:"total_credit"`
	ReversesEntryID   pgtype.Text        `json:"reverses_entry_id"`
	ReversedByEntryID pgtype.Text        `json:"reversed_by_entry_id"`
	CreatedBy         string             `json:"created_by"`
	PostedBy          string             `json:"posted_by"`
	PostedAt          pgtype.Timestamptz `json:"posted_at"`
	Version           int64              `json:"version"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateJournalEntry(ctx context.Context, arg CreateJournalEntryParams) error {
	_, err := q.db.Exec(ctx, createJournalEntry,
		arg.ID,
		arg.DocumentNumber,
		arg.PostingDate,
		arg.DocumentDate,
		arg.FiscalYear,
		arg.FiscalPeriod,
		arg.Currency,
		arg.RateID,
		arg.RateFrom,
		arg.RateTo,
		arg.RateDate,
		arg.Rate,
		arg.RateSource,
		arg.RateCreatedAt,
		arg.Description,
		arg.Source,
		arg.Status,
		arg.TotalDebit,
		arg.TotalCredit,
		arg.ReversesEntryID,
		arg.ReversedByEntryID,
		arg.CreatedBy,
		arg.PostedBy,
		arg.PostedAt,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteJournalEntryLines = `-- name: DeleteJournalEntryLines :exec
DELETE FROM journal_entry_lines WHERE entry_id = $1
`

func (q *Queries) DeleteJournalEntryLines(ctx context.Context, entryID string) error {
	_, err := q.db.Exec(ctx, deleteJournalEntryLines, entryID)
	return err
}

const getJournalEntryByID = `-- name: GetJournalEntryByID :one
SELECT id, document_number, posting_date, document_date, fiscal_year, fiscal_period, currency,
       rate_id, rate_from, rate_to, rate_date, rate, rate_source, rate_created_at,
       description, source, status, total_debit, total_credit, reverses_entry_id, reversed_by_entry_id,
       created_by, posted_by, posted_at, version, created_at, updated_at
FROM journal_entries
WHERE id = $1
`

func (q *Queries) GetJournalEntryByID(ctx context.Context, id string) (JournalEntry, error) {
	row := q.db.QueryRow(ctx, getJournalEntryByID, id)
	return scanJournalEntry(row)
}

const getJournalEntryLines = `-- name: GetJournalEntryLines :many
SELECT id, entry_id, line_no, account_id, side, amount, description, cost_center, project, business_area, partner
FROM journal_entry_lines
WHERE entry_id = ANY($1::text[])
ORDER BY entry_id, line_no
`

func (q *Queries) GetJournalEntryLines(ctx context.Context, entryIds []string) ([]JournalEntryLine, error) {
	rows, err := q.db.Query(ctx, getJournalEntryLines, entryIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalEntryLine
	for rows.Next() {
		var i JournalEntryLine
		if err := rows.Scan(
			&i.ID,
			&i.EntryID,
			&i.LineNo,
			&i.AccountID,
			&i.Side,
			&i.Amount,
			&i.Description,
			&i.CostCenter,
			&i.Project,
			&i.BusinessArea,
			&i.Partner,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertJournalEntryLine = `-- name: InsertJournalEntryLine :exec
INSERT INTO journal_entry_lines (
    id, entry_id, line_no, account_id, side, amount, description, cost_center, project, business_area, partner
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type InsertJournalEntryLineParams struct {
	ID           string         `json:"id"`
	EntryID      string         `json:"entry_id"`
	LineNo       int32          `json:"line_no"`
	AccountID    string         `json:"account_id"`
	Side         string         `json:"side"`
	Amount       pgtype.Numeric `json:"amount"`
	Description  string         `json:"description"`
	CostCenter   string         `json:"cost_center"`
	Project      string         `json:"project"`
	BusinessArea string         `json:"business_area"`
	Partner      string         `json:"partner"`
}

func (q *Queries) InsertJournalEntryLine(ctx context.Context, arg InsertJournalEntryLineParams) error {
	_, err := q.db.Exec(ctx, insertJournalEntryLine,
		arg.ID,
		arg.EntryID,
		arg.LineNo,
		arg.AccountID,
		arg.Side,
		arg.Amount,
		arg.Description,
		arg.CostCenter,
		arg.Project,
		arg.BusinessArea,
		arg.Partner,
	)
	return err
}

const listJournalEntries = `-- name: ListJournalEntries :many
SELECT id, document_number, posting_date, document_date, fiscal_year, fiscal_period, currency,
       rate_id, rate_from, rate_to, rate_date, rate, rate_source, rate_created_at,
       description, source, status, total_debit, total_credit, reverses_entry_id, reversed_by_entry_id,
       created_by, posted_by, posted_at, version, created_at, updated_at
FROM journal_entries
WHERE ($1::text = '' OR status = $1::text)
  AND ($2::int = 0 OR fiscal_year = $2::int)
  AND ($3::int = 0 OR fiscal_period = $3::int)
ORDER BY posting_date DESC, document_number
LIMIT $4 OFFSET $5
`

type ListJournalEntriesParams struct {
	Status       string `json:"status"`
	FiscalYear   int32  `json:"fiscal_year"`
	FiscalPeriod int32  `json:"fiscal_period"`
	PageLimit    int32  `json:"page_limit"`
	PageOffset   int32  `json:"page_offset"`
}

func (q *Queries) ListJournalEntries(ctx context.Context, arg ListJournalEntriesParams) ([]JournalEntry, error) {
	rows, err := q.db.Query(ctx, listJournalEntries,
		arg.Status,
		arg.FiscalYear,
		arg.FiscalPeriod,
		arg.PageLimit,
		arg.PageOffset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalEntry
	for rows.Next() {
		i, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateJournalEntry = `-- name: UpdateJournalEntry :execrows
UPDATE journal_entries
SET rate_id = $3, rate_from = $4, rate_to = $5, rate_date = $6, rate = $7, rate_source = $8, rate_created_at = $9,
    description = $10, status = $11, total_debit = $12, total_credit = $13, reversed_by_entry_id = $14,
    posted_by = $15, posted_at = $16, version = version + 1, updated_at = $17
WHERE id = $1 AND version = $2
`

type UpdateJournalEntryParams struct {
	ID                string             `json:"id"`
	Version           int64              `json:"version"`
	RateID            pgtype.Text        `json:"rate_id"`
	RateFrom          pgtype.Text        `json:"rate_from"`
	RateTo            pgtype.Text        `json:"rate_to"`
	RateDate          pgtype.Date        `json:"rate_date"`
	Rate              pgtype.Numeric     `json:"rate"`
	RateSource        pgtype.Text        `json:"rate_source"`
	RateCreatedAt     pgtype.Timestamptz `json:"rate_created_at"`
	Description       string             `json:"description"`
	Status            string             `json:"status"`
	TotalDebit        pgtype.Numeric     `json:"total_debit"`
	TotalCredit       pgtype.Numeric     `json:"total_credit"`
	ReversedByEntryID pgtype.Text        `json:"reversed_by_entry_id"`
	PostedBy          string             `json:"posted_by"`
	PostedAt          pgtype.Timestamptz `json:"posted_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateJournalEntry(ctx context.Context, arg UpdateJournalEntryParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateJournalEntry,
		arg.ID,
		arg.Version,
		arg.RateID,
		arg.RateFrom,
		arg.RateTo,
		arg.RateDate,
		arg.Rate,
		arg.RateSource,
		arg.RateCreatedAt,
		arg.Description,
		arg.Status,
		arg.TotalDebit,
		arg.TotalCredit,
		arg.ReversedByEntryID,
		arg.PostedBy,
		arg.PostedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanJournalEntry(row rowScanner) (JournalEntry, error) {
	var i JournalEntry
	err := row.Scan(
		&i.ID,
		&i.DocumentNumber,
		&i.PostingDate,
		&i.DocumentDate,
		&i.FiscalYear,
		&i.FiscalPeriod,
		&i.Currency,
		&i.RateID,
		&i.RateFrom,
		&i.RateTo,
		&i.RateDate,
		&i.Rate,
		&i.RateSource,
		&i.RateCreatedAt,
		&i.Description,
		&i.Source,
		&i.Status,
		&i.TotalDebit,
		&i.TotalCredit,
		&i.ReversesEntryID,
		&i.ReversedByEntryID,
		&i.CreatedBy,
		&i.PostedBy,
		&i.PostedAt,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
