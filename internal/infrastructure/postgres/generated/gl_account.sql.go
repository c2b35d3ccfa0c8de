// source: gl_account.sql

package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createGLAccount = `-- name: CreateGLAccount :exec
INSERT INTO gl_accounts (
    id, chart_id, number, name, type, class, statement, normal_balance, currency,
    allow_posting, allow_manual_posting, require_cost_center, require_project, require_partner,
    parent_id, status, version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

type CreateGLAccountParams struct {
	ID                 string             `json:"id"`
	ChartID            string             `json:"chart_id"`
	Number             string             `json:"number"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Class              string             `json:"class"`
	Statement          string             `json:"statement"`
	NormalBalance      string             `json:"normal_balance"`
	Currency           string             `json:"currency"`
	AllowPosting       bool               `json:"allow_posting"`
	AllowManualPosting bool               `json:"allow_manual_posting"`
	RequireCostCenter  bool               `json:"require_cost_center"`
	RequireProject     bool               `json:"require_project"`
	RequirePartner     bool               `json:"require_partner"`
	ParentID           pgtype.Text        `json:"parent_id"`
	Status             string             `json:"status"`
	Version            int64              `json:"version"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateGLAccount(ctx context.Context, arg CreateGLAccountParams) error {
	_, err := q.db.Exec(ctx, createGLAccount,
		arg.ID,
		arg.ChartID,
		arg.Number,
		arg.Name,
		arg.Type,
		arg.Class,
		arg.Statement,
		arg.NormalBalance,
		arg.Currency,
		arg.AllowPosting,
		arg.AllowManualPosting,
		arg.RequireCostCenter,
		arg.RequireProject,
		arg.RequirePartner,
		arg.ParentID,
		arg.Status,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getGLAccountByID = `-- name: GetGLAccountByID :one
SELECT id, chart_id, number, name, type, class, statement, normal_balance, currency,
       allow_posting, allow_manual_posting, require_cost_center, require_project, require_partner,
       parent_id, status, version, created_at, updated_at
FROM gl_accounts
WHERE id = $1
`

func (q *Queries) GetGLAccountByID(ctx context.Context, id string) (GlAccount, error) {
	row := q.db.QueryRow(ctx, getGLAccountByID, id)
	return scanGlAccount(row)
}

const getGLAccountByNumber = `-- name: GetGLAccountByNumber :one
SELECT id, chart_id, number, name, type, class, statement, normal_balance, currency,
       allow_posting, allow_manual_posting, require_cost_center, require_project, require_partner,
       parent_id, status, version, created_at, updated_at
FROM gl_accounts
WHERE chart_id = $1 AND number = $2
`

type GetGLAccountByNumberParams struct {
	ChartID string `json:"chart_id"`
	Number  string `json:"number"`
}

func (q *Queries) GetGLAccountByNumber(ctx context.Context, arg GetGLAccountByNumberParams) (GlAccount, error) {
	row := q.db.QueryRow(ctx, getGLAccountByNumber, arg.ChartID, arg.Number)
	return scanGlAccount(row)
}

const getGLAccountsByIDs = `-- name: GetGLAccountsByIDs :many
SELECT id, chart_id, number, name, type, class, statement, normal_balance, currency,
       allow_posting, allow_manual_posting, require_cost_center, require_project, require_partner,
       parent_id, status, version, created_at, updated_at
FROM gl_accounts
WHERE id = ANY($1::text[])
`

func (q *Queries) GetGLAccountsByIDs(ctx context.Context, ids []string) ([]GlAccount, error) {
	rows, err := q.db.Query(ctx, getGLAccountsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GlAccount
	for rows.Next() {
		i, err := scanGlAccount(rows)
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

const listGLAccountsByChart = `-- name: ListGLAccountsByChart :many
SELECT id, chart_id, number, name, type, class, statement, normal_balance, currency,
       allow_posting, allow_manual_posting, require_cost_center, require_project, require_partner,
       parent_id, status, version, created_at, updated_at
FROM gl_accounts
WHERE chart_id = $1
ORDER BY number
LIMIT $2 OFFSET $3
`

type ListGLAccountsByChartParams struct {
	ChartID string `json:"chart_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListGLAccountsByChart(ctx context.Context, arg ListGLAccountsByChartParams) ([]GlAccount, error) {
	rows, err := q.db.Query(ctx, listGLAccountsByChart, arg.ChartID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GlAccount
	for rows.Next() {
		i, err := scanGlAccount(rows)
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

const updateGLAccount = `-- name: UpdateGLAccount :execrows
UPDATE gl_accounts
SET name = $3, allow_posting = $4, allow_manual_posting = $5, require_cost_center = $6,
    require_project = $7, require_partner = $8, status = $9, version = version + 1, updated_at = $10
WHERE id = $1 AND version = $2
`

type UpdateGLAccountParams struct {
	ID                 string             `json:"id"`
	Version            int64              `json:"version"`
	Name               string             `json:"name"`
	AllowPosting       bool               `json:"allow_posting"`
	AllowManualPosting bool               `json:"allow_manual_posting"`
	RequireCostCenter  bool               `json:"require_cost_center"`
	RequireProject     bool               `json:"require_project"`
	RequirePartner     bool               `json:"require_partner"`
	Status             string             `json:"status"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateGLAccount(ctx context.Context, arg UpdateGLAccountParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateGLAccount,
		arg.ID,
		arg.Version,
		arg.Name,
		arg.AllowPosting,
		arg.AllowManualPosting,
		arg.RequireCostCenter,
		arg.RequireProject,
		arg.RequirePartner,
		arg.Status,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGlAccount(row rowScanner) (GlAccount, error) {
	var i GlAccount
	err := row.Scan(
		&i.ID,
		&i.ChartID,
		&i.Number,
		&i.Name,
		&i.Type,
		&i.Class,
		&i.Statement,
		&i.NormalBalance,
		&i.Currency,
		&i.AllowPosting,
		&i.AllowManualPosting,
		&i.RequireCostCenter,
		&i.RequireProject,
		&i.RequirePartner,
		&i.ParentID,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
