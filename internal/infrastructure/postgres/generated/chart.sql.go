// source: chart.sql

package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createChart = `-- name: CreateChart :exec
INSERT INTO charts_of_accounts (id, organization_id, code, name, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateChartParams struct {
	ID             string             `json:"id"`
	OrganizationID string             `json:"organization_id"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Status         string             `json:"status"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateChart(ctx context.Context, arg CreateChartParams) error {
	_, err := q.db.Exec(ctx, createChart,
		arg.ID,
		arg.OrganizationID,
		arg.Code,
		arg.Name,
		arg.Status,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getChartByID = `-- name: GetChartByID :one
SELECT id, organization_id, code, name, status, version, created_at, updated_at
FROM charts_of_accounts
WHERE id = $1
`

func (q *Queries) GetChartByID(ctx context.Context, id string) (ChartsOfAccount, error) {
	row := q.db.QueryRow(ctx, getChartByID, id)
	var i ChartsOfAccount
	err := row.Scan(
		&i.ID,
		&i.OrganizationID,
		&i.Code,
		&i.Name,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCharts = `-- name: ListCharts :many
SELECT id, organization_id, code, name, status, version, created_at, updated_at
FROM charts_of_accounts
WHERE ($1::text = '' OR organization_id = $1::text)
ORDER BY code
LIMIT $2 OFFSET $3
`

type ListChartsParams struct {
	OrganizationID string `json:"organization_id"`
	PageLimit      int32  `json:"page_limit"`
	PageOffset     int32  `json:"page_offset"`
}

func (q *Queries) ListCharts(ctx context.Context, arg ListChartsParams) ([]ChartsOfAccount, error) {
	rows, err := q.db.Query(ctx, listCharts, arg.OrganizationID, arg.PageLimit, arg.PageOffset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChartsOfAccount
	for rows.Next() {
		var i ChartsOfAccount
		if err := rows.Scan(
			&i.ID,
			&i.OrganizationID,
			&i.Code,
			&i.Name,
			&i.Status,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateChart = `-- name: UpdateChart :execrows
UPDATE charts_of_accounts
SET name = $3, status = $4, version = version + 1, updated_at = $5
WHERE id = $1 AND version = $2
`

type UpdateChartParams struct {
	ID        string             `json:"id"`
	Version   int64              `json:"version"`
	Name      string             `json:"name"`
	Status    string             `json:"status"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateChart(ctx context.Context, arg UpdateChartParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateChart,
		arg.ID,
		arg.Version,
		arg.Name,
		arg.Status,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
