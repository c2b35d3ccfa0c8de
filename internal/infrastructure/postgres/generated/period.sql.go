// source: period.sql

package generated

import (
	"context"
)

const getFiscalPeriodStatus = `-- name: GetFiscalPeriodStatus :one
SELECT status FROM fiscal_periods WHERE fiscal_year = $1 AND fiscal_period = $2
`

type GetFiscalPeriodStatusParams struct {
	FiscalYear   int32 `json:"fiscal_year"`
	FiscalPeriod int32 `json:"fiscal_period"`
}

func (q *Queries) GetFiscalPeriodStatus(ctx context.Context, arg GetFiscalPeriodStatusParams) (string, error) {
	row := q.db.QueryRow(ctx, getFiscalPeriodStatus, arg.FiscalYear, arg.FiscalPeriod)
	var status string
	err := row.Scan(&status)
	return status, err
}

const nextDocumentNumber = `-- name: NextDocumentNumber :one
INSERT INTO document_sequences (series, last_value) VALUES ($1, 1)
ON CONFLICT (series) DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value
`

func (q *Queries) NextDocumentNumber(ctx context.Context, series string) (int64, error) {
	row := q.db.QueryRow(ctx, nextDocumentNumber, series)
	var lastValue int64
	err := row.Scan(&lastValue)
	return lastValue, err
}

const setFiscalPeriodStatus = `-- name: SetFiscalPeriodStatus :exec
INSERT INTO fiscal_periods (fiscal_year, fiscal_period, status) VALUES ($1, $2, $3)
ON CONFLICT (fiscal_year, fiscal_period) DO UPDATE SET status = EXCLUDED.status
`

type SetFiscalPeriodStatusParams struct {
	FiscalYear   int32  `json:"fiscal_year"`
	FiscalPeriod int32  `json:"fiscal_period"`
	Status       string `json:"status"`
}

func (q *Queries) SetFiscalPeriodStatus(ctx context.Context, arg SetFiscalPeriodStatusParams) error {
	_, err := q.db.Exec(ctx, setFiscalPeriodStatus, arg.FiscalYear, arg.FiscalPeriod, arg.Status)
	return err
}
