// source: exchange_rate.sql

package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createExchangeRate = `-- name: CreateExchangeRate :exec
INSERT INTO exchange_rates (id, from_currency, to_currency, rate_date, rate, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateExchangeRateParams struct {
	ID           string             `json:"id"`
	FromCurrency string             `json:"from_currency"`
	ToCurrency   string             `json:"to_currency"`
	RateDate     pgtype.Date        `json:"rate_date"`
	Rate         pgtype.Numeric     `json:"rate"`
	Source       string             `json:"source"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateExchangeRate(ctx context.Context, arg CreateExchangeRateParams) error {
	_, err := q.db.Exec(ctx, createExchangeRate,
		arg.ID,
		arg.FromCurrency,
		arg.ToCurrency,
		arg.RateDate,
		arg.Rate,
		arg.Source,
		arg.CreatedAt,
	)
	return err
}

const findEffectiveExchangeRate = `-- name: FindEffectiveExchangeRate :one
SELECT id, from_currency, to_currency, rate_date, rate, source, created_at
FROM exchange_rates
WHERE from_currency = $1 AND to_currency = $2 AND rate_date <= $3
ORDER BY rate_date DESC
LIMIT 1
`

type FindEffectiveExchangeRateParams struct {
	FromCurrency string      `json:"from_currency"`
	ToCurrency   string      `json:"to_currency"`
	RateDate     pgtype.Date `json:"rate_date"`
}

func (q *Queries) FindEffectiveExchangeRate(ctx context.Context, arg FindEffectiveExchangeRateParams) (ExchangeRate, error) {
	row := q.db.QueryRow(ctx, findEffectiveExchangeRate, arg.FromCurrency, arg.ToCurrency, arg.RateDate)
	var i ExchangeRate
	err := row.Scan(
		&i.ID,
		&i.FromCurrency,
		&i.ToCurrency,
		&i.RateDate,
		&i.Rate,
		&i.Source,
		&i.CreatedAt,
	)
	return i, err
}

const getExchangeRateByID = `-- name: GetExchangeRateByID :one
SELECT id, from_currency, to_currency, rate_date, rate, source, created_at
FROM exchange_rates
WHERE id = $1
`

func (q *Queries) GetExchangeRateByID(ctx context.Context, id string) (ExchangeRate, error) {
	row := q.db.QueryRow(ctx, getExchangeRateByID, id)
	var i ExchangeRate
	err := row.Scan(
		&i.ID,
		&i.FromCurrency,
		&i.ToCurrency,
		&i.RateDate,
		&i.Rate,
		&i.Source,
		&i.CreatedAt,
	)
	return i, err
}
