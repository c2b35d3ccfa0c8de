// source: balance.sql

package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getAccountBalance = `-- name: GetAccountBalance :one
SELECT account_id, fiscal_year, fiscal_period, currency, normal_balance, opening, debit_total, credit_total, closing, version, updated_at
FROM account_balances
WHERE account_id = $1 AND fiscal_year = $2 AND fiscal_period = $3
`

type GetAccountBalanceParams struct {
	AccountID    string `json:"account_id"`
	FiscalYear   int32  `json:"fiscal_year"`
	FiscalPeriod int32  `json:"fiscal_period"`
}

func (q *Queries) GetAccountBalance(ctx context.Context, arg GetAccountBalanceParams) (AccountBalance, error) {
	row := q.db.QueryRow(ctx, getAccountBalance, arg.AccountID, arg.FiscalYear, arg.FiscalPeriod)
	return scanAccountBalance(row)
}

const insertAccountBalance = `-- name: InsertAccountBalance :execrows
INSERT INTO account_balances (
    account_id, fiscal_year, fiscal_period, currency, normal_balance, opening, debit_total, credit_total, closing, version, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10)
ON CONFLICT (account_id, fiscal_year, fiscal_period) DO NOTHING
`

type InsertAccountBalanceParams struct {
	AccountID     string             `json:"account_id"`
	FiscalYear    int32              `json:"fiscal_year"`
	FiscalPeriod  int32              `json:"fiscal_period"`
	Currency      string             `json:"currency"`
	NormalBalance string             `json:"normal_balance"`
	Opening       pgtype.Numeric     `json:"opening"`
	DebitTotal    pgtype.Numeric     `json:"debit_total"`
	CreditTotal   pgtype.Numeric     `json:"credit_total"`
	Closing       pgtype.Numeric     `json:"closing"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) InsertAccountBalance(ctx context.Context, arg InsertAccountBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertAccountBalance,
		arg.AccountID,
		arg.FiscalYear,
		arg.FiscalPeriod,
		arg.Currency,
		arg.NormalBalance,
		arg.Opening,
		arg.DebitTotal,
		arg.CreditTotal,
		arg.Closing,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listBalancesForPeriod = `-- name: ListBalancesForPeriod :many
SELECT account_id, fiscal_year, fiscal_period, currency, normal_balance, opening, debit_total, credit_total, closing, version, updated_at
FROM account_balances
WHERE fiscal_year = $1 AND fiscal_period = $2
ORDER BY account_id
`

type ListBalancesForPeriodParams struct {
	FiscalYear   int32 `json:"fiscal_year"`
	FiscalPeriod int32 `json:"fiscal_period"`
}

func (q *Queries) ListBalancesForPeriod(ctx context.Context, arg ListBalancesForPeriodParams) ([]AccountBalance, error) {
	rows, err := q.db.Query(ctx, listBalancesForPeriod, arg.FiscalYear, arg.FiscalPeriod)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AccountBalance
	for rows.Next() {
		i, err := scanAccountBalance(rows)
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

const periodTotals = `-- name: PeriodTotals :many
SELECT currency,
       COALESCE(SUM(debit_total), 0)::numeric  AS debit_total,
       COALESCE(SUM(credit_total), 0)::numeric AS credit_total
FROM account_balances
WHERE fiscal_year = $1 AND fiscal_period = $2
GROUP BY currency
ORDER BY currency
`

type PeriodTotalsParams struct {
	FiscalYear   int32 `json:"fiscal_year"`
	FiscalPeriod int32 `json:"fiscal_period"`
}

type PeriodTotalsRow struct {
	Currency    string         `json:"currency"`
	DebitTotal  pgtype.Numeric `json:"debit_total"`
	CreditTotal pgtype.Numeric `json:"credit_total"`
}

func (q *Queries) PeriodTotals(ctx context.Context, arg PeriodTotalsParams) ([]PeriodTotalsRow, error) {
	rows, err := q.db.Query(ctx, periodTotals, arg.FiscalYear, arg.FiscalPeriod)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PeriodTotalsRow
	for rows.Next() {
		var i PeriodTotalsRow
		if err := rows.Scan(&i.Currency, &i.DebitTotal, &i.CreditTotal); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateAccountBalance = `-- name: UpdateAccountBalance :execrows
UPDATE account_balances
SET opening = $5, debit_total = $6, credit_total = $7, closing = $8, version = version + 1, updated_at = $9
WHERE account_id = $1 AND fiscal_year = $2 AND fiscal_period = $3 AND version = $4
`

type UpdateAccountBalanceParams struct {
	AccountID    string             `json:"account_id"`
	FiscalYear   int32              `json:"fiscal_year"`
	FiscalPeriod int32              `json:"fiscal_period"`
	Version      int64              `json:"version"`
	Opening      pgtype.Numeric     `json:"opening"`
	DebitTotal   pgtype.Numeric     `json:"debit_total"`
	CreditTotal  pgtype.Numeric     `json:"credit_total"`
	Closing      pgtype.Numeric     `json:"closing"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountBalance(ctx context.Context, arg UpdateAccountBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountBalance,
		arg.AccountID,
		arg.FiscalYear,
		arg.FiscalPeriod,
		arg.Version,
		arg.Opening,
		arg.DebitTotal,
		arg.CreditTotal,
		arg.Closing,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanAccountBalance(row rowScanner) (AccountBalance, error) {
	var i AccountBalance
	err := row.Scan(
		&i.AccountID,
		&i.FiscalYear,
		&i.FiscalPeriod,
		&i.Currency,
		&i.NormalBalance,
		&i.Opening,
		&i.DebitTotal,
		&i.CreditTotal,
		&i.Closing,
		&i.Version,
		&i.UpdatedAt,
	)
	return i, err
}
