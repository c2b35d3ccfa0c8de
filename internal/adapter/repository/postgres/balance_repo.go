package postgres

import (
	"context"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
	"github.com/iho/glcore/internal/usecase"
)

// AccountBalanceRepository implements usecase.AccountBalanceRepository.
type AccountBalanceRepository struct {
	queries *generated.Queries
}

// NewAccountBalanceRepository creates a new AccountBalanceRepository.
func NewAccountBalanceRepository(db DB) *AccountBalanceRepository {
	return &AccountBalanceRepository{queries: generated.New(db)}
}

func (r *AccountBalanceRepository) Get(ctx context.Context, key domain.BalanceKey) (*domain.AccountBalance, error) {
	row, err := r.queries.GetAccountBalance(ctx, generated.GetAccountBalanceParams{
		AccountID:    key.AccountID,
		FiscalYear:   int32(key.FiscalYear),
		FiscalPeriod: int32(key.FiscalPeriod),
	})
	if err != nil {
		return nil, notFound(err, domain.ErrBalanceNotFound)
	}

	return balanceFromRow(row), nil
}

// Save inserts a balance at version zero and updates later versions. An
// insert that loses the race to another insert of the same key affects no
// row and is reported as a conflict, like a failed version check.
func (r *AccountBalanceRepository) Save(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	row := balance.Snapshot()

	var affected int64
	if row.Version.IsZero() {
		affected, err = q.InsertAccountBalance(ctx, generated.InsertAccountBalanceParams{
			AccountID:     row.Key.AccountID,
			FiscalYear:    int32(row.Key.FiscalYear),
			FiscalPeriod:  int32(row.Key.FiscalPeriod),
			Currency:      row.Currency,
			NormalBalance: string(row.NormalBalance),
			Opening:       decimalToNumeric(row.Opening),
			DebitTotal:    decimalToNumeric(row.DebitTotal),
			CreditTotal:   decimalToNumeric(row.CreditTotal),
			Closing:       decimalToNumeric(row.Closing),
			UpdatedAt:     timestamptz(row.UpdatedAt),
		})
	} else {
		affected, err = q.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
			AccountID:    row.Key.AccountID,
			FiscalYear:   int32(row.Key.FiscalYear),
			FiscalPeriod: int32(row.Key.FiscalPeriod),
			Version:      row.Version.Int64(),
			Opening:      decimalToNumeric(row.Opening),
			DebitTotal:   decimalToNumeric(row.DebitTotal),
			CreditTotal:  decimalToNumeric(row.CreditTotal),
			Closing:      decimalToNumeric(row.Closing),
			UpdatedAt:    timestamptz(row.UpdatedAt),
		})
	}
	if err != nil {
		return mapError(err)
	}

	if affected == 0 {
		return versionConflict("balance", row.Key.String(), row.Version)
	}

	row.Version = row.Version.Next()
	*balance = *domain.RehydrateAccountBalance(row)

	return nil
}

func (r *AccountBalanceRepository) FindBalancesForPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) ([]*domain.AccountBalance, error) {
	rows, err := r.queries.ListBalancesForPeriod(ctx, generated.ListBalancesForPeriodParams{
		FiscalYear:   int32(fiscalYear),
		FiscalPeriod: int32(fiscalPeriod),
	})
	if err != nil {
		return nil, err
	}

	balances := make([]*domain.AccountBalance, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, balanceFromRow(row))
	}

	return balances, nil
}

func balanceFromRow(row generated.AccountBalance) *domain.AccountBalance {
	return domain.RehydrateAccountBalance(domain.AccountBalanceSnapshot{
		Key: domain.BalanceKey{
			AccountID:    row.AccountID,
			FiscalYear:   int(row.FiscalYear),
			FiscalPeriod: int(row.FiscalPeriod),
		},
		Currency:      row.Currency,
		NormalBalance: domain.NormalBalance(row.NormalBalance),
		Opening:       numericToDecimal(row.Opening),
		DebitTotal:    numericToDecimal(row.DebitTotal),
		CreditTotal:   numericToDecimal(row.CreditTotal),
		Closing:       numericToDecimal(row.Closing),
		UpdatedAt:     row.UpdatedAt.Time.UTC(),
		Version:       domain.VersionOf(row.Version),
	})
}

// LedgerRepository implements usecase.LedgerRepository by aggregating in SQL.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db DB) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

func (r *LedgerRepository) PeriodTotals(ctx context.Context, fiscalYear, fiscalPeriod int) ([]usecase.CurrencyTotals, error) {
	rows, err := r.queries.PeriodTotals(ctx, generated.PeriodTotalsParams{
		FiscalYear:   int32(fiscalYear),
		FiscalPeriod: int32(fiscalPeriod),
	})
	if err != nil {
		return nil, err
	}

	totals := make([]usecase.CurrencyTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, usecase.CurrencyTotals{
			Currency:    row.Currency,
			DebitTotal:  numericToDecimal(row.DebitTotal),
			CreditTotal: numericToDecimal(row.CreditTotal),
		})
	}

	return totals, nil
}
