package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// AccountBalanceRepository implements usecase.AccountBalanceRepository.
type AccountBalanceRepository struct {
	store *Store
}

// NewAccountBalanceRepository creates a new AccountBalanceRepository.
func NewAccountBalanceRepository(s *Store) *AccountBalanceRepository {
	return &AccountBalanceRepository{store: s}
}

func (r *AccountBalanceRepository) Get(_ context.Context, key domain.BalanceKey) (*domain.AccountBalance, error) {
	r.store.beforeRead("account_balance", key.String())

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.balances[key]
	if !ok {
		return nil, domain.ErrBalanceNotFound
	}

	return domain.RehydrateAccountBalance(row), nil
}

// Save inserts a balance at version zero and updates later versions. An
// insert racing another insert of the same key is a conflict.
func (r *AccountBalanceRepository) Save(_ context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	row := balance.Snapshot()
	expected := row.Version
	row.Version = expected.Next()
	*balance = *domain.RehydrateAccountBalance(row)

	return t.stage(op{
		check: func(s *Store) error {
			stored, ok := s.balances[row.Key]
			switch {
			case !ok && expected.IsZero():
				return nil
			case !ok:
				return versionConflict("balance", row.Key.String(), domain.Version{}, expected)
			case stored.Version != expected:
				return versionConflict("balance", row.Key.String(), stored.Version, expected)
			}
			return nil
		},
		apply: func(s *Store) { s.balances[row.Key] = row },
	})
}

func (r *AccountBalanceRepository) FindBalancesForPeriod(_ context.Context, fiscalYear, fiscalPeriod int) ([]*domain.AccountBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balances := make([]*domain.AccountBalance, 0)
	for key, row := range r.store.balances {
		if key.FiscalYear == fiscalYear && key.FiscalPeriod == fiscalPeriod {
			balances = append(balances, domain.RehydrateAccountBalance(row))
		}
	}

	sort.Slice(balances, func(i, j int) bool { return balances[i].Key().AccountID < balances[j].Key().AccountID })

	return balances, nil
}

// LedgerRepository implements usecase.LedgerRepository over the balance rows.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(s *Store) *LedgerRepository {
	return &LedgerRepository{store: s}
}

func (r *LedgerRepository) PeriodTotals(_ context.Context, fiscalYear, fiscalPeriod int) ([]usecase.CurrencyTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byCurrency := make(map[string]*usecase.CurrencyTotals)
	for key, row := range r.store.balances {
		if key.FiscalYear != fiscalYear || key.FiscalPeriod != fiscalPeriod {
			continue
		}

		t, ok := byCurrency[row.Currency]
		if !ok {
			t = &usecase.CurrencyTotals{Currency: row.Currency, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			byCurrency[row.Currency] = t
		}

		t.DebitTotal = t.DebitTotal.Add(row.DebitTotal)
		t.CreditTotal = t.CreditTotal.Add(row.CreditTotal)
	}

	totals := make([]usecase.CurrencyTotals, 0, len(byCurrency))
	for _, t := range byCurrency {
		totals = append(totals, *t)
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })

	return totals, nil
}
