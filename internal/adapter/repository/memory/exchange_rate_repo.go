package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// ExchangeRateRepository implements usecase.ExchangeRateRepository.
type ExchangeRateRepository struct {
	store *Store
}

// NewExchangeRateRepository creates a new ExchangeRateRepository.
func NewExchangeRateRepository(s *Store) *ExchangeRateRepository {
	return &ExchangeRateRepository{store: s}
}

// Create records a rate. One rate per pair and date.
func (r *ExchangeRateRepository) Create(_ context.Context, tx usecase.Transaction, rate *domain.ExchangeRate) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	row := storedRate{spec: rate.Spec(), createdAt: rate.CreatedAt()}

	return t.stage(op{
		check: func(s *Store) error {
			for _, existing := range s.rates {
				if existing.spec.From == row.spec.From && existing.spec.To == row.spec.To &&
					sameDay(existing.spec.RateDate, row.spec.RateDate) {
					return fmt.Errorf("%w: %s/%s on %s", domain.ErrDuplicateExchangeRate,
						row.spec.From, row.spec.To, row.spec.RateDate.Format(time.DateOnly))
				}
			}
			return nil
		},
		apply: func(s *Store) { s.rates[row.spec.ID] = row },
	})
}

func (r *ExchangeRateRepository) GetByID(_ context.Context, id string) (*domain.ExchangeRate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.rates[id]
	if !ok {
		return nil, domain.ErrExchangeRateNotFound
	}

	return domain.RehydrateExchangeRate(row.spec, row.createdAt), nil
}

func (r *ExchangeRateRepository) FindEffective(_ context.Context, from, to string, on time.Time) (*domain.ExchangeRate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var best *storedRate
	for _, row := range r.store.rates {
		if row.spec.From != from || row.spec.To != to || row.spec.RateDate.After(on) {
			continue
		}
		if best == nil || row.spec.RateDate.After(best.spec.RateDate) {
			candidate := row
			best = &candidate
		}
	}

	if best == nil {
		return nil, domain.ErrExchangeRateNotFound
	}

	return domain.RehydrateExchangeRate(best.spec, best.createdAt), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
