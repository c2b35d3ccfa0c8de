package postgres

import (
	"context"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
	"github.com/iho/glcore/internal/usecase"
)

// ExchangeRateRepository implements usecase.ExchangeRateRepository.
type ExchangeRateRepository struct {
	queries *generated.Queries
}

// NewExchangeRateRepository creates a new ExchangeRateRepository.
func NewExchangeRateRepository(db DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{queries: generated.New(db)}
}

func (r *ExchangeRateRepository) Create(ctx context.Context, tx usecase.Transaction, rate *domain.ExchangeRate) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = q.CreateExchangeRate(ctx, generated.CreateExchangeRateParams{
		ID:           rate.ID(),
		FromCurrency: rate.From(),
		ToCurrency:   rate.To(),
		RateDate:     date(rate.RateDate()),
		Rate:         decimalToNumeric(rate.Rate()),
		Source:       rate.Source(),
		CreatedAt:    timestamptz(rate.CreatedAt()),
	})

	return mapError(err)
}

func (r *ExchangeRateRepository) GetByID(ctx context.Context, id string) (*domain.ExchangeRate, error) {
	row, err := r.queries.GetExchangeRateByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrExchangeRateNotFound)
	}

	return exchangeRateFromRow(row), nil
}

func (r *ExchangeRateRepository) FindEffective(ctx context.Context, from, to string, on time.Time) (*domain.ExchangeRate, error) {
	row, err := r.queries.FindEffectiveExchangeRate(ctx, generated.FindEffectiveExchangeRateParams{
		FromCurrency: from,
		ToCurrency:   to,
		RateDate:     date(on),
	})
	if err != nil {
		return nil, notFound(err, domain.ErrExchangeRateNotFound)
	}

	return exchangeRateFromRow(row), nil
}

func exchangeRateFromRow(row generated.ExchangeRate) *domain.ExchangeRate {
	return domain.RehydrateExchangeRate(domain.ExchangeRateSpec{
		ID:       row.ID,
		From:     row.FromCurrency,
		To:       row.ToCurrency,
		RateDate: fromDate(row.RateDate),
		Rate:     numericToDecimal(row.Rate),
		Source:   row.Source,
	}, row.CreatedAt.Time.UTC())
}
