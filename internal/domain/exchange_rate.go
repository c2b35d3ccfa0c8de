package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate converts amounts from one currency to another. Rates are
// never edited; a new rate is a new record.
type ExchangeRate struct {
	id        string
	from      string
	to        string
	rateDate  time.Time
	rate      decimal.Decimal
	source    string
	createdAt time.Time
}

// ExchangeRateSpec describes a rate to record.
type ExchangeRateSpec struct {
	ID       string
	From     string
	To       string
	RateDate time.Time
	Rate     decimal.Decimal
	Source   string
}

// NewExchangeRate validates spec. The rate must carry exactly RateScale
// fractional digits: fewer is imprecise, more would be silently dropped.
func NewExchangeRate(spec ExchangeRateSpec, now time.Time) (*ExchangeRate, error) {
	if err := ValidateCurrency(spec.From); err != nil {
		return nil, err
	}

	if err := ValidateCurrency(spec.To); err != nil {
		return nil, err
	}

	if spec.From == spec.To {
		return nil, fmt.Errorf("%w: rate from %s to itself", ErrCurrencyMismatch, spec.From)
	}

	if spec.RateDate.IsZero() {
		return nil, fmt.Errorf("%w: rate date is required", ErrMissingOrImpreciseExchangeRate)
	}

	if err := ValidateExchangeRatePrecision(spec.Rate); err != nil {
		return nil, err
	}

	if Scale(spec.Rate) > RateScale {
		return nil, fmt.Errorf("%w: rate %s has more than %d fractional digits", ErrPrecisionLoss, spec.Rate, RateScale)
	}

	return &ExchangeRate{
		id:        spec.ID,
		from:      spec.From,
		to:        spec.To,
		rateDate:  spec.RateDate,
		rate:      spec.Rate,
		source:    spec.Source,
		createdAt: now,
	}, nil
}

// RehydrateExchangeRate rebuilds a rate from storage.
func RehydrateExchangeRate(spec ExchangeRateSpec, createdAt time.Time) *ExchangeRate {
	return &ExchangeRate{
		id:        spec.ID,
		from:      spec.From,
		to:        spec.To,
		rateDate:  spec.RateDate,
		rate:      spec.Rate.Round(RateScale),
		source:    spec.Source,
		createdAt: createdAt,
	}
}

func (r *ExchangeRate) ID() string            { return r.id }
func (r *ExchangeRate) From() string          { return r.from }
func (r *ExchangeRate) To() string            { return r.to }
func (r *ExchangeRate) RateDate() time.Time   { return r.rateDate }
func (r *ExchangeRate) Rate() decimal.Decimal { return r.rate }
func (r *ExchangeRate) Source() string        { return r.source }
func (r *ExchangeRate) CreatedAt() time.Time  { return r.createdAt }

// Spec returns the recorded values.
func (r *ExchangeRate) Spec() ExchangeRateSpec {
	return ExchangeRateSpec{
		ID:       r.id,
		From:     r.from,
		To:       r.to,
		RateDate: r.rateDate,
		Rate:     r.rate,
		Source:   r.source,
	}
}

// Convert multiplies m by the rate and rounds to money scale.
func (r *ExchangeRate) Convert(m Money, policy RoundingPolicy) (Money, error) {
	if m.currency != r.from {
		return Money{}, fmt.Errorf("%w: rate converts %s, amount is %s", ErrCurrencyMismatch, r.from, m.currency)
	}

	if Scale(m.amount) > MoneyScale {
		return Money{}, fmt.Errorf("%w: amount %s has more than %d fractional digits", ErrPrecisionLoss, m.amount, MoneyScale)
	}

	return Money{amount: policy.Round(m.amount.Mul(r.rate), MoneyScale), currency: r.to}, nil
}

// ConvertAmount converts a bare amount known to be in the source currency.
func (r *ExchangeRate) ConvertAmount(amount decimal.Decimal, policy RoundingPolicy) (decimal.Decimal, error) {
	m, err := r.Convert(Money{amount: amount, currency: r.from}, policy)
	if err != nil {
		return decimal.Zero, err
	}

	return m.amount, nil
}

// InverseRateID is the id of the rate derived by inverting recorded rate id.
func InverseRateID(id string) string {
	return id + ":inverse"
}

// Inverse returns a new rate record for the opposite pair at 1/rate.
func (r *ExchangeRate) Inverse(id string, policy RoundingPolicy) (*ExchangeRate, error) {
	if r.rate.IsZero() {
		return nil, ErrDivisionByZero
	}

	inverse := policy.Quotient(decimal.NewFromInt(1), r.rate, RateScale)
	if !inverse.IsPositive() {
		return nil, fmt.Errorf("%w: inverse of %s underflows %d fractional digits", ErrPrecisionLoss, r.rate, RateScale)
	}

	return &ExchangeRate{
		id:        id,
		from:      r.to,
		to:        r.from,
		rateDate:  r.rateDate,
		rate:      inverse,
		source:    r.source,
		createdAt: r.createdAt,
	}, nil
}
