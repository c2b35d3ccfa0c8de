package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
)

// ExchangeRateUseCase records rates and converts amounts with them.
type ExchangeRateUseCase struct {
	txManager  TransactionManager
	rateRepo   ExchangeRateRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	rounding   domain.RoundingPolicy
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewExchangeRateUseCase creates a new ExchangeRateUseCase.
func NewExchangeRateUseCase(
	txManager TransactionManager,
	rateRepo ExchangeRateRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	rounding domain.RoundingPolicy,
	metrics *metrics.Metrics,
) *ExchangeRateUseCase {
	if rounding.Mode == "" {
		rounding = domain.HalfUp
	}

	return &ExchangeRateUseCase{
		txManager:  txManager,
		rateRepo:   rateRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		rounding:   rounding,
		metrics:    metrics,
		now:        utcNow,
	}
}

// WithClock replaces the time source.
func (uc *ExchangeRateUseCase) WithClock(now func() time.Time) *ExchangeRateUseCase {
	uc.now = now
	return uc
}

// RecordExchangeRateInput holds a rate to record.
type RecordExchangeRateInput struct {
	From     string
	To       string
	RateDate time.Time
	Rate     decimal.Decimal
	Source   string
}

// ConvertAmountInput asks for an amount in another currency as of a date.
type ConvertAmountInput struct {
	Amount decimal.Decimal
	From   string
	To     string
	On     time.Time
}

// Conversion is the result of ConvertAmount. Rate is nil when no
// conversion was needed.
type Conversion struct {
	Source    domain.Money
	Converted domain.Money
	Rate      *domain.ExchangeRate
	Inverted  bool
}

// RecordExchangeRate stores a new rate. Rates are never updated in place.
func (uc *ExchangeRateUseCase) RecordExchangeRate(ctx context.Context, input RecordExchangeRateInput) (*domain.ExchangeRate, error) {
	now := uc.now()

	rate, err := domain.NewExchangeRate(domain.ExchangeRateSpec{
		ID:       uc.idGen.Generate(),
		From:     input.From,
		To:       input.To,
		RateDate: input.RateDate,
		Rate:     input.Rate,
		Source:   input.Source,
	}, now)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.rateRepo.Create(txCtx, tx, rate); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"rate_id":   rate.ID(),
		"from":      rate.From(),
		"to":        rate.To(),
		"rate_date": rate.RateDate().Format(time.DateOnly),
		"rate":      rate.Rate().StringFixed(domain.RateScale),
	}
	if err := writeEvent(txCtx, uc.outboxRepo, uc.idGen, tx, domain.AggregateTypeExchangeRate, rate.ID(), domain.EventTypeExchangeRateRecorded, payload, now); err != nil {
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionExchangeRecord,
		resourceType: domain.AggregateTypeExchangeRate,
		resourceID:   rate.ID(),
		after:        payload,
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExchangeRatesRecorded.Inc()
	}

	return rate, nil
}

// GetExchangeRate retrieves a recorded rate.
func (uc *ExchangeRateUseCase) GetExchangeRate(ctx context.Context, id string) (*domain.ExchangeRate, error) {
	return uc.rateRepo.GetByID(ctx, id)
}

// GetEffectiveRate returns the latest rate for the pair dated on or before on.
// When only the opposite pair was recorded its inverse is returned and
// inverted is true.
func (uc *ExchangeRateUseCase) GetEffectiveRate(ctx context.Context, from, to string, on time.Time) (rate *domain.ExchangeRate, inverted bool, err error) {
	if err := domain.ValidateCurrency(from); err != nil {
		return nil, false, err
	}

	if err := domain.ValidateCurrency(to); err != nil {
		return nil, false, err
	}

	rate, err = uc.rateRepo.FindEffective(ctx, from, to, on)
	if err == nil {
		return rate, false, nil
	}

	if !errors.Is(err, domain.ErrExchangeRateNotFound) {
		return nil, false, err
	}

	opposite, err := uc.rateRepo.FindEffective(ctx, to, from, on)
	if err != nil {
		if errors.Is(err, domain.ErrExchangeRateNotFound) {
			return nil, false, fmt.Errorf("%w: %s to %s on %s", domain.ErrExchangeRateNotFound, from, to, on.Format(time.DateOnly))
		}
		return nil, false, err
	}

	inverse, err := opposite.Inverse(domain.InverseRateID(opposite.ID()), uc.rounding)
	if err != nil {
		return nil, false, err
	}

	return inverse, true, nil
}

// ConvertAmount converts an amount with the rate effective on the given date.
func (uc *ExchangeRateUseCase) ConvertAmount(ctx context.Context, input ConvertAmountInput) (*Conversion, error) {
	source, err := domain.NewMoney(input.Amount, input.From)
	if err != nil {
		return nil, err
	}

	if input.From == input.To {
		return &Conversion{Source: source, Converted: source}, nil
	}

	on := input.On
	if on.IsZero() {
		on = uc.now()
	}

	rate, inverted, err := uc.GetEffectiveRate(ctx, input.From, input.To, on)
	if err != nil {
		return nil, err
	}

	converted, err := rate.Convert(source, uc.rounding)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Conversions.WithLabelValues(input.From, input.To).Inc()
	}

	return &Conversion{Source: source, Converted: converted, Rate: rate, Inverted: inverted}, nil
}
