package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// CachedExchangeRates decorates an ExchangeRateRepository with a read-through
// cache of effective-rate lookups. Recording a rate bumps a per-pair
// generation so later lookups miss; a lookup racing that write may serve
// the previous rate until the TTL expires.
//
// Cache failures are logged and fall through to the repository.
type CachedExchangeRates struct {
	next   usecase.ExchangeRateRepository
	cache  *Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedExchangeRates wraps next. A zero ttl disables caching.
func NewCachedExchangeRates(next usecase.ExchangeRateRepository, cache *Cache, ttl time.Duration, logger zerolog.Logger) *CachedExchangeRates {
	return &CachedExchangeRates{next: next, cache: cache, ttl: ttl, logger: logger}
}

type cachedRate struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	RateDate  string          `json:"rate_date"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *CachedExchangeRates) Create(ctx context.Context, tx usecase.Transaction, rate *domain.ExchangeRate) error {
	if err := c.next.Create(ctx, tx, rate); err != nil {
		return err
	}

	if _, err := c.cache.Incr(ctx, generationKey(rate.From(), rate.To())); err != nil {
		c.logger.Warn().Err(err).Str("pair", rate.From()+"/"+rate.To()).Msg("rate cache invalidation failed")
	}

	return nil
}

func (c *CachedExchangeRates) GetByID(ctx context.Context, id string) (*domain.ExchangeRate, error) {
	return c.next.GetByID(ctx, id)
}

func (c *CachedExchangeRates) FindEffective(ctx context.Context, from, to string, on time.Time) (*domain.ExchangeRate, error) {
	if c.ttl <= 0 {
		return c.next.FindEffective(ctx, from, to, on)
	}

	gen, err := c.cache.Counter(ctx, generationKey(from, to))
	if err != nil {
		c.logger.Warn().Err(err).Msg("rate cache unavailable")
		return c.next.FindEffective(ctx, from, to, on)
	}

	key := fmt.Sprintf("rate:%s:%s:%d:%s", from, to, gen, on.Format(time.DateOnly))

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		if rate, decodeErr := decodeRate(raw); decodeErr == nil {
			return rate, nil
		}
	case !errors.Is(err, usecase.ErrCacheMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("rate cache read failed")
	}

	rate, err := c.next.FindEffective(ctx, from, to, on)
	if err != nil {
		return nil, err
	}

	if raw, err := encodeRate(rate); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("rate cache write failed")
		}
	}

	return rate, nil
}

func generationKey(from, to string) string {
	return "rate:gen:" + from + ":" + to
}

func encodeRate(rate *domain.ExchangeRate) ([]byte, error) {
	return json.Marshal(cachedRate{
		ID:        rate.ID(),
		From:      rate.From(),
		To:        rate.To(),
		RateDate:  rate.RateDate().Format(time.DateOnly),
		Rate:      rate.Rate(),
		Source:    rate.Source(),
		CreatedAt: rate.CreatedAt(),
	})
}

func decodeRate(raw []byte) (*domain.ExchangeRate, error) {
	var c cachedRate
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}

	rateDate, err := time.Parse(time.DateOnly, c.RateDate)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateExchangeRate(domain.ExchangeRateSpec{
		ID:       c.ID,
		From:     c.From,
		To:       c.To,
		RateDate: rateDate,
		Rate:     c.Rate,
		Source:   c.Source,
	}, c.CreatedAt), nil
}
