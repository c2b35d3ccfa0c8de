package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ValidateCurrency checks that code is an upper-case ISO 4217 code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: %q must be three letters", ErrInvalidCurrency, code)
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q must be upper case", ErrInvalidCurrency, code)
		}
	}

	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, code)
	}

	return nil
}

// ValidateExchangeRatePrecision checks a rate is positive and carries at
// least RateScale fractional digits.
func ValidateExchangeRatePrecision(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: rate %s must be positive", ErrMissingOrImpreciseExchangeRate, rate)
	}

	if Scale(rate) < RateScale {
		return fmt.Errorf("%w: rate %s has fewer than %d fractional digits", ErrMissingOrImpreciseExchangeRate, rate, RateScale)
	}

	return nil
}

// CurrencyPolicy decides whether a single context may mix currencies.
type CurrencyPolicy struct {
	MultiCurrency bool
}

// RequireSingleCurrency rejects any currency different from base unless
// multi-currency mode is on. In that mode the caller must check for a rate.
func (p CurrencyPolicy) RequireSingleCurrency(base string, others ...string) error {
	if p.MultiCurrency {
		return nil
	}

	for _, c := range others {
		if c != base {
			return fmt.Errorf("%w: expected %s, got %s", ErrCurrencyMismatch, base, c)
		}
	}

	return nil
}
