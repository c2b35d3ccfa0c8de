package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fixed scales used across the ledger.
const (
	MoneyScale   int32 = 2
	RateScale    int32 = 6
	PercentScale int32 = 4
)

// BalanceTolerance is the largest debit/credit difference a postable entry may carry.
var BalanceTolerance = decimal.New(1, -MoneyScale)

var hundred = decimal.NewFromInt(100)

// RoundingMode selects how a value is brought to a target scale.
type RoundingMode string

const (
	// RoundHalfUp rounds ties away from zero.
	RoundHalfUp RoundingMode = "HALF_UP"
	// RoundHalfEven rounds ties to the nearest even digit.
	RoundHalfEven RoundingMode = "HALF_EVEN"
)

// ParseRoundingMode parses a mode name as found in configuration.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(s) {
	case RoundHalfUp:
		return RoundHalfUp, nil
	case RoundHalfEven:
		return RoundHalfEven, nil
	}

	return "", fmt.Errorf("unknown rounding mode %q", s)
}

// RoundingPolicy is the process-wide rounding rule. It is configured once
// and handed to every operation that re-scales a value.
type RoundingPolicy struct {
	Mode RoundingMode
}

// HalfUp is the default GAAP-style policy.
var HalfUp = RoundingPolicy{Mode: RoundHalfUp}

// Round brings d to the given number of fractional digits.
func (p RoundingPolicy) Round(d decimal.Decimal, scale int32) decimal.Decimal {
	switch p.Mode {
	case RoundHalfEven:
		return d.RoundBank(scale)
	case RoundHalfUp:
		return d.Round(scale)
	}

	return d.Round(scale)
}

// Quotient divides a by b and rounds the exact result to scale once. The
// last digit is decided from the exact remainder, so no intermediate
// precision leaks into the result. b must not be zero.
func (p RoundingPolicy) Quotient(a, b decimal.Decimal, scale int32) decimal.Decimal {
	q, r := a.QuoRem(b, scale)
	if r.IsZero() {
		return q
	}

	// q is truncated toward zero; |r| < |b| * 10^-scale.
	unit := b.Abs().Shift(-scale)
	away := false
	switch r.Abs().Mul(decimal.NewFromInt(2)).Cmp(unit) {
	case 1:
		away = true
	case 0:
		away = p.Mode != RoundHalfEven || !q.Shift(scale).Mod(decimal.NewFromInt(2)).IsZero()
	}
	if !away {
		return q
	}

	step := decimal.New(1, -scale)
	if a.Sign()*b.Sign() < 0 {
		return q.Sub(step)
	}
	return q.Add(step)
}

// Scale returns the number of fractional digits d carries.
func Scale(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}

	return 0
}

// Money is an amount at money scale in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates the currency and rejects amounts finer than money scale.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}

	if Scale(amount) > MoneyScale {
		return Money{}, fmt.Errorf("%w: amount %s has more than %d fractional digits", ErrPrecisionLoss, amount, MoneyScale)
	}

	return Money{amount: amount, currency: currency}, nil
}

// MoneyFromString parses an amount and builds Money from it.
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}

	return NewMoney(d, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

// Equal compares amount and currency.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale) + " " + m.currency
}

// Calculator performs money arithmetic under a single rounding policy.
type Calculator struct {
	policy RoundingPolicy
}

// NewCalculator creates a Calculator bound to policy.
func NewCalculator(policy RoundingPolicy) Calculator {
	return Calculator{policy: policy}
}

// Policy returns the rounding policy in use.
func (c Calculator) Policy() RoundingPolicy {
	return c.policy
}

// Add sums two amounts of the same currency.
func (c Calculator) Add(a, b Money) (Money, error) {
	if a.currency != b.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, a.currency, b.currency)
	}

	return c.money(a.amount.Add(b.amount), a.currency), nil
}

// Sub subtracts b from a.
func (c Calculator) Sub(a, b Money) (Money, error) {
	if a.currency != b.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, a.currency, b.currency)
	}

	return c.money(a.amount.Sub(b.amount), a.currency), nil
}

// Mul multiplies by an arbitrary factor and rounds once.
func (c Calculator) Mul(a Money, factor decimal.Decimal) Money {
	return c.money(a.amount.Mul(factor), a.currency)
}

// Div divides by divisor and rounds once.
func (c Calculator) Div(a Money, divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, ErrDivisionByZero
	}

	return Money{amount: c.policy.Quotient(a.amount, divisor, MoneyScale), currency: a.currency}, nil
}

// Percentage computes base * rate / 100 with a single rounding at the end.
func (c Calculator) Percentage(base Money, rate decimal.Decimal) (Money, error) {
	if Scale(rate) > PercentScale {
		return Money{}, fmt.Errorf("%w: rate %s has more than %d fractional digits", ErrPrecisionLoss, rate, PercentScale)
	}

	// base has at most 2 and rate at most 4 fractional digits, so the
	// quotient by 100 is exact and rounding happens only here.
	return c.money(base.amount.Mul(rate).Div(hundred), base.currency), nil
}

// Allocate splits total into n parts whose sum is exactly total. Every part
// but the last is total/n truncated toward zero; the last absorbs the
// remainder, so no part has the opposite sign of total.
func (c Calculator) Allocate(total Money, n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot split into %d parts", ErrInvalidAllocation, n)
	}

	share, _ := total.amount.QuoRem(decimal.NewFromInt(int64(n)), MoneyScale)

	parts := make([]Money, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = Money{amount: share, currency: total.currency}
		allocated = allocated.Add(share)
	}
	parts[n-1] = Money{amount: total.amount.Sub(allocated), currency: total.currency}

	return parts, nil
}

func (c Calculator) money(amount decimal.Decimal, currency string) Money {
	return Money{amount: c.policy.Round(amount, MoneyScale), currency: currency}
}
