package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRate(t *testing.T, from, to, rate string) *ExchangeRate {
	t.Helper()

	r, err := NewExchangeRate(ExchangeRateSpec{
		ID: "r", From: from, To: to, RateDate: testNow, Rate: dec(rate), Source: "ECB",
	}, testNow)
	require.NoError(t, err)

	return r
}

func TestExchangeRate_ConvertMillionEuro(t *testing.T) {
	rate := newRate(t, "EUR", "USD", "1.084700")

	amount, err := MoneyFromString("1000000.00", "EUR")
	require.NoError(t, err)

	got, err := rate.Convert(amount, HalfUp)
	require.NoError(t, err)

	assert.Equal(t, "USD", got.Currency())
	assert.Equal(t, "1084700.00", got.Amount().StringFixed(MoneyScale))
}

func TestExchangeRate_ConvertRejects(t *testing.T) {
	rate := newRate(t, "EUR", "USD", "1.084700")

	_, err := rate.Convert(usd(t, "1.00"), HalfUp)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = rate.ConvertAmount(dec("1.005"), HalfUp)
	assert.ErrorIs(t, err, ErrPrecisionLoss)
}

func TestExchangeRate_InverseRoundTrip(t *testing.T) {
	rate := newRate(t, "EUR", "USD", "1.084700")

	inverse, err := rate.Inverse("r-inv", HalfUp)
	require.NoError(t, err)
	assert.Equal(t, "USD", inverse.From())
	assert.Equal(t, "EUR", inverse.To())
	assert.Equal(t, "0.921914", inverse.Rate().String())

	for _, amount := range []string{"0.01", "1.00", "999.99", "1000.00", "9999.99"} {
		start, err := MoneyFromString(amount, "EUR")
		require.NoError(t, err)

		there, err := rate.Convert(start, HalfUp)
		require.NoError(t, err)

		back, err := inverse.Convert(there, HalfUp)
		require.NoError(t, err)

		diff := back.Amount().Sub(start.Amount()).Abs()
		assert.True(t, diff.LessThanOrEqual(BalanceTolerance), "%s round-tripped to %s", amount, back.Amount())
	}
}

func TestNewExchangeRate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		spec    ExchangeRateSpec
		wantErr error
	}{
		{"same pair", ExchangeRateSpec{From: "USD", To: "USD", RateDate: testNow, Rate: dec("1.000000")}, ErrCurrencyMismatch},
		{"too few digits", ExchangeRateSpec{From: "EUR", To: "USD", RateDate: testNow, Rate: dec("1.0847")}, ErrMissingOrImpreciseExchangeRate},
		{"too many digits", ExchangeRateSpec{From: "EUR", To: "USD", RateDate: testNow, Rate: dec("1.0847001")}, ErrPrecisionLoss},
		{"zero rate", ExchangeRateSpec{From: "EUR", To: "USD", RateDate: testNow, Rate: dec("0.000000")}, ErrMissingOrImpreciseExchangeRate},
		{"no date", ExchangeRateSpec{From: "EUR", To: "USD", Rate: dec("1.084700")}, ErrMissingOrImpreciseExchangeRate},
		{"bad currency", ExchangeRateSpec{From: "EUR", To: "ZZZ", RateDate: testNow, Rate: dec("1.084700")}, ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExchangeRate(tt.spec, testNow)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
