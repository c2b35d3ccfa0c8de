package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
	"github.com/iho/glcore/internal/usecase"
	"github.com/iho/glcore/internal/usecase/mocks"
)

var rateDay = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func eurUSD(t *testing.T) *domain.ExchangeRate {
	t.Helper()

	rate, err := domain.NewExchangeRate(domain.ExchangeRateSpec{
		ID: "rate-1", From: "EUR", To: "USD", RateDate: rateDay, Rate: dec("1.084700"), Source: "ECB",
	}, testNow)
	if err != nil {
		t.Fatalf("new rate: %v", err)
	}

	return rate
}

func newRateUseCase(repo usecase.ExchangeRateRepository, outbox *mocks.MockOutboxRepository, m *metrics.Metrics) *usecase.ExchangeRateUseCase {
	return usecase.NewExchangeRateUseCase(mocks.NewMockTransactionManager(), repo, outbox, nil, mocks.NewMockIDGenerator(), domain.HalfUp, m).
		WithClock(func() time.Time { return testNow })
}

func TestExchangeRateUseCase_RecordExchangeRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExchangeRateRepository(ctrl)
	outbox := &mocks.MockOutboxRepository{}
	m := metrics.New(prometheus.NewRegistry())

	repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, rate *domain.ExchangeRate) error {
			if rate.From() != "USD" || rate.To() != "EUR" || !rate.Rate().Equal(dec("0.9219")) {
				t.Errorf("unexpected rate %s/%s %s", rate.From(), rate.To(), rate.Rate())
			}
			return nil
		})

	uc := newRateUseCase(repo, outbox, m)

	rate, err := uc.RecordExchangeRate(context.Background(), usecase.RecordExchangeRateInput{
		From: "USD", To: "EUR", RateDate: rateDay, Rate: dec("0.921900"), Source: "ECB",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rate.Source() != "ECB" {
		t.Errorf("source lost: %q", rate.Source())
	}

	if len(outbox.Events) != 1 || outbox.Events[0].EventType != domain.EventTypeExchangeRateRecorded {
		t.Errorf("expected one recorded event, got %+v", outbox.Events)
	}
	if got := testutil.ToFloat64(m.ExchangeRatesRecorded); got != 1 {
		t.Errorf("expected 1 recorded metric, got %v", got)
	}
}

func TestExchangeRateUseCase_RecordRejectsBadRates(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newRateUseCase(mocks.NewMockExchangeRateRepository(ctrl), &mocks.MockOutboxRepository{}, nil)

	tests := []struct {
		name    string
		input   usecase.RecordExchangeRateInput
		wantErr error
	}{
		{"too few digits", usecase.RecordExchangeRateInput{From: "USD", To: "EUR", RateDate: rateDay, Rate: dec("0.92")}, domain.ErrMissingOrImpreciseExchangeRate},
		{"too many digits", usecase.RecordExchangeRateInput{From: "USD", To: "EUR", RateDate: rateDay, Rate: dec("0.9219001")}, domain.ErrPrecisionLoss},
		{"non-positive", usecase.RecordExchangeRateInput{From: "USD", To: "EUR", RateDate: rateDay, Rate: dec("0.000000")}, domain.ErrMissingOrImpreciseExchangeRate},
		{"same currency", usecase.RecordExchangeRateInput{From: "USD", To: "USD", RateDate: rateDay, Rate: dec("1.000000")}, domain.ErrCurrencyMismatch},
		{"unknown currency", usecase.RecordExchangeRateInput{From: "USD", To: "XYZ", RateDate: rateDay, Rate: dec("1.000000")}, domain.ErrInvalidCurrency},
		{"missing date", usecase.RecordExchangeRateInput{From: "USD", To: "EUR", Rate: dec("0.921900")}, domain.ErrMissingOrImpreciseExchangeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.RecordExchangeRate(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExchangeRateUseCase_GetEffectiveRateFallsBackToInverse(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExchangeRateRepository(ctrl)
	on := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		repo.EXPECT().FindEffective(gomock.Any(), "USD", "EUR", on).Return(nil, domain.ErrExchangeRateNotFound),
		repo.EXPECT().FindEffective(gomock.Any(), "EUR", "USD", on).Return(eurUSD(t), nil),
	)

	uc := newRateUseCase(repo, &mocks.MockOutboxRepository{}, nil)

	rate, inverted, err := uc.GetEffectiveRate(context.Background(), "USD", "EUR", on)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inverted {
		t.Error("expected an inverted rate")
	}
	if rate.From() != "USD" || rate.To() != "EUR" || !rate.Rate().Equal(dec("0.921914")) {
		t.Errorf("unexpected inverse %s/%s %s", rate.From(), rate.To(), rate.Rate())
	}
	if rate.ID() == "rate-1" || rate.ID() != domain.InverseRateID("rate-1") {
		t.Errorf("derived rate must not reuse the recorded id, got %q", rate.ID())
	}
}

func TestExchangeRateUseCase_GetEffectiveRateNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExchangeRateRepository(ctrl)

	repo.EXPECT().FindEffective(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrExchangeRateNotFound).Times(2)

	uc := newRateUseCase(repo, &mocks.MockOutboxRepository{}, nil)

	_, _, err := uc.GetEffectiveRate(context.Background(), "USD", "JPY", testNow)
	if !errors.Is(err, domain.ErrExchangeRateNotFound) {
		t.Fatalf("expected ErrExchangeRateNotFound, got %v", err)
	}
}

func TestExchangeRateUseCase_ConvertAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockExchangeRateRepository(ctrl)
	m := metrics.New(prometheus.NewRegistry())

	repo.EXPECT().FindEffective(gomock.Any(), "EUR", "USD", gomock.Any()).Return(eurUSD(t), nil)

	uc := newRateUseCase(repo, &mocks.MockOutboxRepository{}, m)

	conversion, err := uc.ConvertAmount(context.Background(), usecase.ConvertAmountInput{
		Amount: dec("250.00"), From: "EUR", To: "USD", On: testNow,
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conversion.Converted.Currency() != "USD" || !conversion.Converted.Amount().Equal(dec("271.18")) {
		t.Errorf("expected 271.18 USD, got %s", conversion.Converted)
	}
	if conversion.Inverted || conversion.Rate.ID() != "rate-1" {
		t.Errorf("unexpected rate %+v", conversion)
	}
	if got := testutil.ToFloat64(m.Conversions.WithLabelValues("EUR", "USD")); got != 1 {
		t.Errorf("expected 1 conversion metric, got %v", got)
	}
}

func TestExchangeRateUseCase_ConvertSameCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newRateUseCase(mocks.NewMockExchangeRateRepository(ctrl), &mocks.MockOutboxRepository{}, nil)

	conversion, err := uc.ConvertAmount(context.Background(), usecase.ConvertAmountInput{Amount: dec("10.50"), From: "USD", To: "USD"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conversion.Rate != nil || !conversion.Converted.Equal(conversion.Source) {
		t.Errorf("same-currency conversion changed the amount: %+v", conversion)
	}
}
