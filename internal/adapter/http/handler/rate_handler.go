package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// ExchangeRateService defines the behavior needed by RateHandler.
type ExchangeRateService interface {
	RecordExchangeRate(ctx context.Context, input usecase.RecordExchangeRateInput) (*domain.ExchangeRate, error)
	GetExchangeRate(ctx context.Context, id string) (*domain.ExchangeRate, error)
	GetEffectiveRate(ctx context.Context, from, to string, on time.Time) (*domain.ExchangeRate, bool, error)
	ConvertAmount(ctx context.Context, input usecase.ConvertAmountInput) (*usecase.Conversion, error)
}

// RateHandler handles exchange rate requests.
type RateHandler struct {
	rateUC ExchangeRateService
	now    func() time.Time
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateUC ExchangeRateService) *RateHandler {
	return &RateHandler{rateUC: rateUC, now: time.Now}
}

// Record stores a daily rate.
func (h *RateHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordExchangeRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rate, err := h.rateUC.RecordExchangeRate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record exchange rate", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExchangeRateFromDomain(rate))
}

// Get retrieves a rate by ID.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rateUC.GetExchangeRate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get exchange rate", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExchangeRateFromDomain(rate))
}

// Effective returns the rate for ?from=&to= in force on ?on= (default today).
func (h *RateHandler) Effective(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	on, err := h.dateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	rate, inverted, err := h.rateUC.GetEffectiveRate(r.Context(),
		strings.ToUpper(q.Get("from")), strings.ToUpper(q.Get("to")), on)
	if err != nil {
		writeDomainError(w, r, "failed to find exchange rate", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EffectiveRateResponse{
		Rate:     dto.ExchangeRateFromDomain(rate),
		Inverted: inverted,
	})
}

// Convert converts ?amount= from one currency to another.
func (h *RateHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	on, err := h.dateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	conversion, err := h.rateUC.ConvertAmount(r.Context(), usecase.ConvertAmountInput{
		Amount: amount,
		From:   strings.ToUpper(q.Get("from")),
		To:     strings.ToUpper(q.Get("to")),
		On:     on,
	})
	if err != nil {
		writeDomainError(w, r, "failed to convert amount", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConversionFromUseCase(conversion))
}

func (h *RateHandler) dateQuery(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("on")
	if raw == "" {
		return h.now().UTC(), nil
	}

	return dto.ParseDate(raw)
}
