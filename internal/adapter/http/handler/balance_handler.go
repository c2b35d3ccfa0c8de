package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetAccountBalance(ctx context.Context, accountID string, fiscalYear, fiscalPeriod int) (*domain.AccountBalance, error)
	ListBalancesForPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) ([]*domain.AccountBalance, error)
	SeedOpeningBalance(ctx context.Context, input usecase.SeedOpeningBalanceInput) (*domain.AccountBalance, error)
}

// BalanceHandler handles account balance requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns one account's balance for ?year=&period=. A period without
// postings reports zero totals.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	year, period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	balance, err := h.balanceUC.GetAccountBalance(r.Context(), chi.URLParam(r, "id"), year, period)
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// List returns every stored balance of a period.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	year, period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	balances, err := h.balanceUC.ListBalancesForPeriod(r.Context(), year, period)
	if err != nil {
		writeDomainError(w, r, "failed to list balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.BalanceResponse]{Items: dto.BalancesFromDomain(balances)})
}

// SeedOpening writes a period's opening amount.
func (h *BalanceHandler) SeedOpening(w http.ResponseWriter, r *http.Request) {
	var req dto.SeedOpeningBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := h.balanceUC.SeedOpeningBalance(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to seed opening balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}
