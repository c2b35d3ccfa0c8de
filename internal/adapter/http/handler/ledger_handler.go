package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// LedgerService defines the ledger-wide checks.
type LedgerService interface {
	CheckPeriodConsistency(ctx context.Context, fiscalYear, fiscalPeriod int) (*usecase.PeriodConsistency, error)
	ReconcilePeriod(ctx context.Context, fiscalYear, fiscalPeriod int) (*usecase.ReconciliationReport, error)
}

// PeriodService administers the fiscal calendar.
type PeriodService interface {
	GetPeriodStatus(ctx context.Context, fiscalYear, fiscalPeriod int) (*usecase.PeriodStatus, error)
	OpenPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) (*usecase.PeriodStatus, error)
	ClosePeriod(ctx context.Context, fiscalYear, fiscalPeriod int) (*usecase.PeriodStatus, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
	periodUC PeriodService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, periodUC PeriodService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, periodUC: periodUC}
}

// CheckConsistency compares a period's total debits and credits per currency.
// An inconsistent ledger answers 409 with the same report.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	year, period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	report, err := h.ledgerUC.CheckPeriodConsistency(r.Context(), year, period)
	if err != nil {
		writeDomainError(w, r, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromUseCase(report))
}

// Reconcile recomputes a period's balances from posted lines.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	year, period, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	report, err := h.ledgerUC.ReconcilePeriod(r.Context(), year, period)
	if err != nil {
		writeDomainError(w, r, "failed to reconcile period", err)
		return
	}

	status := http.StatusOK
	if len(report.Discrepancies) > 0 {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ReconciliationFromUseCase(report))
}

// PeriodStatus reports whether /periods/{year}/{period} accepts postings.
func (h *LedgerHandler) PeriodStatus(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, h.periodUC.GetPeriodStatus)
}

// OpenPeriod allows postings into a period.
func (h *LedgerHandler) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, h.periodUC.OpenPeriod)
}

// ClosePeriod rejects postings into a period.
func (h *LedgerHandler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	h.period(w, r, h.periodUC.ClosePeriod)
}

func (h *LedgerHandler) period(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, int, int) (*usecase.PeriodStatus, error),
) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	period, err2 := strconv.Atoi(chi.URLParam(r, "period"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "invalid period", domain.ErrInvalidFiscalPeriod.Error())
		return
	}

	status, err := op(r.Context(), year, period)
	if err != nil {
		writeDomainError(w, r, "failed to access fiscal period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromUseCase(status))
}
