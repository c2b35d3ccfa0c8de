package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// ChartService defines the behavior needed by ChartHandler.
type ChartService interface {
	CreateChartOfAccounts(ctx context.Context, input usecase.CreateChartInput) (*domain.ChartOfAccounts, error)
	GetChart(ctx context.Context, id string) (*domain.ChartOfAccounts, error)
	ListCharts(ctx context.Context, input usecase.ListChartsInput) ([]*domain.ChartOfAccounts, error)
	ActivateChart(ctx context.Context, input usecase.ChartStatusInput) (*domain.ChartOfAccounts, error)
	DeactivateChart(ctx context.Context, input usecase.ChartStatusInput) (*domain.ChartOfAccounts, error)
	ArchiveChart(ctx context.Context, input usecase.ChartStatusInput) (*domain.ChartOfAccounts, error)
}

// ChartHandler handles chart-of-accounts requests.
type ChartHandler struct {
	chartUC ChartService
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(chartUC ChartService) *ChartHandler {
	return &ChartHandler{chartUC: chartUC}
}

// Create creates a chart in ACTIVE status.
func (h *ChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chart, err := h.chartUC.CreateChartOfAccounts(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create chart", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChartFromDomain(chart))
}

// Get retrieves a chart by ID.
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	chart, err := h.chartUC.GetChart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get chart", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChartFromDomain(chart))
}

// List lists charts, optionally for one organization.
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListChartsInput{
		OrganizationID: r.URL.Query().Get("organization_id"),
		Limit:          parseIntQuery(r, "limit", 20),
		Offset:         parseIntQuery(r, "offset", 0),
	}

	charts, err := h.chartUC.ListCharts(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to list charts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.ChartResponse]{
		Items:  dto.ChartsFromDomain(charts),
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Activate moves a chart to ACTIVE.
func (h *ChartHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.chartUC.ActivateChart)
}

// Deactivate moves a chart to INACTIVE.
func (h *ChartHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.chartUC.DeactivateChart)
}

// Archive moves a chart to its terminal ARCHIVED status.
func (h *ChartHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.chartUC.ArchiveChart)
}

func (h *ChartHandler) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	change func(context.Context, usecase.ChartStatusInput) (*domain.ChartOfAccounts, error),
) {
	var req dto.StatusChangeRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	chart, err := change(r.Context(), usecase.ChartStatusInput{
		ChartID:         chi.URLParam(r, "id"),
		ExpectedVersion: dto.ExpectedVersion(req.ExpectedVersion),
	})
	if err != nil {
		writeDomainError(w, r, "failed to change chart status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChartFromDomain(chart))
}
