package usecase

import (
	"context"
	"time"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
)

// CreateChartInput holds the data for a new chart of accounts.
type CreateChartInput struct {
	OrganizationID string
	Code           string
	Name           string
}

// ListChartsInput pages through an organization's charts.
type ListChartsInput struct {
	OrganizationID string
	Limit          int
	Offset         int
}

// ChartStatusInput identifies a chart whose status changes.
type ChartStatusInput struct {
	ChartID         string
	ExpectedVersion *domain.Version
}

type ChartUseCase struct {
	txManager TransactionManager
	chartRepo ChartRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewChartUseCase(
	txManager TransactionManager,
	chartRepo ChartRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ChartUseCase {
	return &ChartUseCase{
		txManager: txManager,
		chartRepo: chartRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		metrics:   metrics,
		now:       utcNow,
	}
}

// WithClock replaces the time source.
func (uc *ChartUseCase) WithClock(now func() time.Time) *ChartUseCase {
	uc.now = now
	return uc
}

func (uc *ChartUseCase) CreateChartOfAccounts(ctx context.Context, input CreateChartInput) (*domain.ChartOfAccounts, error) {
	now := uc.now()

	chart, err := domain.NewChartOfAccounts(uc.idGen.Generate(), input.OrganizationID, input.Code, input.Name, now)
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

	if err := uc.chartRepo.Create(txCtx, tx, chart); err != nil {
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionChartCreate,
		resourceType: domain.AggregateTypeChart,
		resourceID:   chart.ID,
		after:        chart,
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ChartsCreated.Inc()
	}

	return chart, nil
}

func (uc *ChartUseCase) GetChart(ctx context.Context, id string) (*domain.ChartOfAccounts, error) {
	return uc.chartRepo.GetByID(ctx, id)
}

func (uc *ChartUseCase) ListCharts(ctx context.Context, input ListChartsInput) ([]*domain.ChartOfAccounts, error) {
	limit, offset := normalizePage(input.Limit, input.Offset)
	return uc.chartRepo.List(ctx, input.OrganizationID, limit, offset)
}

func (uc *ChartUseCase) ActivateChart(ctx context.Context, input ChartStatusInput) (*domain.ChartOfAccounts, error) {
	return uc.changeStatus(ctx, input, (*domain.ChartOfAccounts).Activate)
}

func (uc *ChartUseCase) DeactivateChart(ctx context.Context, input ChartStatusInput) (*domain.ChartOfAccounts, error) {
	return uc.changeStatus(ctx, input, (*domain.ChartOfAccounts).Deactivate)
}

func (uc *ChartUseCase) ArchiveChart(ctx context.Context, input ChartStatusInput) (*domain.ChartOfAccounts, error) {
	return uc.changeStatus(ctx, input, (*domain.ChartOfAccounts).Archive)
}

func (uc *ChartUseCase) changeStatus(
	ctx context.Context,
	input ChartStatusInput,
	transition func(*domain.ChartOfAccounts, time.Time) error,
) (*domain.ChartOfAccounts, error) {
	chart, err := uc.chartRepo.GetByID(ctx, input.ChartID)
	if err != nil {
		return nil, err
	}

	if err := checkVersion(input.ExpectedVersion, chart.Version, "chart", chart.ID); err != nil {
		recordConflict(uc.metrics, err, "chart_status")
		return nil, err
	}

	before := *chart
	now := uc.now()
	if err := transition(chart, now); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.chartRepo.Update(txCtx, tx, chart); err != nil {
		recordConflict(uc.metrics, err, "chart_status")
		return nil, err
	}

	if err := writeAudit(txCtx, uc.auditRepo, uc.idGen, tx, auditRecord{
		action:       domain.AuditActionChartStatus,
		resourceType: domain.AggregateTypeChart,
		resourceID:   chart.ID,
		before:       before,
		after:        chart,
	}, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		recordConflict(uc.metrics, err, "chart_status")
		return nil, err
	}

	return chart, nil
}
