package postgres

import (
	"context"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/postgres/generated"
	"github.com/iho/glcore/internal/usecase"
)

// ChartRepository implements usecase.ChartRepository.
type ChartRepository struct {
	queries *generated.Queries
}

// NewChartRepository creates a new ChartRepository.
func NewChartRepository(db DB) *ChartRepository {
	return &ChartRepository{queries: generated.New(db)}
}

func (r *ChartRepository) Create(ctx context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = q.CreateChart(ctx, generated.CreateChartParams{
		ID:             chart.ID,
		OrganizationID: chart.OrganizationID,
		Code:           chart.Code,
		Name:           chart.Name,
		Status:         string(chart.Status),
		Version:        1,
		CreatedAt:      timestamptz(chart.CreatedAt),
		UpdatedAt:      timestamptz(chart.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	chart.Version = domain.VersionOf(1)

	return nil
}

func (r *ChartRepository) Update(ctx context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	rows, err := q.UpdateChart(ctx, generated.UpdateChartParams{
		ID:        chart.ID,
		Version:   chart.Version.Int64(),
		Name:      chart.Name,
		Status:    string(chart.Status),
		UpdatedAt: timestamptz(chart.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if rows == 0 {
		return versionConflict("chart", chart.ID, chart.Version)
	}

	chart.Version = chart.Version.Next()

	return nil
}

func (r *ChartRepository) GetByID(ctx context.Context, id string) (*domain.ChartOfAccounts, error) {
	row, err := r.queries.GetChartByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrChartNotFound)
	}

	return chartFromRow(row), nil
}

func (r *ChartRepository) List(ctx context.Context, organizationID string, limit, offset int) ([]*domain.ChartOfAccounts, error) {
	pageLimit, pageOffset := pageArgs(limit, offset)

	rows, err := r.queries.ListCharts(ctx, generated.ListChartsParams{
		OrganizationID: organizationID,
		PageLimit:      pageLimit,
		PageOffset:     pageOffset,
	})
	if err != nil {
		return nil, err
	}

	charts := make([]*domain.ChartOfAccounts, 0, len(rows))
	for _, row := range rows {
		charts = append(charts, chartFromRow(row))
	}

	return charts, nil
}

func chartFromRow(row generated.ChartsOfAccount) *domain.ChartOfAccounts {
	return &domain.ChartOfAccounts{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Code:           row.Code,
		Name:           row.Name,
		Status:         domain.ChartStatus(row.Status),
		Version:        domain.VersionOf(row.Version),
		CreatedAt:      row.CreatedAt.Time.UTC(),
		UpdatedAt:      row.UpdatedAt.Time.UTC(),
	}
}
