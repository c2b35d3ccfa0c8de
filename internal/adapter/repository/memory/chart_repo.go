package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// ChartRepository implements usecase.ChartRepository.
type ChartRepository struct {
	store *Store
}

// NewChartRepository creates a new ChartRepository.
func NewChartRepository(s *Store) *ChartRepository {
	return &ChartRepository{store: s}
}

func (r *ChartRepository) Create(_ context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	chart.Version = domain.VersionOf(1)
	row := *chart

	return t.stage(op{
		check: func(s *Store) error {
			if _, ok := s.charts[row.ID]; ok {
				return fmt.Errorf("chart %s already exists", row.ID)
			}
			for _, c := range s.charts {
				if c.OrganizationID == row.OrganizationID && c.Code == row.Code {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateChartCode, row.Code)
				}
			}
			return nil
		},
		apply: func(s *Store) { s.charts[row.ID] = row },
	})
}

func (r *ChartRepository) Update(_ context.Context, tx usecase.Transaction, chart *domain.ChartOfAccounts) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	expected := chart.Version
	chart.Version = expected.Next()
	row := *chart

	return t.stage(op{
		check: func(s *Store) error {
			stored, ok := s.charts[row.ID]
			if !ok {
				return domain.ErrChartNotFound
			}
			if stored.Version != expected {
				return versionConflict("chart", row.ID, stored.Version, expected)
			}
			return nil
		},
		apply: func(s *Store) { s.charts[row.ID] = row },
	})
}

func (r *ChartRepository) GetByID(_ context.Context, id string) (*domain.ChartOfAccounts, error) {
	r.store.beforeRead("chart", id)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.charts[id]
	if !ok {
		return nil, domain.ErrChartNotFound
	}

	return &row, nil
}

func (r *ChartRepository) List(_ context.Context, organizationID string, limit, offset int) ([]*domain.ChartOfAccounts, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	charts := make([]*domain.ChartOfAccounts, 0)
	for _, row := range r.store.charts {
		if organizationID != "" && row.OrganizationID != organizationID {
			continue
		}
		c := row
		charts = append(charts, &c)
	}

	sort.Slice(charts, func(i, j int) bool { return charts[i].Code < charts[j].Code })

	return page(charts, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end]
}
