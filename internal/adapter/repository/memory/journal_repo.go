package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// JournalEntryRepository implements usecase.JournalEntryRepository.
type JournalEntryRepository struct {
	store *Store
}

// NewJournalEntryRepository creates a new JournalEntryRepository.
func NewJournalEntryRepository(s *Store) *JournalEntryRepository {
	return &JournalEntryRepository{store: s}
}

func (r *JournalEntryRepository) Create(_ context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	row := entry.Snapshot()
	row.Version = domain.VersionOf(1)
	*entry = *domain.RehydrateJournalEntry(row)

	return t.stage(op{
		check: func(s *Store) error {
			if _, ok := s.entries[row.ID]; ok {
				return fmt.Errorf("journal entry %s already exists", row.ID)
			}
			for _, e := range s.entries {
				if e.DocumentNumber == row.DocumentNumber {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateDocumentNumber, row.DocumentNumber)
				}
			}
			return nil
		},
		apply: func(s *Store) { s.entries[row.ID] = row },
	})
}

func (r *JournalEntryRepository) Save(_ context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	row := entry.Snapshot()
	expected := row.Version
	row.Version = expected.Next()
	*entry = *domain.RehydrateJournalEntry(row)

	return t.stage(op{
		check: func(s *Store) error {
			stored, ok := s.entries[row.ID]
			if !ok {
				return domain.ErrJournalEntryNotFound
			}
			if stored.Version != expected {
				return versionConflict("journal entry", row.ID, stored.Version, expected)
			}
			return nil
		},
		apply: func(s *Store) { s.entries[row.ID] = row },
	})
}

func (r *JournalEntryRepository) GetByID(_ context.Context, id string) (*domain.JournalEntry, error) {
	r.store.beforeRead("journal_entry", id)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrJournalEntryNotFound
	}

	return domain.RehydrateJournalEntry(row), nil
}

// List returns entries newest posting date first, then by document number.
func (r *JournalEntryRepository) List(_ context.Context, filter usecase.JournalEntryFilter) ([]*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := make([]domain.JournalEntrySnapshot, 0)
	for _, row := range r.store.entries {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.FiscalYear != 0 && row.FiscalYear != filter.FiscalYear {
			continue
		}
		if filter.FiscalPeriod != 0 && row.FiscalPeriod != filter.FiscalPeriod {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].PostingDate.Equal(rows[j].PostingDate) {
			return rows[i].PostingDate.After(rows[j].PostingDate)
		}
		return rows[i].DocumentNumber < rows[j].DocumentNumber
	})

	rows = page(rows, filter.Limit, filter.Offset)

	entries := make([]*domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.RehydrateJournalEntry(row))
	}

	return entries, nil
}
