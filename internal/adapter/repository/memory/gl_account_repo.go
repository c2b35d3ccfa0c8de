package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// GLAccountRepository implements usecase.GLAccountRepository.
type GLAccountRepository struct {
	store *Store
}

// NewGLAccountRepository creates a new GLAccountRepository.
func NewGLAccountRepository(s *Store) *GLAccountRepository {
	return &GLAccountRepository{store: s}
}

func (r *GLAccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.GLAccount) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	account.Version = domain.VersionOf(1)
	row := cloneAccount(account)

	return t.stage(op{
		check: func(s *Store) error {
			if _, ok := s.accounts[row.ID]; ok {
				return fmt.Errorf("account %s already exists", row.ID)
			}
			for _, a := range s.accounts {
				if a.ChartID == row.ChartID && a.Number == row.Number {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateAccountNumber, row.Number)
				}
			}
			return nil
		},
		apply: func(s *Store) { s.accounts[row.ID] = row },
	})
}

func (r *GLAccountRepository) Update(_ context.Context, tx usecase.Transaction, account *domain.GLAccount) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	expected := account.Version
	account.Version = expected.Next()
	row := cloneAccount(account)

	return t.stage(op{
		check: func(s *Store) error {
			stored, ok := s.accounts[row.ID]
			if !ok {
				return domain.ErrAccountNotFound
			}
			if stored.Version != expected {
				return versionConflict("account", row.ID, stored.Version, expected)
			}
			return nil
		},
		apply: func(s *Store) { s.accounts[row.ID] = row },
	})
}

func (r *GLAccountRepository) GetByID(_ context.Context, id string) (*domain.GLAccount, error) {
	r.store.beforeRead("gl_account", id)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	a := cloneAccount(&row)

	return &a, nil
}

// GetByIDs returns the accounts that exist, in the order of ids.
func (r *GLAccountRepository) GetByIDs(_ context.Context, ids []string) ([]*domain.GLAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.GLAccount, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.store.accounts[id]; ok {
			a := cloneAccount(&row)
			accounts = append(accounts, &a)
		}
	}

	return accounts, nil
}

func (r *GLAccountRepository) GetByNumber(_ context.Context, chartID, number string) (*domain.GLAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.accounts {
		if row.ChartID == chartID && row.Number == number {
			a := cloneAccount(&row)
			return &a, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

func (r *GLAccountRepository) ListByChart(_ context.Context, chartID string, limit, offset int) ([]*domain.GLAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.GLAccount, 0)
	for _, row := range r.store.accounts {
		if row.ChartID == chartID {
			a := cloneAccount(&row)
			accounts = append(accounts, &a)
		}
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Number < accounts[j].Number })

	return page(accounts, limit, offset), nil
}

func cloneAccount(a *domain.GLAccount) domain.GLAccount {
	c := *a
	if a.ParentID != nil {
		parent := *a.ParentID
		c.ParentID = &parent
	}

	return c
}
