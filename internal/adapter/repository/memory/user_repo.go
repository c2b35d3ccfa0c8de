package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/glcore/internal/domain"
)

// UserRepository implements usecase.UserRepository. User writes are not
// part of ledger transactions and apply immediately.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, user.Email)
		}
	}

	r.store.users[user.ID] = *user

	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}

	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}

	// The use case hands back redacted copies; keep the stored hash.
	row := *user
	if row.PasswordHash == "" {
		row.PasswordHash = stored.PasswordHash
	}
	r.store.users[user.ID] = row

	return nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store.users))
	for _, row := range r.store.users {
		u := row
		users = append(users, &u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	return page(users, limit, offset), nil
}
