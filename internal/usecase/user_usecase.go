package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/glcore/internal/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create fails with ErrDuplicateEmail if the address is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// UserUseCase manages the people allowed to act on the ledger.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
	cost     int
	now      func() time.Time
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
		cost:     bcrypt.DefaultCost,
		now:      utcNow,
	}
}

// WithClock replaces the time source.
func (uc *UserUseCase) WithClock(now func() time.Time) *UserUseCase {
	uc.now = now
	return uc
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (uc *UserUseCase) WithHashCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// CreateUser creates a new user with hashed password
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := domain.ParseRole(string(input.Role)); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, email)
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := uc.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &domain.User{
		ID:           uc.idGen.Generate(),
		Email:        email,
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return redact(user), nil
}

// AuthenticateInput represents authentication input
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies credentials. Unknown addresses and wrong passwords
// fail the same way.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrInactiveUser
	}

	return redact(user), nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return redact(user), nil
}

// UpdateUserInput represents input for updating a user
type UpdateUserInput struct {
	ID       string
	Name     *string
	Role     *domain.Role
	Active   *bool
	Password *string
}

// UpdateUser changes profile, role, status or password. Users are never
// deleted because postings keep referring to them.
func (uc *UserUseCase) UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		user.Name = *input.Name
	}

	if input.Role != nil {
		if _, err := domain.ParseRole(string(*input.Role)); err != nil {
			return nil, err
		}
		user.Role = *input.Role
	}

	if input.Active != nil {
		user.Active = *input.Active
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}

		hash, err := uc.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = uc.now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return redact(user), nil
}

// ListUsers lists all users with pagination
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = normalizePage(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for i, u := range users {
		users[i] = redact(u)
	}

	return users, nil
}

func (uc *UserUseCase) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

func redact(u *domain.User) *domain.User {
	c := *u
	c.PasswordHash = ""
	return &c
}
