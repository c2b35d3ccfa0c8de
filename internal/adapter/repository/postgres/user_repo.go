package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iho/glcore/internal/domain"
)

const userColumns = `id, email, name, role, password_hash, active, created_at, updated_at`

// UserRepository implements usecase.UserRepository. User writes are not
// part of any ledger transaction.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		string(user.Role),
		user.PasswordHash,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return mapError(err)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Update updates a user. An empty password hash keeps the stored one.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, role = $3, active = $4, updated_at = $5,
		    password_hash = COALESCE(NULLIF($6, ''), password_hash)
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		string(user.Role),
		user.Active,
		user.UpdatedAt,
		user.PasswordHash,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// List retrieves users ordered by email
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	pageLimit, pageOffset := pageArgs(limit, offset)

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email LIMIT $1 OFFSET $2`, pageLimit, pageOffset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&role,
		&user.PasswordHash,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}

	user.Role = domain.Role(role)

	return &user, nil
}
