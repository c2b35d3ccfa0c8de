package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/glcore/internal/adapter/repository/memory"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
	"github.com/iho/glcore/internal/usecase/mocks"
)

func newUserUseCase() (*usecase.UserUseCase, *memory.UserRepository) {
	repo := memory.NewUserRepository(memory.NewStore())
	uc := usecase.NewUserUseCase(repo, mocks.NewMockIDGenerator()).
		WithHashCost(bcrypt.MinCost).
		WithClock(func() time.Time { return testNow })

	return uc, repo
}

func TestUserUseCase_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUserUseCase()

	user, err := uc.CreateUser(ctx, usecase.CreateUserInput{
		Email: " Alice@Example.com", Name: "Alice", Password: "Ledger2024", Role: domain.RoleAccountant,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "alice@example.com" || user.PasswordHash != "" || !user.Active {
		t.Errorf("unexpected user %+v", user)
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	if stored.PasswordHash == "" || stored.PasswordHash == "Ledger2024" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}

	authed, err := uc.Authenticate(ctx, usecase.AuthenticateInput{Email: "ALICE@example.com", Password: "Ledger2024"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.Actor().Role != domain.RoleAccountant {
		t.Errorf("unexpected actor %+v", authed.Actor())
	}

	if _, err := uc.Authenticate(ctx, usecase.AuthenticateInput{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.Authenticate(ctx, usecase.AuthenticateInput{Email: "bob@example.com", Password: "Ledger2024"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown user, got %v", err)
	}

	_, err = uc.CreateUser(ctx, usecase.CreateUserInput{
		Email: "alice@example.com", Name: "Alice Again", Password: "Ledger2024", Role: domain.RoleViewer,
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserUseCase_CreateRejections(t *testing.T) {
	uc, _ := newUserUseCase()

	tests := []struct {
		name    string
		input   usecase.CreateUserInput
		wantErr error
	}{
		{"bad email", usecase.CreateUserInput{Email: "nope", Name: "N", Password: "Ledger2024", Role: domain.RoleViewer}, domain.ErrInvalidEmail},
		{"weak password", usecase.CreateUserInput{Email: "n@example.com", Name: "N", Password: "ledger", Role: domain.RoleViewer}, domain.ErrPasswordTooWeak},
		{"unknown role", usecase.CreateUserInput{Email: "n@example.com", Name: "N", Password: "Ledger2024", Role: "admin"}, domain.ErrInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.CreateUser(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUserUseCase_DeactivatedUserCannotLogIn(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUseCase()

	user, err := uc.CreateUser(ctx, usecase.CreateUserInput{
		Email: "carol@example.com", Name: "Carol", Password: "Ledger2024", Role: domain.RoleController,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := false
	if _, err := uc.UpdateUser(ctx, usecase.UpdateUserInput{ID: user.ID, Active: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = uc.Authenticate(ctx, usecase.AuthenticateInput{Email: "carol@example.com", Password: "Ledger2024"})
	if !errors.Is(err, domain.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}

	users, err := uc.ListUsers(ctx, 0, 0)
	if err != nil || len(users) != 1 || users[0].Active {
		t.Errorf("unexpected list %+v (%v)", users, err)
	}
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUseCase()

	user, _ := uc.CreateUser(ctx, usecase.CreateUserInput{
		Email: "dave@example.com", Name: "Dave", Password: "Ledger2024", Role: domain.RoleViewer,
	})

	next := "Closing2025"
	if _, err := uc.UpdateUser(ctx, usecase.UpdateUserInput{ID: user.ID, Password: &next}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := uc.Authenticate(ctx, usecase.AuthenticateInput{Email: "dave@example.com", Password: "Ledger2024"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, err := uc.Authenticate(ctx, usecase.AuthenticateInput{Email: "dave@example.com", Password: next}); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	if _, err := uc.GetUser(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
