package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler and UserHandler.
type UserService interface {
	CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userUC UserService
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userUC UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{userUC: userUC, tokens: tokens}
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, r, "invalid credentials", err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, r, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: dto.UserFromDomain(user)})
}

// Me returns the actor the request was authenticated as.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := domain.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.ActorResponse{ID: actor.ID, Role: string(actor.Role)})
}

// UserHandler manages ledger users.
type UserHandler struct {
	userUC UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC UserService) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// Create registers a user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userUC.CreateUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUC.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// List lists users ordered by email.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	users, err := h.userUC.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, r, "failed to list users", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.UserResponse]{
		Items:  dto.UsersFromDomain(users),
		Limit:  limit,
		Offset: offset,
	})
}

// Update changes a user's name, role, status or password.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userUC.UpdateUser(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to update user", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
