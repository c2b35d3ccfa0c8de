package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateGLAccount(ctx context.Context, input usecase.CreateGLAccountInput) (*domain.GLAccount, error)
	GetGLAccount(ctx context.Context, id string) (*domain.GLAccount, error)
	ListGLAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.GLAccount, error)
	ActivateAccount(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error)
	BlockAccount(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error)
}

// AccountHandler handles GL account requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGLAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateGLAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GLAccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetGLAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GLAccountFromDomain(account))
}

// List lists the accounts of the chart in the path, ordered by number.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListAccountsInput{
		ChartID: chi.URLParam(r, "id"),
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	accounts, err := h.accountUC.ListGLAccounts(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.GLAccountResponse]{
		Items:  dto.GLAccountsFromDomain(accounts),
		Limit:  input.Limit,
		Offset: input.Offset,
	})
}

// Activate re-enables postings to an account.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.accountUC.ActivateAccount)
}

// Block stops postings to an account.
func (h *AccountHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.accountUC.BlockAccount)
}

func (h *AccountHandler) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	change func(context.Context, usecase.AccountStatusInput) (*domain.GLAccount, error),
) {
	var req dto.StatusChangeRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	account, err := change(r.Context(), usecase.AccountStatusInput{
		AccountID:       chi.URLParam(r, "id"),
		ExpectedVersion: dto.ExpectedVersion(req.ExpectedVersion),
	})
	if err != nil {
		writeDomainError(w, r, "failed to change account status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GLAccountFromDomain(account))
}
