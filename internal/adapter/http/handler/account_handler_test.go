package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/glcore/internal/adapter/http/dto"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

var handlerNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

type accountServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateGLAccountInput) (*domain.GLAccount, error)
	getFn      func(ctx context.Context, id string) (*domain.GLAccount, error)
	listFn     func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.GLAccount, error)
	activateFn func(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error)
	blockFn    func(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error)
}

func (s *accountServiceStub) CreateGLAccount(ctx context.Context, input usecase.CreateGLAccountInput) (*domain.GLAccount, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetGLAccount(ctx context.Context, id string) (*domain.GLAccount, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListGLAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.GLAccount, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) ActivateAccount(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error) {
	return s.activateFn(ctx, input)
}

func (s *accountServiceStub) BlockAccount(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error) {
	return s.blockFn(ctx, input)
}

func testAccount(t *testing.T, id, number string, typ domain.AccountType) *domain.GLAccount {
	t.Helper()

	account, err := domain.NewGLAccount(domain.GLAccountSpec{
		ID:       id,
		ChartID:  "chart-1",
		Number:   number,
		Name:     "Account " + number,
		Type:     typ,
		Currency: "USD",
		Controls: domain.DefaultPostingControls(),
	}, handlerNow)
	if err != nil {
		t.Fatalf("NewGLAccount failed: %v", err)
	}

	return account
}

// withURLParam attaches a chi route parameter to req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := testAccount(t, "acc-1", "1000", domain.AccountTypeCash)

	var captured usecase.CreateGLAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateGLAccountInput) (*domain.GLAccount, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.CreateGLAccountRequest{
		ChartID:  "chart-1",
		Number:   "1000",
		Name:     "Cash",
		Type:     "CASH",
		Currency: "usd",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Number != "1000" || captured.Currency != "USD" || captured.Type != domain.AccountTypeCash {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.GLAccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.NormalBalance != "DEBIT" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_ValidationFailure(t *testing.T) {
	called := false
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateGLAccountInput) (*domain.GLAccount, error) {
			called = true
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"chart_id":"c","number":"1000","name":"Cash","type":"CASH","currency":"DOLLARS"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if called {
		t.Fatal("use case should not be called for an invalid request")
	}
}

func TestAccountHandler_Create_DuplicateNumber(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateGLAccountInput) (*domain.GLAccount, error) {
			return nil, fmt.Errorf("%w: 1000", domain.ErrDuplicateAccountNumber)
		},
	})

	body := `{"chart_id":"c","number":"1000","name":"Cash","type":"CASH","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.GLAccount, error) {
			if id != "missing" {
				t.Errorf("expected id from path, got %q", id)
			}
			return nil, domain.ErrAccountNotFound
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_UsesChartAndPaging(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.GLAccount, error) {
			captured = input
			return []*domain.GLAccount{testAccount(t, "acc-1", "1000", domain.AccountTypeCash)}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/charts/chart-1/accounts?limit=5&offset=10", nil), "id", "chart-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.ChartID != "chart-1" || captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected list input %+v", captured)
	}

	var resp dto.ListResponse[*dto.GLAccountResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Number != "1000" {
		t.Fatalf("unexpected items %+v", resp.Items)
	}
}

func TestAccountHandler_Block_PassesExpectedVersion(t *testing.T) {
	account := testAccount(t, "acc-1", "1000", domain.AccountTypeCash)
	account.Block(handlerNow)

	var captured usecase.AccountStatusInput
	handler := NewAccountHandler(&accountServiceStub{
		blockFn: func(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error) {
			captured = input
			return account, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/block", strings.NewReader(`{"expected_version":4}`)), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Block(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.ExpectedVersion == nil || captured.ExpectedVersion.Int64() != 4 {
		t.Fatalf("unexpected status input %+v", captured)
	}
}

func TestAccountHandler_Activate_StaleVersion(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		activateFn: func(ctx context.Context, input usecase.AccountStatusInput) (*domain.GLAccount, error) {
			return nil, fmt.Errorf("%w: account acc-1", domain.ErrConcurrentModification)
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/activate", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Activate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

type journalServiceStub struct {
	postFn     func(ctx context.Context, input usecase.PostJournalEntryInput) (*domain.JournalEntry, error)
	validateFn func(ctx context.Context, entryID string) ([]domain.Violation, error)
}

func (s *journalServiceStub) OpenJournalEntry(context.Context, usecase.OpenJournalEntryInput) (*domain.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (s *journalServiceStub) AddLineItem(context.Context, usecase.AddLineItemInput) (*domain.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (s *journalServiceStub) RemoveLineItem(context.Context, usecase.RemoveLineItemInput) (*domain.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (s *journalServiceStub) ValidateJournalEntry(ctx context.Context, entryID string) ([]domain.Violation, error) {
	return s.validateFn(ctx, entryID)
}

func (s *journalServiceStub) PostJournalEntry(ctx context.Context, input usecase.PostJournalEntryInput) (*domain.JournalEntry, error) {
	return s.postFn(ctx, input)
}

func (s *journalServiceStub) ReverseJournalEntry(context.Context, usecase.ReverseJournalEntryInput) (*domain.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (s *journalServiceStub) GetJournalEntry(context.Context, string) (*domain.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (s *journalServiceStub) ListJournalEntries(context.Context, usecase.JournalEntryFilter) ([]*domain.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func TestEntryHandler_Post_ReportsEveryViolation(t *testing.T) {
	handler := NewEntryHandler(&journalServiceStub{
		postFn: func(ctx context.Context, input usecase.PostJournalEntryInput) (*domain.JournalEntry, error) {
			return nil, &domain.ValidationError{Violations: []domain.Violation{
				{Code: domain.ViolationInsufficientLineItems, Line: domain.NoLine, Message: "1 line"},
				{Code: domain.ViolationUnbalancedEntry, Line: domain.NoLine, Message: "off by 5.00"},
			}}
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/journal-entries/je-1/post", nil), "id", "je-1")
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Violations) != 2 || resp.Violations[1].Code != "UNBALANCED_ENTRY" {
		t.Fatalf("expected both violations, got %+v", resp.Violations)
	}
}

func TestEntryHandler_Post_UnknownOutcome(t *testing.T) {
	handler := NewEntryHandler(&journalServiceStub{
		postFn: func(ctx context.Context, input usecase.PostJournalEntryInput) (*domain.JournalEntry, error) {
			return nil, &domain.PostingFailedError{EntryID: input.EntryID, Cause: context.DeadlineExceeded}
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/journal-entries/je-1/post", nil), "id", "je-1")
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestEntryHandler_Validate(t *testing.T) {
	handler := NewEntryHandler(&journalServiceStub{
		validateFn: func(ctx context.Context, entryID string) ([]domain.Violation, error) {
			return []domain.Violation{{Code: domain.ViolationInactiveAccount, Line: 1, AccountID: "cash", Message: "blocked"}}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/journal-entries/je-1/validation", nil), "id", "je-1")
	rec := httptest.NewRecorder()

	handler.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Valid || resp.EntryID != "je-1" || len(resp.Violations) != 1 || resp.Violations[0].Line != 2 {
		t.Fatalf("unexpected validation response %+v", resp)
	}
}
