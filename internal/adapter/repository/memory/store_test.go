package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/adapter/repository/memory"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/usecase"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func begin(t *testing.T, store *memory.Store) usecase.Transaction {
	t.Helper()

	tx, err := memory.NewTxManager(store).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	return tx
}

func newAccount(t *testing.T, id, number string) *domain.GLAccount {
	t.Helper()

	account, err := domain.NewGLAccount(domain.GLAccountSpec{
		ID:       id,
		ChartID:  "chart-1",
		Number:   number,
		Name:     "Account " + number,
		Type:     domain.AccountTypeCash,
		Currency: "USD",
		Controls: domain.DefaultPostingControls(),
	}, testNow)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}

	return account
}

func TestTx_CommitAppliesAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewGLAccountRepository(store)

	tx := begin(t, store)
	if err := repo.Create(ctx, tx, newAccount(t, "a1", "1000")); err != nil {
		t.Fatalf("stage a1: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx = begin(t, store)
	if err := repo.Create(ctx, tx, newAccount(t, "a2", "2000")); err != nil {
		t.Fatalf("stage a2: %v", err)
	}
	if err := repo.Create(ctx, tx, newAccount(t, "a3", "1000")); err != nil {
		t.Fatalf("stage a3: %v", err)
	}

	err := tx.Commit(ctx)
	if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
		t.Fatalf("expected ErrDuplicateAccountNumber, got %v", err)
	}

	if _, err := repo.GetByID(ctx, "a2"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("a2 should not exist after failed commit, got %v", err)
	}
}

func TestTx_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewGLAccountRepository(store)

	tx := begin(t, store)
	if err := repo.Create(ctx, tx, newAccount(t, "a1", "1000")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if err := tx.Commit(ctx); !errors.Is(err, memory.ErrTxDone) {
		t.Errorf("commit after rollback: expected ErrTxDone, got %v", err)
	}

	if _, err := repo.GetByID(ctx, "a1"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGLAccountRepository_StaleUpdateConflicts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewGLAccountRepository(store)

	tx := begin(t, store)
	if err := repo.Create(ctx, tx, newAccount(t, "a1", "1000")); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	first, _ := repo.GetByID(ctx, "a1")
	second, _ := repo.GetByID(ctx, "a1")

	first.Block(testNow)
	tx = begin(t, store)
	if err := repo.Update(ctx, tx, first); err != nil {
		t.Fatalf("stage first: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit first: %v", err)
	}

	if first.Version != domain.VersionOf(2) {
		t.Errorf("expected version 2, got %s", first.Version)
	}

	second.Name = "Renamed"
	tx = begin(t, store)
	if err := repo.Update(ctx, tx, second); err != nil {
		t.Fatalf("stage second: %v", err)
	}
	if err := tx.Commit(ctx); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	stored, _ := repo.GetByID(ctx, "a1")
	if stored.Status != domain.AccountStatusBlocked || stored.Name == "Renamed" {
		t.Errorf("stale write leaked: %+v", stored)
	}
}

func TestAccountBalanceRepository_InsertRace(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewAccountBalanceRepository(store)
	account := newAccount(t, "a1", "1000")
	key := domain.BalanceKey{AccountID: "a1", FiscalYear: 2024, FiscalPeriod: 3}

	first := domain.NewAccountBalance(key, account, testNow)
	second := domain.NewAccountBalance(key, account, testNow)
	_ = first.ApplyPosting(domain.SideDebit, decimal.NewFromInt(10), domain.HalfUp, testNow)
	_ = second.ApplyPosting(domain.SideDebit, decimal.NewFromInt(20), domain.HalfUp, testNow)

	tx1, tx2 := begin(t, store), begin(t, store)
	if err := repo.Save(ctx, tx1, first); err != nil {
		t.Fatalf("stage first: %v", err)
	}
	if err := repo.Save(ctx, tx2, second); err != nil {
		t.Fatalf("stage second: %v", err)
	}

	if err := tx1.Commit(ctx); err != nil {
		t.Fatalf("commit first: %v", err)
	}
	if err := tx2.Commit(ctx); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	stored, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.DebitTotal().Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected debit total 10, got %s", stored.DebitTotal())
	}
}

func TestExchangeRateRepository_FindEffective(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewExchangeRateRepository(store)

	record := func(id string, day int, rate string) {
		t.Helper()
		r, err := domain.NewExchangeRate(domain.ExchangeRateSpec{
			ID: id, From: "EUR", To: "USD",
			RateDate: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
			Rate:     decimal.RequireFromString(rate),
		}, testNow)
		if err != nil {
			t.Fatalf("new rate: %v", err)
		}
		tx := begin(t, store)
		if err := repo.Create(ctx, tx, r); err != nil {
			t.Fatalf("stage: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	record("r1", 1, "1.080000")
	record("r2", 10, "1.084700")

	tests := []struct {
		name    string
		on      time.Time
		wantID  string
		wantErr error
	}{
		{name: "before any rate", on: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), wantErr: domain.ErrExchangeRateNotFound},
		{name: "between rates", on: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), wantID: "r1"},
		{name: "on the second date", on: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), wantID: "r2"},
		{name: "after both", on: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), wantID: "r2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindEffective(ctx, "EUR", "USD", tt.on)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID() != tt.wantID {
				t.Errorf("expected %s, got %s", tt.wantID, got.ID())
			}
		})
	}
}

func TestDocumentNumbers_Next(t *testing.T) {
	numbers := memory.NewDocumentNumbers(memory.NewStore())

	first, _ := numbers.Next(context.Background(), "JE")
	second, _ := numbers.Next(context.Background(), "JE")
	other, _ := numbers.Next(context.Background(), "AP")

	if first != "JE-00000001" || second != "JE-00000002" || other != "AP-00000001" {
		t.Errorf("unexpected numbers %s %s %s", first, second, other)
	}
}

func TestFiscalCalendar(t *testing.T) {
	ctx := context.Background()
	calendar := memory.NewFiscalCalendar(false).Open(2024, 3)

	if open, _ := calendar.IsPeriodOpen(ctx, 2024, 3); !open {
		t.Error("2024-03 should be open")
	}
	if open, _ := calendar.IsPeriodOpen(ctx, 2024, 4); open {
		t.Error("2024-04 should default to closed")
	}

	calendar.Close(2024, 3)
	if open, _ := calendar.IsPeriodOpen(ctx, 2024, 3); open {
		t.Error("2024-03 should be closed")
	}
}
