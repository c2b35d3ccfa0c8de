package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestChartRepositoryCreateDuplicateCode(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO charts_of_accounts").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "charts_of_accounts_org_code_key"})

	chart, err := domain.NewChartOfAccounts("c1", "org", "MAIN", "Main chart", testNow)
	if err != nil {
		t.Fatalf("new chart: %v", err)
	}

	err = NewChartRepository(pool).Create(context.Background(), tx, chart)
	if !errors.Is(err, domain.ErrDuplicateChartCode) {
		t.Fatalf("expected ErrDuplicateChartCode, got %v", err)
	}
	if !chart.Version.IsZero() {
		t.Fatalf("failed create must not assign a version, got %s", chart.Version)
	}

	assertExpectations(t, pool)
}

func TestChartRepositoryUpdateVersionCheck(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE charts_of_accounts").
		WithArgs("c1", int64(3), "Main chart", "INACTIVE", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UPDATE charts_of_accounts").
		WithArgs("c1", int64(4), "Main chart", "ACTIVE", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewChartRepository(pool)
	chart := &domain.ChartOfAccounts{
		ID: "c1", OrganizationID: "org", Code: "MAIN", Name: "Main chart",
		Status: domain.ChartStatusActive, Version: domain.VersionOf(3),
	}

	if err := chart.Deactivate(testNow); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := repo.Update(context.Background(), tx, chart); err != nil {
		t.Fatalf("update: %v", err)
	}
	if chart.Version != domain.VersionOf(4) {
		t.Fatalf("expected version 4, got %s", chart.Version)
	}

	if err := chart.Activate(testNow); err != nil {
		t.Fatalf("activate: %v", err)
	}
	err := repo.Update(context.Background(), tx, chart)
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestGLAccountRepositoryNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM gl_accounts").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := NewGLAccountRepository(pool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestGLAccountRepositoryGetByIDsEmpty(t *testing.T) {
	pool := newMockPool(t)

	accounts, err := NewGLAccountRepository(pool).GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts, got %d", len(accounts))
	}

	assertExpectations(t, pool)
}

func TestAccountBalanceRepositoryInsertRace(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO account_balances").WillReturnResult(pgxmock.NewResult("INSERT", 0))

	account := &domain.GLAccount{ID: "a1", Currency: "USD", NormalBalance: domain.NormalDebit}
	key := domain.BalanceKey{AccountID: "a1", FiscalYear: 2024, FiscalPeriod: 3}
	balance := domain.NewAccountBalance(key, account, testNow)
	if err := balance.ApplyPosting(domain.SideDebit, decimal.RequireFromString("100.00"), domain.HalfUp, testNow); err != nil {
		t.Fatalf("apply: %v", err)
	}

	err := NewAccountBalanceRepository(pool).Save(context.Background(), tx, balance)
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	if !balance.Version().IsZero() {
		t.Fatalf("failed save must not advance the version, got %s", balance.Version())
	}

	assertExpectations(t, pool)
}

func TestAccountBalanceRepositoryUpdateAdvancesVersion(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE account_balances").
		WithArgs("a1", int32(2024), int32(3), int64(2),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	balance := domain.RehydrateAccountBalance(domain.AccountBalanceSnapshot{
		Key:           domain.BalanceKey{AccountID: "a1", FiscalYear: 2024, FiscalPeriod: 3},
		Currency:      "USD",
		NormalBalance: domain.NormalCredit,
		Opening:       decimal.Zero,
		DebitTotal:    decimal.Zero,
		CreditTotal:   decimal.RequireFromString("50.00"),
		Closing:       decimal.RequireFromString("50.00"),
		Version:       domain.VersionOf(2),
	})

	if err := NewAccountBalanceRepository(pool).Save(context.Background(), tx, balance); err != nil {
		t.Fatalf("save: %v", err)
	}
	if balance.Version() != domain.VersionOf(3) {
		t.Fatalf("expected version 3, got %s", balance.Version())
	}

	assertExpectations(t, pool)
}

func TestJournalEntryRepositorySaveConflictKeepsLines(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE journal_entries").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	entry := domain.RehydrateJournalEntry(domain.JournalEntrySnapshot{
		ID:             "je1",
		DocumentNumber: "JE-00000001",
		PostingDate:    testNow,
		DocumentDate:   testNow,
		FiscalYear:     2024,
		FiscalPeriod:   3,
		Currency:       "USD",
		Source:         domain.EntrySourceManual,
		Status:         domain.EntryStatusDraft,
		Version:        domain.VersionOf(1),
	})

	err := NewJournalEntryRepository(pool).Save(context.Background(), tx, entry)
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}

	// no DELETE of lines may follow a failed version check
	assertExpectations(t, pool)
}

func TestExchangeRateRepositoryFindEffectiveMissing(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM exchange_rates").WillReturnError(pgx.ErrNoRows)

	_, err := NewExchangeRateRepository(pool).FindEffective(context.Background(), "EUR", "USD", testNow)
	if !errors.Is(err, domain.ErrExchangeRateNotFound) {
		t.Fatalf("expected ErrExchangeRateNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestOutboxRepositoryMarkPublishedUnknownEvent(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE outbox_events").WithArgs("ev1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := NewOutboxRepository(pool).MarkPublished(context.Background(), "ev1", testNow); err == nil {
		t.Fatal("expected error for unknown event")
	}

	assertExpectations(t, pool)
}

func TestAuditRepositoryListBuildsNumberedFilter(t *testing.T) {
	pool := newMockPool(t)

	rows := pgxmock.NewRows([]string{
		"id", "actor_id", "action", "resource_type", "resource_id", "request_id",
		"before_state", "after_state", "status", "error_message", "created_at",
	}).AddRow("a1", "u1", "journal_entry.post", "journal_entry", "je1", "req-1",
		[]byte(nil), []byte(`{"status":"POSTED"}`), "success", "", testNow)

	pool.ExpectQuery(regexp.QuoteMeta("WHERE actor_id = $1 AND resource_type = $2 ORDER BY created_at DESC, id DESC LIMIT $3")).
		WithArgs("u1", "journal_entry", 10).
		WillReturnRows(rows)

	logs, err := NewAuditRepository(pool).List(context.Background(), domain.AuditFilter{
		ActorID:      "u1",
		ResourceType: "journal_entry",
		Limit:        10,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one log, got %d", len(logs))
	}
	if logs[0].Action != domain.AuditActionEntryPost || logs[0].AfterState["status"] != "POSTED" {
		t.Fatalf("unexpected log %+v", logs[0])
	}

	assertExpectations(t, pool)
}

func TestAuditRepositoryListRejectsCorruptState(t *testing.T) {
	pool := newMockPool(t)

	rows := pgxmock.NewRows([]string{
		"id", "actor_id", "action", "resource_type", "resource_id", "request_id",
		"before_state", "after_state", "status", "error_message", "created_at",
	}).AddRow("a1", "u1", "journal_entry.post", "journal_entry", "je1", "req-1",
		[]byte(`{"status":`), []byte(nil), "success", "", testNow)

	pool.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE resource_id = $1")).
		WithArgs("je1").
		WillReturnRows(rows)

	logs, err := NewAuditRepository(pool).List(context.Background(), domain.AuditFilter{ResourceID: "je1"})
	if err == nil {
		t.Fatalf("expected a decode error, got logs %+v", logs)
	}
	if !strings.Contains(err.Error(), "before_state of audit log a1") {
		t.Errorf("error does not name the row: %v", err)
	}

	assertExpectations(t, pool)
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM users WHERE email").WithArgs("nobody@example.com").WillReturnError(pgx.ErrNoRows)

	_, err := NewUserRepository(pool).GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "users_email_key"})

	err := NewUserRepository(pool).Create(context.Background(), &domain.User{ID: "u1", Email: "a@example.com"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestDocumentNumbersNext(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("INSERT INTO document_sequences").WithArgs("JE").
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

	got, err := NewDocumentNumbers(pool).Next(context.Background(), "JE")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if got != "JE-00000042" {
		t.Fatalf("expected JE-00000042, got %s", got)
	}

	assertExpectations(t, pool)
}

func TestFiscalCalendar(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM fiscal_periods").WithArgs(int32(2024), int32(3)).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("CLOSED"))
	pool.ExpectQuery("FROM fiscal_periods").WithArgs(int32(2024), int32(4)).
		WillReturnError(pgx.ErrNoRows)
	pool.ExpectExec("INSERT INTO fiscal_periods").WithArgs(int32(2024), int32(4), "OPEN").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	calendar := NewFiscalCalendar(pool, false)
	ctx := context.Background()

	open, err := calendar.IsPeriodOpen(ctx, 2024, 3)
	if err != nil || open {
		t.Fatalf("expected closed period, got open=%v err=%v", open, err)
	}

	open, err = calendar.IsPeriodOpen(ctx, 2024, 4)
	if err != nil || open {
		t.Fatalf("expected unknown period to follow the default, got open=%v err=%v", open, err)
	}

	if err := calendar.OpenPeriod(ctx, 2024, 4); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := calendar.ClosePeriod(ctx, 2024, 0); err == nil {
		t.Fatal("expected invalid period to be rejected")
	}

	assertExpectations(t, pool)
}
