package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/adapter/repository/memory"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
	"github.com/iho/glcore/internal/usecase"
	"github.com/iho/glcore/internal/usecase/mocks"
)

var (
	testNow     = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	postingDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testLedger wires every use case over one memory store.
type testLedger struct {
	store    *memory.Store
	calendar *memory.FiscalCalendar
	audit    *memory.AuditRepository
	metrics  *metrics.Metrics

	charts   *usecase.ChartUseCase
	accounts *usecase.AccountUseCase
	journal  *usecase.JournalUseCase
	balances *usecase.BalanceUseCase
	rates    *usecase.ExchangeRateUseCase
	ledger   *usecase.LedgerUseCase
	periods  *usecase.PeriodUseCase

	chart   *domain.ChartOfAccounts
	cash    *domain.GLAccount
	revenue *domain.GLAccount
}

type ledgerOption func(*usecase.JournalConfig)

func withMultiCurrency() ledgerOption {
	return func(cfg *usecase.JournalConfig) { cfg.Currency = domain.CurrencyPolicy{MultiCurrency: true} }
}

func newTestLedger(t *testing.T, opts ...ledgerOption) *testLedger {
	t.Helper()

	store := memory.NewStore()
	calendar := memory.NewFiscalCalendar(false).Open(2024, 3)
	m := metrics.New(prometheus.NewRegistry())
	txManager := memory.NewTxManager(store)
	idGen := mocks.NewMockIDGenerator()
	clock := func() time.Time { return testNow }

	chartRepo := memory.NewChartRepository(store)
	accountRepo := memory.NewGLAccountRepository(store)
	entryRepo := memory.NewJournalEntryRepository(store)
	balanceRepo := memory.NewAccountBalanceRepository(store)
	rateRepo := memory.NewExchangeRateRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	cfg := usecase.JournalConfig{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		EntryRepo:   entryRepo,
		BalanceRepo: balanceRepo,
		RateRepo:    rateRepo,
		OutboxRepo:  outboxRepo,
		AuditRepo:   auditRepo,
		Periods:     calendar,
		Numbers:     memory.NewDocumentNumbers(store),
		IDGen:       idGen,
		Rounding:    domain.HalfUp,
		Metrics:     m,
		Now:         clock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &testLedger{
		store:    store,
		audit:    auditRepo,
		calendar: calendar,
		metrics:  m,
		charts:   usecase.NewChartUseCase(txManager, chartRepo, auditRepo, idGen, m).WithClock(clock),
		accounts: usecase.NewAccountUseCase(txManager, chartRepo, accountRepo, outboxRepo, auditRepo, idGen, m).WithClock(clock),
		journal:  usecase.NewJournalUseCase(cfg),
		balances: usecase.NewBalanceUseCase(txManager, accountRepo, balanceRepo, auditRepo, idGen, domain.HalfUp, m).WithClock(clock),
		rates:    usecase.NewExchangeRateUseCase(txManager, rateRepo, outboxRepo, auditRepo, idGen, domain.HalfUp, m).WithClock(clock),
		ledger:   usecase.NewLedgerUseCase(memory.NewLedgerRepository(store), entryRepo, accountRepo, balanceRepo, domain.HalfUp),
		periods:  usecase.NewPeriodUseCase(txManager, calendar, auditRepo, idGen).WithClock(clock),
	}

	ctx := context.Background()

	chart, err := l.charts.CreateChartOfAccounts(ctx, usecase.CreateChartInput{OrganizationID: "org-1", Code: "IFRS", Name: "Group chart"})
	if err != nil {
		t.Fatalf("create chart: %v", err)
	}
	l.chart = chart

	l.cash = l.mustAccount(t, "1000", "Cash", domain.AccountTypeCash, "USD", nil)
	l.revenue = l.mustAccount(t, "4000", "Revenue", domain.AccountTypeRevenue, "USD", nil)

	return l
}

func (l *testLedger) mustAccount(t *testing.T, number, name string, typ domain.AccountType, currency string, controls *domain.PostingControls) *domain.GLAccount {
	t.Helper()

	account, err := l.accounts.CreateGLAccount(context.Background(), usecase.CreateGLAccountInput{
		ChartID:  l.chart.ID,
		Number:   number,
		Name:     name,
		Type:     typ,
		Currency: currency,
		Controls: controls,
	})
	if err != nil {
		t.Fatalf("create account %s: %v", number, err)
	}

	return account
}

func debit(accountID, amount string) usecase.LineItemInput {
	return usecase.LineItemInput{AccountID: accountID, Debit: dec(amount)}
}

func credit(accountID, amount string) usecase.LineItemInput {
	return usecase.LineItemInput{AccountID: accountID, Credit: dec(amount)}
}

func (l *testLedger) openDraft(t *testing.T, lines ...usecase.LineItemInput) *domain.JournalEntry {
	t.Helper()

	entry, err := l.journal.OpenJournalEntry(context.Background(), usecase.OpenJournalEntryInput{
		PostingDate: postingDate,
		Currency:    "USD",
		Description: "Cash sale",
		Actor:       "alice",
		Lines:       lines,
	})
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}

	return entry
}

func (l *testLedger) post(t *testing.T, entryID string) *domain.JournalEntry {
	t.Helper()

	posted, err := l.journal.PostJournalEntry(context.Background(), usecase.PostJournalEntryInput{EntryID: entryID, Actor: "alice"})
	if err != nil {
		t.Fatalf("post entry: %v", err)
	}

	return posted
}

func (l *testLedger) balance(t *testing.T, accountID string) *domain.AccountBalance {
	t.Helper()

	b, err := l.balances.GetAccountBalance(context.Background(), accountID, 2024, 3)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	return b
}
