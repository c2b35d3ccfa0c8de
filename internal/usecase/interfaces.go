package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/glcore/internal/domain"
)

// ChartRepository defines data access for charts of accounts.
type ChartRepository interface {
	Create(ctx context.Context, tx Transaction, chart *domain.ChartOfAccounts) error
	// Update writes chart if its stored version equals chart.Version and
	// advances chart.Version; otherwise it fails with ErrConcurrentModification.
	Update(ctx context.Context, tx Transaction, chart *domain.ChartOfAccounts) error
	GetByID(ctx context.Context, id string) (*domain.ChartOfAccounts, error)
	List(ctx context.Context, organizationID string, limit, offset int) ([]*domain.ChartOfAccounts, error)
}

// GLAccountRepository defines data access for GL accounts.
type GLAccountRepository interface {
	// Create fails with ErrDuplicateAccountNumber if the number is taken in the chart.
	Create(ctx context.Context, tx Transaction, account *domain.GLAccount) error
	Update(ctx context.Context, tx Transaction, account *domain.GLAccount) error
	GetByID(ctx context.Context, id string) (*domain.GLAccount, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.GLAccount, error)
	GetByNumber(ctx context.Context, chartID, number string) (*domain.GLAccount, error)
	ListByChart(ctx context.Context, chartID string, limit, offset int) ([]*domain.GLAccount, error)
}

// JournalEntryFilter narrows ListJournalEntries.
type JournalEntryFilter struct {
	Status       domain.EntryStatus
	FiscalYear   int
	FiscalPeriod int
	Limit        int
	Offset       int
}

// JournalEntryRepository defines data access for journal entries and their lines.
type JournalEntryRepository interface {
	// Create fails with ErrDuplicateDocumentNumber if the number is taken.
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// Save replaces header and lines if the stored version matches, and
	// advances the entry's version.
	Save(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	List(ctx context.Context, filter JournalEntryFilter) ([]*domain.JournalEntry, error)
}

// AccountBalanceRepository defines data access for period balances.
type AccountBalanceRepository interface {
	Get(ctx context.Context, key domain.BalanceKey) (*domain.AccountBalance, error)
	// Save inserts a balance whose version is zero and updates others with a
	// version check. Either conflict fails with ErrConcurrentModification.
	Save(ctx context.Context, tx Transaction, balance *domain.AccountBalance) error
	FindBalancesForPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) ([]*domain.AccountBalance, error)
}

// ExchangeRateRepository defines data access for exchange rates.
type ExchangeRateRepository interface {
	Create(ctx context.Context, tx Transaction, rate *domain.ExchangeRate) error
	GetByID(ctx context.Context, id string) (*domain.ExchangeRate, error)
	// FindEffective returns the latest rate for the pair dated on or before on.
	FindEffective(ctx context.Context, from, to string, on time.Time) (*domain.ExchangeRate, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	PeriodTotals(ctx context.Context, fiscalYear, fiscalPeriod int) ([]CurrencyTotals, error)
}

// CurrencyTotals are the summed period totals of all balances in one currency.
type CurrencyTotals struct {
	Currency    string
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// FiscalPeriodService answers whether a period accepts postings.
type FiscalPeriodService interface {
	IsPeriodOpen(ctx context.Context, fiscalYear, fiscalPeriod int) (bool, error)
}

// FiscalPeriodAdmin opens and closes periods.
type FiscalPeriodAdmin interface {
	FiscalPeriodService
	OpenPeriod(ctx context.Context, fiscalYear, fiscalPeriod int) error
	ClosePeriod(ctx context.Context, fiscalYear, fiscalPeriod int) error
}

// DocumentNumberSource hands out unique, externally serialized document numbers.
type DocumentNumberSource interface {
	Next(ctx context.Context, series string) (string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient infrastructure errors.
// Ledger writes are never wrapped in it.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// ErrCacheMiss is returned by Cache.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyInFlight is stored under a claimed key until the first
// request has a response.
const IdempotencyInFlight = "processing"

// IsIdempotencyInFlight reports whether a stored value is the in-flight marker.
func IsIdempotencyInFlight(value []byte) bool {
	return string(value) == IdempotencyInFlight
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request may be retried.
	Release(ctx context.Context, key string) error
}
