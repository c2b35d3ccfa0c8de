// Package app assembles the use cases over one storage backend. Both
// transports and the server binary are built from the same Services.
package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/glcore/internal/adapter/repository/memory"
	"github.com/iho/glcore/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/glcore/internal/adapter/repository/redis"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
	"github.com/iho/glcore/internal/usecase"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager   usecase.TransactionManager
	Charts      usecase.ChartRepository
	Accounts    usecase.GLAccountRepository
	Entries     usecase.JournalEntryRepository
	Balances    usecase.AccountBalanceRepository
	Ledger      usecase.LedgerRepository
	Rates       usecase.ExchangeRateRepository
	Outbox      usecase.OutboxRepository
	Audit       usecase.AuditRepository
	Users       usecase.UserRepository
	Calendar    usecase.FiscalPeriodAdmin
	Numbers     usecase.DocumentNumberSource
	Idempotency usecase.IdempotencyStore
	IDGen       usecase.IDGenerator
}

// NewMemoryRepositories keeps everything in process.
func NewMemoryRepositories(periodsOpenByDefault bool) Repositories {
	store := memory.NewStore()

	return Repositories{
		TxManager:   memory.NewTxManager(store),
		Charts:      memory.NewChartRepository(store),
		Accounts:    memory.NewGLAccountRepository(store),
		Entries:     memory.NewJournalEntryRepository(store),
		Balances:    memory.NewAccountBalanceRepository(store),
		Ledger:      memory.NewLedgerRepository(store),
		Rates:       memory.NewExchangeRateRepository(store),
		Outbox:      memory.NewOutboxRepository(store),
		Audit:       memory.NewAuditRepository(store),
		Users:       memory.NewUserRepository(store),
		Calendar:    memory.NewFiscalCalendar(periodsOpenByDefault),
		Numbers:     memory.NewDocumentNumbers(store),
		Idempotency: memory.NewIdempotencyStore(),
		IDGen:       postgres.NewULIDGenerator(),
	}
}

// NewPostgresRepositories stores the ledger in postgres and keeps
// idempotency keys in redis.
func NewPostgresRepositories(pool *pgxpool.Pool, redisClient *goredis.Client, periodsOpenByDefault bool) Repositories {
	return Repositories{
		TxManager:   postgres.NewTxManager(pool),
		Charts:      postgres.NewChartRepository(pool),
		Accounts:    postgres.NewGLAccountRepository(pool),
		Entries:     postgres.NewJournalEntryRepository(pool),
		Balances:    postgres.NewAccountBalanceRepository(pool),
		Ledger:      postgres.NewLedgerRepository(pool),
		Rates:       postgres.NewExchangeRateRepository(pool),
		Outbox:      postgres.NewOutboxRepository(pool),
		Audit:       postgres.NewAuditRepository(pool),
		Users:       postgres.NewUserRepository(pool),
		Calendar:    postgres.NewFiscalCalendar(pool, periodsOpenByDefault),
		Numbers:     postgres.NewDocumentNumbers(pool),
		Idempotency: redisrepo.NewIdempotencyStore(redisClient),
		IDGen:       postgres.NewULIDGenerator(),
	}
}

// CacheRates puts a read-through redis cache in front of the rate table.
func (r Repositories) CacheRates(client *goredis.Client, ttl time.Duration, logger zerolog.Logger) Repositories {
	if client == nil || ttl <= 0 {
		return r
	}

	r.Rates = redisrepo.NewCachedExchangeRates(r.Rates, redisrepo.NewCache(client), ttl, logger)
	return r
}

// Options are the ledger-wide policies.
type Options struct {
	Rounding       domain.RoundingPolicy
	Currency       domain.CurrencyPolicy
	DocumentSeries string
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
	Now            func() time.Time
}

// Services holds every use case.
type Services struct {
	Repos Repositories

	Charts   *usecase.ChartUseCase
	Accounts *usecase.AccountUseCase
	Journal  *usecase.JournalUseCase
	Balances *usecase.BalanceUseCase
	Rates    *usecase.ExchangeRateUseCase
	Ledger   *usecase.LedgerUseCase
	Periods  *usecase.PeriodUseCase
	Audit    *usecase.AuditUseCase
	Users    *usecase.UserUseCase
}

// NewServices builds the use cases over repos.
func NewServices(repos Repositories, opts Options) *Services {
	if opts.Rounding.Mode == "" {
		opts.Rounding = domain.HalfUp
	}

	s := &Services{
		Repos:    repos,
		Charts:   usecase.NewChartUseCase(repos.TxManager, repos.Charts, repos.Audit, repos.IDGen, opts.Metrics),
		Accounts: usecase.NewAccountUseCase(repos.TxManager, repos.Charts, repos.Accounts, repos.Outbox, repos.Audit, repos.IDGen, opts.Metrics),
		Balances: usecase.NewBalanceUseCase(repos.TxManager, repos.Accounts, repos.Balances, repos.Audit, repos.IDGen, opts.Rounding, opts.Metrics),
		Rates:    usecase.NewExchangeRateUseCase(repos.TxManager, repos.Rates, repos.Outbox, repos.Audit, repos.IDGen, opts.Rounding, opts.Metrics),
		Ledger:   usecase.NewLedgerUseCase(repos.Ledger, repos.Entries, repos.Accounts, repos.Balances, opts.Rounding),
		Periods:  usecase.NewPeriodUseCase(repos.TxManager, repos.Calendar, repos.Audit, repos.IDGen),
		Audit:    usecase.NewAuditUseCase(repos.Audit),
		Users:    usecase.NewUserUseCase(repos.Users, repos.IDGen),
	}

	logger := opts.Logger
	s.Journal = usecase.NewJournalUseCase(usecase.JournalConfig{
		TxManager:      repos.TxManager,
		AccountRepo:    repos.Accounts,
		EntryRepo:      repos.Entries,
		BalanceRepo:    repos.Balances,
		RateRepo:       repos.Rates,
		OutboxRepo:     repos.Outbox,
		AuditRepo:      repos.Audit,
		Periods:        repos.Calendar,
		Numbers:        repos.Numbers,
		IDGen:          repos.IDGen,
		Rounding:       opts.Rounding,
		Currency:       opts.Currency,
		DocumentSeries: opts.DocumentSeries,
		Metrics:        opts.Metrics,
		Logger:         &logger,
		Now:            opts.Now,
	})

	if opts.Now != nil {
		s.Charts.WithClock(opts.Now)
		s.Accounts.WithClock(opts.Now)
		s.Balances.WithClock(opts.Now)
		s.Rates.WithClock(opts.Now)
		s.Periods.WithClock(opts.Now)
		s.Users.WithClock(opts.Now)
	}

	return s
}
