package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/glcore/internal/adapter/http"
	"github.com/iho/glcore/internal/adapter/http/handler"
	"github.com/iho/glcore/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/glcore/internal/adapter/repository/postgres"
	"github.com/iho/glcore/internal/app"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/auth"
	"github.com/iho/glcore/internal/infrastructure/config"
	"github.com/iho/glcore/internal/infrastructure/eventpublisher"
	"github.com/iho/glcore/internal/infrastructure/logger"
	"github.com/iho/glcore/internal/infrastructure/metrics"
	"github.com/iho/glcore/internal/infrastructure/postgres"
	"github.com/iho/glcore/internal/infrastructure/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	opts, err := ledgerOptions(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts.Metrics = m
	opts.Logger = log

	store, checks, cleanup, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	services := app.NewServices(store.repos, opts)

	var authenticator middleware.ActorAuthenticator
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			return errors.New("AUTH_ENABLED requires JWT_SECRET")
		}
		authenticator = jwtManager
	} else {
		log.Warn().Msg("authentication disabled, every request acts as controller")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ChartHandler:      handler.NewChartHandler(services.Charts),
		AccountHandler:    handler.NewAccountHandler(services.Accounts),
		EntryHandler:      handler.NewEntryHandler(services.Journal),
		BalanceHandler:    handler.NewBalanceHandler(services.Balances),
		RateHandler:       handler.NewRateHandler(services.Rates),
		LedgerHandler:     handler.NewLedgerHandler(services.Ledger, services.Periods),
		AuditHandler:      handler.NewAuditHandler(services.Audit),
		AuthHandler:       handler.NewAuthHandler(services.Users, jwtManager),
		UserHandler:       handler.NewUserHandler(services.Users),
		HealthHandler:     handler.NewHealthHandler(checks),
		Authenticator:     authenticator,
		IdempotencyStore:  store.repos.Idempotency,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		Logger:            log,
		Metrics:           m,
		Gatherer:          reg,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.repos.Outbox,
		Publisher:  newSink(cfg, store.redis, log),
		Retrier:    postgresRepo.NewRetrier(postgresRepo.RetrierConfig{MaxRetries: cfg.OutboxMaxRetries}, log),
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.Storage).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := publisher.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ledgerOptions turns the ledger settings into process-wide policies.
func ledgerOptions(cfg *config.Config) (app.Options, error) {
	mode, err := domain.ParseRoundingMode(cfg.RoundingMode)
	if err != nil {
		return app.Options{}, err
	}

	return app.Options{
		Rounding:       domain.RoundingPolicy{Mode: mode},
		Currency:       domain.CurrencyPolicy{MultiCurrency: cfg.MultiCurrency},
		DocumentSeries: cfg.DocumentSeries,
	}, nil
}

type storage struct {
	repos app.Repositories
	redis *goredis.Client // nil in memory mode
}

// openStorage connects the configured backend and returns its health checks.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage, map[string]handler.Pinger, func(), error) {
	if cfg.UsesMemory() {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return storage{repos: app.NewMemoryRepositories(cfg.PeriodsOpenByDefault)}, nil, func() {}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return storage{}, nil, nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return storage{}, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(connectCtx, redis.Config{
		URL:         cfg.RedisURL,
		ClientName:  "glcore",
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	})
	if err != nil {
		pool.Close()
		return storage{}, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info().Msg("connected to redis")

	repos := app.NewPostgresRepositories(pool, redisClient, cfg.PeriodsOpenByDefault).
		CacheRates(redisClient, cfg.RateCacheTTL, log)

	checks := map[string]handler.Pinger{
		"postgres": handler.PingFunc(pool.Ping),
		"redis": handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}

	cleanup := func() {
		redisClient.Close()
		pool.Close()
	}

	return storage{repos: repos, redis: redisClient}, checks, cleanup, nil
}

// newSink picks where outbox events go: a redis stream when configured,
// otherwise the log.
func newSink(cfg *config.Config, client *goredis.Client, log zerolog.Logger) eventpublisher.Publisher {
	if cfg.EventStream != "" && client != nil {
		return eventpublisher.NewStreamPublisher(client, cfg.EventStream, cfg.EventStreamLen)
	}

	return eventpublisher.NewLogPublisher(log)
}
