package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/unrolled/secure"

	"github.com/iho/glcore/internal/adapter/http/handler"
	"github.com/iho/glcore/internal/adapter/http/middleware"
	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/metrics"
	"github.com/iho/glcore/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ChartHandler   *handler.ChartHandler
	AccountHandler *handler.AccountHandler
	EntryHandler   *handler.EntryHandler
	BalanceHandler *handler.BalanceHandler
	RateHandler    *handler.RateHandler
	LedgerHandler  *handler.LedgerHandler
	AuditHandler   *handler.AuditHandler
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	HealthHandler  *handler.HealthHandler

	// Authenticator is nil when authentication is disabled.
	Authenticator    middleware.ActorAuthenticator
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Write routes are limited per client IP. Zero requests disables it.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
	}).Handler)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	canPost := middleware.RequireRole(domain.Role.CanPost)
	canManage := middleware.RequireRole(domain.Role.CanManage)

	writes := chi.Chain(writeLimiter(cfg)...)
	if cfg.IdempotencyStore != nil {
		idem := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).WithTTL(cfg.IdempotencyTTL)
		writes = append(writes, idem.Wrap)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(writeLimiter(cfg)...).Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.Authenticator))

			r.Get("/auth/me", cfg.AuthHandler.Me)

			// Charts of accounts
			r.Route("/charts", func(r chi.Router) {
				r.Get("/", cfg.ChartHandler.List)
				r.Get("/{id}", cfg.ChartHandler.Get)
				r.Get("/{id}/accounts", cfg.AccountHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(canManage)
					r.Use(writes...)
					r.Post("/", cfg.ChartHandler.Create)
					r.Post("/{id}/activate", cfg.ChartHandler.Activate)
					r.Post("/{id}/deactivate", cfg.ChartHandler.Deactivate)
					r.Post("/{id}/archive", cfg.ChartHandler.Archive)
				})
			})

			// GL accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/balance", cfg.BalanceHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(canManage)
					r.Use(writes...)
					r.Post("/", cfg.AccountHandler.Create)
					r.Post("/{id}/activate", cfg.AccountHandler.Activate)
					r.Post("/{id}/block", cfg.AccountHandler.Block)
				})
			})

			// Journal entries
			r.Route("/journal-entries", func(r chi.Router) {
				r.Get("/", cfg.EntryHandler.List)
				r.Get("/{id}", cfg.EntryHandler.Get)
				r.Get("/{id}/validation", cfg.EntryHandler.Validate)

				r.Group(func(r chi.Router) {
					r.Use(canPost)
					r.Use(writes...)
					r.Post("/", cfg.EntryHandler.Open)
					r.Post("/{id}/lines", cfg.EntryHandler.AddLine)
					r.Delete("/{id}/lines/{lineID}", cfg.EntryHandler.RemoveLine)
					r.Post("/{id}/post", cfg.EntryHandler.Post)
				})

				r.With(canManage).With(writes...).Post("/{id}/reverse", cfg.EntryHandler.Reverse)
			})

			// Period balances
			r.Route("/balances", func(r chi.Router) {
				r.Get("/", cfg.BalanceHandler.List)
				r.With(canManage).With(writes...).Post("/opening", cfg.BalanceHandler.SeedOpening)
			})

			// Exchange rates
			r.Route("/exchange-rates", func(r chi.Router) {
				r.Get("/effective", cfg.RateHandler.Effective)
				r.Get("/convert", cfg.RateHandler.Convert)
				r.Get("/{id}", cfg.RateHandler.Get)
				r.With(canManage).With(writes...).Post("/", cfg.RateHandler.Record)
			})

			// Ledger integrity
			r.Route("/ledger", func(r chi.Router) {
				r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
				r.Get("/reconciliation", cfg.LedgerHandler.Reconcile)
			})

			// Fiscal periods
			r.Route("/periods/{year}/{period}", func(r chi.Router) {
				r.Get("/", cfg.LedgerHandler.PeriodStatus)
				r.With(canManage).With(writes...).Post("/open", cfg.LedgerHandler.OpenPeriod)
				r.With(canManage).With(writes...).Post("/close", cfg.LedgerHandler.ClosePeriod)
			})

			// Administration
			r.Group(func(r chi.Router) {
				r.Use(canManage)
				r.Get("/audit-logs", cfg.AuditHandler.List)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", cfg.UserHandler.List)
					r.Get("/{id}", cfg.UserHandler.Get)
					r.With(writes...).Post("/", cfg.UserHandler.Create)
					r.With(writes...).Patch("/{id}", cfg.UserHandler.Update)
				})
			})
		})
	})

	return r
}

// writeLimiter limits mutating routes per client IP.
func writeLimiter(cfg RouterConfig) []func(http.Handler) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		return nil
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return []func(http.Handler) http.Handler{
		httprate.Limit(
			cfg.RateLimitRequests,
			window,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
			}),
		),
	}
}
