package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal entry metrics
	EntriesOpened      prometheus.Counter
	EntriesPosted      prometheus.Counter
	EntriesReversed    prometheus.Counter
	PostingDuration    prometheus.Histogram
	PostedAmount       *prometheus.HistogramVec
	ValidationFailures *prometheus.CounterVec
	PostingErrors      *prometheus.CounterVec

	// Master data metrics
	ChartsCreated       prometheus.Counter
	AccountsCreated     prometheus.Counter
	AccountStatusChange *prometheus.CounterVec

	// Balance metrics
	BalanceWrites *prometheus.CounterVec

	// Exchange rate metrics
	ExchangeRatesRecorded prometheus.Counter
	Conversions           *prometheus.CounterVec

	// Concurrency metrics
	ConcurrencyConflicts *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventErrors     *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		EntriesOpened: f.NewCounter(prometheus.CounterOpts{
			Name: "glcore_journal_entries_opened_total",
			Help: "Total number of draft journal entries opened",
		}),
		EntriesPosted: f.NewCounter(prometheus.CounterOpts{
			Name: "glcore_journal_entries_posted_total",
			Help: "Total number of journal entries posted",
		}),
		EntriesReversed: f.NewCounter(prometheus.CounterOpts{
			Name: "glcore_journal_entries_reversed_total",
			Help: "Total number of journal entries reversed",
		}),
		PostingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "glcore_posting_duration_seconds",
			Help:    "Duration of post and reverse operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostedAmount: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glcore_posted_amount",
				Help:    "Total debit of posted entries",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"currency"},
		),
		ValidationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_validation_failures_total",
				Help: "Journal entry validation violations by code",
			},
			[]string{"code"},
		),
		PostingErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_posting_errors_total",
				Help: "Failed post and reverse operations by kind",
			},
			[]string{"operation", "kind"},
		),
		ChartsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "glcore_charts_created_total",
			Help: "Total number of charts of accounts created",
		}),
		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "glcore_gl_accounts_created_total",
			Help: "Total number of GL accounts created",
		}),
		AccountStatusChange: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_gl_account_status_changes_total",
				Help: "GL account status changes by target status",
			},
			[]string{"status"},
		),
		BalanceWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_balance_writes_total",
				Help: "Account balance rows written by kind",
			},
			[]string{"kind"},
		),
		ExchangeRatesRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "glcore_exchange_rates_recorded_total",
			Help: "Total number of exchange rates recorded",
		}),
		Conversions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_conversions_total",
				Help: "Currency conversions by pair",
			},
			[]string{"from", "to"},
		),
		ConcurrencyConflicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_concurrency_conflicts_total",
				Help: "Optimistic concurrency conflicts by operation",
			},
			[]string{"operation"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glcore_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_outbox_events_published_total",
				Help: "Outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glcore_outbox_event_errors_total",
				Help: "Outbox publish failures by type",
			},
			[]string{"event_type"},
		),
	}
}
