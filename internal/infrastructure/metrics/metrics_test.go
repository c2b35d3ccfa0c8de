package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.EntriesPosted == nil || m.HTTPRequests == nil || m.ConcurrencyConflicts == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.EntriesPosted.Inc()
	m.ValidationFailures.WithLabelValues("UNBALANCED_ENTRY").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.EntriesPosted); got != 1 {
		t.Fatalf("expected posted counter 1, got %v", got)
	}
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// Each registry gets its own collectors, so building twice must not panic.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
