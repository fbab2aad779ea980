package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.LedgerOperations == nil || m.HTTPRequests == nil || m.SnapshotWrites == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.TransactionsAdded.WithLabelValues("expense").Inc()
	m.SnapshotWrites.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.TransactionsAdded.WithLabelValues("expense")); got != 1 {
		t.Errorf("expected 1 expense transaction, got %v", got)
	}
}

func TestNewOnSeparateRegistries(t *testing.T) {
	// Each registry gets its own collectors, so constructing twice must not panic.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
