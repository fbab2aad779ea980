package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerOperations   *prometheus.CounterVec
	TransactionsAdded  *prometheus.CounterVec
	RecurringGenerated prometheus.Counter
	RecurringSkipped   prometheus.Counter
	DebtPayments       prometheus.Counter
	AmountsCapped      *prometheus.CounterVec
	SplitExpensesAdded prometheus.Counter
	SettlementsAdded   prometheus.Counter

	// Persistence metrics
	SnapshotWrites        prometheus.Counter
	SnapshotWriteFailures prometheus.Counter
	SnapshotWriteDuration prometheus.Histogram
	SnapshotBytes         prometheus.Gauge
	StoreOperations       *prometheus.CounterVec
	StoreErrors           *prometheus.CounterVec

	// Notification metrics
	NotificationsSent    *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter
}

// New creates all Prometheus metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LedgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_ledger_operations_total",
				Help: "Ledger state transitions by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		TransactionsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transactions_added_total",
				Help: "Transactions added to the ledger by type",
			},
			[]string{"type"},
		),
		RecurringGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_recurring_generated_total",
			Help: "Transactions emitted from recurring templates",
		}),
		RecurringSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_recurring_skipped_total",
			Help: "Due recurring templates skipped because their transaction was invalid",
		}),
		DebtPayments: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_debt_payments_total",
			Help: "Debt payments recorded",
		}),
		AmountsCapped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_amounts_capped_total",
				Help: "Payments and withdrawals capped to the available amount",
			},
			[]string{"kind"},
		),
		SplitExpensesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_split_expenses_added_total",
			Help: "Group expenses added",
		}),
		SettlementsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_settlements_added_total",
			Help: "Group settlements recorded",
		}),

		SnapshotWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_snapshot_writes_total",
			Help: "Snapshot writes attempted",
		}),
		SnapshotWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_snapshot_write_failures_total",
			Help: "Snapshot writes that failed",
		}),
		SnapshotWriteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrack_snapshot_write_duration_seconds",
			Help:    "Duration of snapshot writes",
			Buckets: prometheus.DefBuckets,
		}),
		SnapshotBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_snapshot_bytes",
			Help: "Size of the last written snapshot",
		}),
		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_store_operations_total",
				Help: "Key-value store operations by backend",
			},
			[]string{"backend", "operation"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_store_errors_total",
				Help: "Key-value store errors by backend",
			},
			[]string{"backend", "operation"},
		),

		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_notifications_total",
				Help: "Bill reminder notifications by operation",
			},
			[]string{"operation"},
		),
		NotificationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_notification_failures_total",
				Help: "Failed bill reminder notifications by operation",
			},
			[]string{"operation"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_idempotency_replays_total",
			Help: "Requests answered from a stored idempotent response",
		}),
	}
}
