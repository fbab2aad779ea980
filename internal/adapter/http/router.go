package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	RecurringHandler   *handler.RecurringHandler
	BudgetHandler      *handler.BudgetHandler
	DebtHandler        *handler.DebtHandler
	SavingsHandler     *handler.SavingsHandler
	BillHandler        *handler.BillHandler
	SplitHandler       *handler.SplitHandler
	DataHandler        *handler.DataHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	// Idempotency is optional.
	Idempotency *middleware.IdempotencyMiddleware

	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.AllowContentType("application/json"))
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			h := cfg.AccountHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/default", h.SetDefault)
			r.Get("/{id}/reconcile", cfg.LedgerHandler.ReconcileAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			h := cfg.TransactionHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Route("/recurring", func(r chi.Router) {
			h := cfg.RecurringHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Post("/process", h.Process)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/toggle", h.Toggle)
		})

		r.Route("/budgets", func(r chi.Router) {
			h := cfg.BudgetHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/progress", h.ListProgress)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Get("/{id}/progress", h.Progress)
		})

		r.Route("/debts", func(r chi.Router) {
			h := cfg.DebtHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/payments", h.RecordPayment)
			r.Post("/{id}/settle", h.Settle)
		})

		r.Route("/goals", func(r chi.Router) {
			h := cfg.SavingsHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/contributions", h.Contribute)
			r.Post("/{id}/withdrawals", h.Withdraw)
		})

		r.Route("/bills", func(r chi.Router) {
			h := cfg.BillHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/paid", h.MarkPaid)
		})

		r.Route("/groups", func(r chi.Router) {
			h := cfg.SplitHandler
			r.Post("/", h.Create)
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Rename)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/members", h.AddMember)
			r.Delete("/{id}/members/{memberID}", h.RemoveMember)
			r.Post("/{id}/expenses", h.AddExpense)
			r.Delete("/{id}/expenses/{expenseID}", h.DeleteExpense)
			r.Post("/{id}/settlements", h.AddSettlement)
			r.Delete("/{id}/settlements/{settlementID}", h.DeleteSettlement)
			r.Get("/{id}/balances", h.Balances)
			r.Get("/{id}/settle-up", h.SettleUp)
		})

		r.Get("/export", cfg.DataHandler.Export)
		r.Post("/import", cfg.DataHandler.Import)

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/reconcile", cfg.LedgerHandler.Reconcile)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
