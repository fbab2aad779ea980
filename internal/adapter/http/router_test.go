package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	apimiddleware "github.com/iho/fintrack/internal/adapter/http/middleware"
	redisrepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

type testServer struct {
	router  http.Handler
	store   *mocks.RecordingStore
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, opts ...func(*RouterConfig)) *testServer {
	t.Helper()

	store := mocks.NewRecordingStore()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	clock := mocks.NewFixedClock(time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC))

	ledger := usecase.NewLedger(store, "router:test", mocks.NewSequenceIDGenerator(), clock, zerolog.Nop(), m)
	require.NoError(t, ledger.Load(context.Background(), "USD"))

	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(usecase.NewAccountUseCase(ledger)),
		TransactionHandler: handler.NewTransactionHandler(usecase.NewTransactionUseCase(ledger)),
		RecurringHandler:   handler.NewRecurringHandler(usecase.NewRecurringUseCase(ledger)),
		BudgetHandler:      handler.NewBudgetHandler(usecase.NewBudgetUseCase(ledger)),
		DebtHandler:        handler.NewDebtHandler(usecase.NewDebtUseCase(ledger)),
		SavingsHandler:     handler.NewSavingsHandler(usecase.NewSavingsUseCase(ledger)),
		BillHandler:        handler.NewBillHandler(usecase.NewBillUseCase(ledger, nil)),
		SplitHandler:       handler.NewSplitHandler(usecase.NewSplitUseCase(ledger)),
		DataHandler:        handler.NewDataHandler(usecase.NewDataUseCase(ledger)),
		LedgerHandler:      handler.NewLedgerHandler(usecase.NewReconciliationUseCase(ledger)),
		HealthHandler:      handler.NewHealthHandler(nil),
		Logger:             zerolog.Nop(),
		Metrics:            m,
		Gatherer:           reg,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testServer{router: NewRouter(cfg), store: store, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(v)
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNewRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fintrack_http_requests_total")
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newTestServerConfig())

	chiRoutes, ok := router.(chi.Routes)
	require.True(t, ok, "router does not implement chi.Routes")

	seen := map[string]bool{}
	err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"POST /api/v1/accounts/{id}/default",
		"GET /api/v1/accounts/{id}/reconcile",
		"POST /api/v1/transactions/",
		"POST /api/v1/recurring/process",
		"GET /api/v1/budgets/progress",
		"POST /api/v1/debts/{id}/payments",
		"POST /api/v1/goals/{id}/withdrawals",
		"POST /api/v1/bills/{id}/paid",
		"GET /api/v1/groups/{id}/settle-up",
		"DELETE /api/v1/groups/{id}/expenses/{expenseID}",
		"GET /api/v1/export",
		"POST /api/v1/import",
		"GET /api/v1/ledger/consistency",
	}
	for _, route := range expected {
		assert.True(t, seen[route], "expected route %s to be registered", route)
	}
}

func newTestServerConfig() RouterConfig {
	return RouterConfig{
		AccountHandler:     &handler.AccountHandler{},
		TransactionHandler: &handler.TransactionHandler{},
		RecurringHandler:   &handler.RecurringHandler{},
		BudgetHandler:      &handler.BudgetHandler{},
		DebtHandler:        &handler.DebtHandler{},
		SavingsHandler:     &handler.SavingsHandler{},
		BillHandler:        &handler.BillHandler{},
		SplitHandler:       &handler.SplitHandler{},
		DataHandler:        &handler.DataHandler{},
		LedgerHandler:      &handler.LedgerHandler{},
		HealthHandler:      handler.NewHealthHandler(nil),
		Logger:             zerolog.Nop(),
	}
}

func TestRouter_DebtPaymentFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Checking", "type": "bank", "balance": 500, "currency": "USD",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	account := decodeBody[domain.Account](t, rec)

	rec = srv.do(t, http.MethodPost, "/api/v1/debts", map[string]any{
		"type": "owe", "name": "Alex", "amount": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	debt := decodeBody[domain.Debt](t, rec)

	rec = srv.do(t, http.MethodPost, "/api/v1/debts/"+debt.ID+"/payments", map[string]any{
		"amount": 150, "accountId": account.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	payment := decodeBody[dto.PaymentResponse](t, rec)
	assert.True(t, payment.Result.Applied.Equal(decimal.NewFromInt(100)))
	assert.True(t, payment.Result.Ignored.Equal(decimal.NewFromInt(50)))
	assert.True(t, payment.Result.Settled)
	assert.True(t, payment.Debt.RemainingAmount.IsZero())

	rec = srv.do(t, http.MethodGet, "/api/v1/accounts/"+account.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[domain.Account](t, rec)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(400)), updated.Balance.String())

	rec = srv.do(t, http.MethodGet, "/api/v1/accounts/"+account.ID+"/reconcile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[usecase.ReconciliationResult](t, rec)
	assert.True(t, result.IsReconciled)

	rec = srv.do(t, http.MethodGet, "/api/v1/ledger/consistency", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/debts/missing/payments", map[string]any{"amount": 10})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SplitGroupFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/groups", map[string]any{
		"name": "Trip",
		"members": []map[string]any{
			{"name": "Ann", "isCurrentUser": true},
			{"name": "Ben"},
			{"name": "Cat"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	group := decodeBody[domain.SplitGroup](t, rec)
	require.Len(t, group.Members, 3)
	ann, ben, cat := group.Members[0].ID, group.Members[1].ID, group.Members[2].ID

	rec = srv.do(t, http.MethodPost, "/api/v1/groups/"+group.ID+"/expenses", map[string]any{
		"description": "Dinner",
		"amount":      90,
		"paidBy":      ann,
		"splitMethod": "equal",
		"splitAmong":  []string{ann, ben, cat},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/v1/groups/"+group.ID+"/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	balances := decodeBody[dto.ListResponse[domain.MemberBalance]](t, rec)
	require.Len(t, balances.Items, 3)
	assert.True(t, balances.Items[0].Balance.Equal(decimal.NewFromInt(60)))
	assert.True(t, balances.Items[1].Balance.Equal(decimal.NewFromInt(-30)))

	rec = srv.do(t, http.MethodGet, "/api/v1/groups/"+group.ID+"/settle-up", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions := decodeBody[dto.ListResponse[domain.SettleUpSuggestion]](t, rec)
	require.Len(t, suggestions.Items, 2)
	for _, s := range suggestions.Items {
		assert.Equal(t, ann, s.ToMemberID)
		assert.True(t, s.Amount.Equal(decimal.NewFromInt(30)))
	}

	rec = srv.do(t, http.MethodDelete, "/api/v1/groups/"+group.ID+"/members/"+ben, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/groups/unknown/balances", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ExportImportRoundTrip(t *testing.T) {
	src := newTestServer(t)

	rec := src.do(t, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Cash", "type": "cash", "balance": 42, "currency": "USD",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = src.do(t, http.MethodGet, "/api/v1/export?module=finance", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	exported := rec.Body.Bytes()

	dst := newTestServer(t)
	rec = dst.do(t, http.MethodPost, "/api/v1/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = dst.do(t, http.MethodGet, "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	accounts := decodeBody[dto.ListResponse[domain.Account]](t, rec)
	require.Len(t, accounts.Items, 1)
	assert.Equal(t, "Cash", accounts.Items[0].Name)

	rec = dst.do(t, http.MethodPost, "/api/v1/import", []byte(`{"appName":"other","data":{}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = dst.do(t, http.MethodGet, "/api/v1/export?module=habits", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_NotFoundResources(t *testing.T) {
	srv := newTestServer(t)

	paths := []string{
		"/api/v1/accounts/nope",
		"/api/v1/transactions/nope",
		"/api/v1/recurring/nope",
		"/api/v1/budgets/nope",
		"/api/v1/debts/nope",
		"/api/v1/goals/nope",
		"/api/v1/bills/nope",
		"/api/v1/groups/nope",
	}
	for _, path := range paths {
		rec := srv.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_IdempotentCreateReplays(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	srv := newTestServer(t, func(cfg *RouterConfig) {
		cfg.Idempotency = apimiddleware.NewIdempotencyMiddleware(
			redisrepo.NewIdempotencyStore(client), time.Hour, zerolog.Nop(), cfg.Metrics)
	})

	body := map[string]any{"name": "Main", "type": "bank", "currency": "USD"}
	first := srv.do(t, http.MethodPost, "/api/v1/accounts", body, apimiddleware.IdempotencyKeyHeader, "create-main")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := srv.do(t, http.MethodPost, "/api/v1/accounts", body, apimiddleware.IdempotencyKeyHeader, "create-main")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.ReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := srv.do(t, http.MethodGet, "/api/v1/accounts", nil)
	accounts := decodeBody[dto.ListResponse[domain.Account]](t, rec)
	assert.Len(t, accounts.Items, 1)
}
