package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

var testNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	ledger  *usecase.Ledger
	store   *mocks.RecordingStore
	clock   *mocks.FixedClock
	metrics *metrics.Metrics

	accounts     *usecase.AccountUseCase
	transactions *usecase.TransactionUseCase
	recurring    *usecase.RecurringUseCase
	budgets      *usecase.BudgetUseCase
	debts        *usecase.DebtUseCase
	savings      *usecase.SavingsUseCase
	splits       *usecase.SplitUseCase
	data         *usecase.DataUseCase
	reconcile    *usecase.ReconciliationUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := mocks.NewRecordingStore()
	clock := mocks.NewFixedClock(testNow)
	m := metrics.New(prometheus.NewRegistry())

	ledger := usecase.NewLedger(store, "test:finance", mocks.NewSequenceIDGenerator(), clock, zerolog.Nop(), m)
	require.NoError(t, ledger.Load(context.Background(), "USD"))

	return &testEnv{
		ledger:       ledger,
		store:        store,
		clock:        clock,
		metrics:      m,
		accounts:     usecase.NewAccountUseCase(ledger),
		transactions: usecase.NewTransactionUseCase(ledger),
		recurring:    usecase.NewRecurringUseCase(ledger),
		budgets:      usecase.NewBudgetUseCase(ledger),
		debts:        usecase.NewDebtUseCase(ledger),
		savings:      usecase.NewSavingsUseCase(ledger),
		splits:       usecase.NewSplitUseCase(ledger),
		data:         usecase.NewDataUseCase(ledger),
		reconcile:    usecase.NewReconciliationUseCase(ledger),
	}
}

func (e *testEnv) account(t *testing.T, name string, kind domain.AccountKind, balance int64) *domain.Account {
	t.Helper()
	acc, err := e.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:    name,
		Kind:    kind,
		Balance: decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return acc
}

func (e *testEnv) expense(t *testing.T, accountID string, amount int64, category string) *domain.Transaction {
	t.Helper()
	tx, err := e.transactions.AddTransaction(context.Background(), usecase.CreateTransactionInput{
		Type:      domain.TransactionTypeExpense,
		Amount:    decimal.NewFromInt(amount),
		Category:  category,
		AccountID: accountID,
	})
	require.NoError(t, err)
	return tx
}

func (e *testEnv) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, ok := e.accounts.GetAccount(accountID)
	require.True(t, ok)
	return acc.Balance
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decStr(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
