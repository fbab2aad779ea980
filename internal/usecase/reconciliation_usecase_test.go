package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

func TestReconcileAccount(t *testing.T) {
	env := newTestEnv(t)
	bank := env.account(t, "Bank", domain.AccountKindBank, 150)
	env.expense(t, bank.ID, 40, "food")

	result, ok := env.reconcile.ReconcileAccount(bank.ID)
	require.True(t, ok)
	assert.True(t, result.RecordedBalance.Equal(dec(110)))
	assert.True(t, result.CalculatedBalance.Equal(dec(110)))
	assert.True(t, result.IsReconciled)

	_, ok = env.reconcile.ReconcileAccount("missing")
	assert.False(t, ok)
}

func TestReconcile_BalanceCorrectionStaysReconciled(t *testing.T) {
	env := newTestEnv(t)
	bank := env.account(t, "Bank", domain.AccountKindBank, 150)
	env.expense(t, bank.ID, 40, "food")

	corrected := dec(1000)
	_, err := env.accounts.UpdateAccount(context.Background(), bank.ID, usecase.UpdateAccountInput{Balance: &corrected})
	require.NoError(t, err)

	result, _ := env.reconcile.ReconcileAccount(bank.ID)
	assert.True(t, result.IsReconciled)
	assert.True(t, result.CalculatedBalance.Equal(dec(1000)))
}

func TestGenerateReconciliationReport(t *testing.T) {
	env := newTestEnv(t)
	bank := env.account(t, "Bank", domain.AccountKindBank, 100)
	cash := env.account(t, "Cash", domain.AccountKindCash, 0)

	_, err := env.transactions.AddTransaction(context.Background(), usecase.CreateTransactionInput{
		Type: domain.TransactionTypeTransfer, Amount: dec(30), AccountID: bank.ID, ToAccountID: cash.ID,
	})
	require.NoError(t, err)

	// a deleted account's transactions are skipped
	require.NoError(t, env.accounts.DeleteAccount(context.Background(), cash.ID))

	report := env.reconcile.GenerateReconciliationReport()
	assert.Equal(t, 1, report.TotalAccounts)
	assert.Equal(t, 1, report.ReconciledAccounts)
	assert.Empty(t, report.Discrepancies)
	assert.True(t, report.LedgerConsistent)
	assert.True(t, report.CheckedAt.Equal(testNow))
}
