package usecase_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

func TestRecordPayment_CapsAndMirrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bank := env.account(t, "Bank", domain.AccountKindBank, 500)

	debt, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeOwe, Name: "Loan", Amount: dec(100)})
	require.NoError(t, err)

	res, err := env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(60), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, res.Applied.Equal(dec(60)))
	assert.False(t, res.Settled)

	res, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(70), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, res.Applied.Equal(dec(40)))
	assert.True(t, res.Ignored.Equal(dec(30)))
	assert.True(t, res.Settled)

	stored, ok := env.debts.GetDebt(debt.ID)
	require.True(t, ok)
	assert.True(t, stored.RemainingAmount.IsZero())
	assert.True(t, stored.IsSettled)
	require.Len(t, stored.Payments, 2)
	assert.Contains(t, stored.Payments[1].Note, "30.00")

	assert.True(t, env.balance(t, bank.ID).Equal(dec(400)), "only applied amounts leave the account")

	txs := env.transactions.ListTransactions(usecase.TransactionFilter{AccountID: bank.ID})
	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, domain.TransactionTypeExpense, tx.Type)
		assert.Equal(t, domain.CategoryPersonal, tx.Category)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.AmountsCapped.WithLabelValues("debt_payment")))

	res, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(10), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, res.Applied.IsZero())
	assert.True(t, env.balance(t, bank.ID).Equal(dec(400)), "settled debt ignores payments")
}

func TestRecordPayment_LentDebtIsIncome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cash := env.account(t, "Cash", domain.AccountKindCash, 0)

	debt, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeLent, Name: "Alex", Amount: dec(50)})
	require.NoError(t, err)

	_, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(20), AccountID: cash.ID})
	require.NoError(t, err)
	assert.True(t, env.balance(t, cash.ID).Equal(dec(20)))
}

func TestRecordPayment_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	debt, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeOwe, Name: "Loan", Amount: dec(100)})
	require.NoError(t, err)

	_, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(0)})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(10), AccountID: "nope"})
	require.ErrorIs(t, err, domain.ErrValidation)

	stored, _ := env.debts.GetDebt(debt.ID)
	assert.Empty(t, stored.Payments)

	res, err := env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: "missing", Amount: dec(10)})
	require.NoError(t, err)
	assert.True(t, res.Applied.IsZero())
}

func TestPayingCardDebtSettlesCard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	card := env.account(t, "Visa", domain.AccountKindCreditCard, 0)
	bank := env.account(t, "Bank", domain.AccountKindBank, 1000)

	tx := env.expense(t, card.ID, 120, "food")

	res, err := env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: tx.LinkedDebtID, Amount: dec(120), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, res.Settled)

	acc, _ := env.accounts.GetAccount(card.ID)
	assert.True(t, acc.IsSettled)
	assert.True(t, acc.CreditUsed.IsZero())

	next := env.expense(t, card.ID, 10, "food")
	assert.NotEqual(t, tx.LinkedDebtID, next.LinkedDebtID, "a settled card opens a new debt")

	acc, _ = env.accounts.GetAccount(card.ID)
	assert.False(t, acc.IsSettled)
	assert.True(t, acc.CreditUsed.Equal(dec(10)))
}

func TestRecordPayment_FromCardLinksCardDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	card := env.account(t, "Visa", domain.AccountKindCreditCard, 0)
	bank := env.account(t, "Bank", domain.AccountKindBank, 1000)

	loan, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeOwe, Name: "Loan", Amount: dec(200)})
	require.NoError(t, err)

	res, err := env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: loan.ID, Amount: dec(200), AccountID: card.ID})
	require.NoError(t, err)
	assert.True(t, res.Settled)

	txs := env.transactions.ListTransactions(usecase.TransactionFilter{AccountID: card.ID})
	require.Len(t, txs, 1)
	require.NotEmpty(t, txs[0].LinkedDebtID)

	cardDebt, ok := env.debts.GetDebt(txs[0].LinkedDebtID)
	require.True(t, ok)
	assert.Equal(t, card.ID, cardDebt.LinkedCreditCardID)
	assert.True(t, cardDebt.RemainingAmount.Equal(dec(200)))

	acc, _ := env.accounts.GetAccount(card.ID)
	assert.True(t, acc.CreditUsed.Equal(dec(200)))
	assert.False(t, acc.IsSettled)

	_, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: cardDebt.ID, Amount: dec(200), AccountID: bank.ID})
	require.NoError(t, err)

	acc, _ = env.accounts.GetAccount(card.ID)
	assert.True(t, acc.IsSettled)
	assert.True(t, acc.CreditUsed.IsZero())
	assert.Empty(t, env.reconcile.CheckConsistency())
}

func TestRecordPayment_CardCannotPayItsOwnDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	card := env.account(t, "Visa", domain.AccountKindCreditCard, 0)

	tx := env.expense(t, card.ID, 40, "food")

	_, err := env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: tx.LinkedDebtID, Amount: dec(40), AccountID: card.ID})
	require.ErrorIs(t, err, domain.ErrValidation)

	stored, _ := env.debts.GetDebt(tx.LinkedDebtID)
	assert.Empty(t, stored.Payments)
	assert.True(t, stored.RemainingAmount.Equal(dec(40)))
}

func TestSettleDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	card := env.account(t, "Amex", domain.AccountKindCreditCard, 0)

	debt, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{
		Type:               domain.DebtTypeCreditCard,
		Name:               "Amex statement",
		Amount:             dec(300),
		LinkedCreditCardID: card.ID,
	})
	require.NoError(t, err)

	res, err := env.debts.SettleDebt(ctx, debt.ID)
	require.NoError(t, err)
	assert.True(t, res.Applied.Equal(dec(300)))
	assert.True(t, res.Settled)

	stored, _ := env.debts.GetDebt(debt.ID)
	require.Len(t, stored.Payments, 1)
	assert.Empty(t, stored.Payments[0].AccountID)

	acc, _ := env.accounts.GetAccount(card.ID)
	assert.True(t, acc.IsSettled)
	assert.Empty(t, env.transactions.ListTransactions(usecase.TransactionFilter{}))
}

func TestAddDebt_CardLinkRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	card := env.account(t, "Visa", domain.AccountKindCreditCard, 0)
	bank := env.account(t, "Bank", domain.AccountKindBank, 0)

	_, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeCreditCard, Name: "x", Amount: dec(1), LinkedCreditCardID: bank.ID})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeCreditCard, Name: "x", Amount: dec(1), LinkedCreditCardID: card.ID})
	require.NoError(t, err)

	_, err = env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeCreditCard, Name: "y", Amount: dec(1), LinkedCreditCardID: card.ID})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateDebt_RecomputesRemaining(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	debt, err := env.debts.AddDebt(ctx, usecase.CreateDebtInput{Type: domain.DebtTypeOwe, Name: "Loan", Amount: dec(100)})
	require.NoError(t, err)
	_, err = env.debts.RecordPayment(ctx, usecase.RecordPaymentInput{DebtID: debt.ID, Amount: dec(30)})
	require.NoError(t, err)

	original := dec(200)
	updated, err := env.debts.UpdateDebt(ctx, debt.ID, usecase.UpdateDebtInput{OriginalAmount: &original})
	require.NoError(t, err)
	assert.True(t, updated.RemainingAmount.Equal(dec(170)))

	original = dec(20)
	updated, err = env.debts.UpdateDebt(ctx, debt.ID, usecase.UpdateDebtInput{OriginalAmount: &original})
	require.NoError(t, err)
	assert.True(t, updated.RemainingAmount.IsZero())
	assert.True(t, updated.IsSettled)
}
