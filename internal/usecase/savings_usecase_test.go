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

func TestSavings_ContributeAndWithdrawMirrorLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bank := env.account(t, "Bank", domain.AccountKindBank, 1000)

	goal, err := env.savings.AddGoal(ctx, usecase.CreateGoalInput{Name: "Trip", TargetAmount: dec(300)})
	require.NoError(t, err)

	g, err := env.savings.Contribute(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(200), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, g.CurrentAmount.Equal(dec(200)))
	assert.False(t, g.IsCompleted)
	assert.True(t, env.balance(t, bank.ID).Equal(dec(800)))

	g, err = env.savings.Contribute(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(100)})
	require.NoError(t, err)
	assert.True(t, g.IsCompleted)
	assert.True(t, env.balance(t, bank.ID).Equal(dec(800)), "no account, no mirror")

	res, err := env.savings.Withdraw(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(500), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, res.Withdrawn.Equal(dec(300)))
	assert.True(t, res.Goal.CurrentAmount.IsZero())
	assert.False(t, res.Goal.IsCompleted)
	assert.True(t, env.balance(t, bank.ID).Equal(dec(1100)))
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.AmountsCapped.WithLabelValues("savings_withdrawal")))

	txs := env.transactions.ListTransactions(usecase.TransactionFilter{Category: domain.CategoryInvestments})
	require.Len(t, txs, 2)

	res, err = env.savings.Withdraw(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(10), AccountID: bank.ID})
	require.NoError(t, err)
	assert.True(t, res.Withdrawn.IsZero())

	stored, _ := env.savings.GetGoal(goal.ID)
	assert.Len(t, stored.Contributions, 3, "empty goal records no withdrawal")
}

func TestSavings_UpdateTargetRecomputesCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal, err := env.savings.AddGoal(ctx, usecase.CreateGoalInput{Name: "Laptop", TargetAmount: dec(1000)})
	require.NoError(t, err)
	_, err = env.savings.Contribute(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(600)})
	require.NoError(t, err)

	target := dec(500)
	g, err := env.savings.UpdateGoal(ctx, goal.ID, usecase.UpdateGoalInput{TargetAmount: &target})
	require.NoError(t, err)
	assert.True(t, g.IsCompleted)
}

func TestSavings_DeleteGoalKeepsTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bank := env.account(t, "Bank", domain.AccountKindBank, 100)

	goal, err := env.savings.AddGoal(ctx, usecase.CreateGoalInput{Name: "Fund", TargetAmount: dec(50)})
	require.NoError(t, err)
	_, err = env.savings.Contribute(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(40), AccountID: bank.ID})
	require.NoError(t, err)

	require.NoError(t, env.savings.DeleteGoal(ctx, goal.ID))

	_, ok := env.savings.GetGoal(goal.ID)
	assert.False(t, ok)
	assert.Len(t, env.transactions.ListTransactions(usecase.TransactionFilter{}), 1)
	assert.True(t, env.balance(t, bank.ID).Equal(dec(60)))
}

func TestSavings_ContributeWithUnknownAccountChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal, err := env.savings.AddGoal(ctx, usecase.CreateGoalInput{Name: "Fund", TargetAmount: dec(50)})
	require.NoError(t, err)

	_, err = env.savings.Contribute(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(10), AccountID: "nope"})
	require.ErrorIs(t, err, domain.ErrValidation)

	stored, _ := env.savings.GetGoal(goal.ID)
	assert.Empty(t, stored.Contributions)
	assert.True(t, stored.CurrentAmount.IsZero())
}

func TestSavings_ContributeFromCardLinksCardDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	card := env.account(t, "Visa", domain.AccountKindCreditCard, 0)

	goal, err := env.savings.AddGoal(ctx, usecase.CreateGoalInput{Name: "Bike", TargetAmount: dec(500)})
	require.NoError(t, err)

	_, err = env.savings.Contribute(ctx, usecase.GoalMovementInput{GoalID: goal.ID, Amount: dec(75), AccountID: card.ID})
	require.NoError(t, err)

	txs := env.transactions.ListTransactions(usecase.TransactionFilter{AccountID: card.ID})
	require.Len(t, txs, 1)

	cardDebt, ok := env.debts.GetDebt(txs[0].LinkedDebtID)
	require.True(t, ok)
	assert.Equal(t, card.ID, cardDebt.LinkedCreditCardID)
	assert.True(t, cardDebt.RemainingAmount.Equal(dec(75)))

	acc, _ := env.accounts.GetAccount(card.ID)
	assert.True(t, acc.CreditUsed.Equal(dec(75)))
}
