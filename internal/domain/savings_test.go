package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingsGoal_ContributeAndWithdraw(t *testing.T) {
	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	g := &SavingsGoal{ID: "goal-1", Name: "Laptop", TargetAmount: d(1000), Contributions: []Contribution{}}

	g.Contribute("c1", d(600), "", "acc-1", at)
	assert.False(t, g.IsCompleted)
	assert.Equal(t, "60", g.ProgressPercentage().String())

	g.Contribute("c2", d(500), "bonus", "acc-1", at)
	assert.True(t, g.CurrentAmount.Equal(d(1100)))
	assert.True(t, g.IsCompleted)
	assert.Equal(t, "100", g.ProgressPercentage().String())

	actual := g.Withdraw("w1", d(2000), "", "acc-1", at)
	assert.True(t, actual.Equal(d(1100)), "withdrawal is capped at the current amount")
	assert.True(t, g.CurrentAmount.IsZero())
	assert.False(t, g.IsCompleted)

	require.Len(t, g.Contributions, 3)
	last := g.Contributions[2]
	assert.Equal(t, ContributionTypeWithdrawal, last.Type)
	assert.True(t, last.Amount.Equal(d(-1100)))
}

func TestSavingsGoal_WithdrawAboveTargetStaysCompleted(t *testing.T) {
	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	g := &SavingsGoal{ID: "goal-1", Name: "Emergency", TargetAmount: d(1000)}

	g.Contribute("c1", d(1500), "", "", at)
	g.Withdraw("w1", d(100), "", "", at)
	assert.True(t, g.CurrentAmount.Equal(d(1400)))
	assert.True(t, g.IsCompleted)

	g.Withdraw("w2", d(401), "", "", at)
	assert.False(t, g.IsCompleted)
}

func TestSavingsGoal_WithdrawFromEmptyGoalRecordsNothing(t *testing.T) {
	g := &SavingsGoal{ID: "goal-1", Name: "Trip", TargetAmount: d(500)}

	actual := g.Withdraw("w1", d(50), "", "", time.Now())

	assert.True(t, actual.IsZero())
	assert.Empty(t, g.Contributions)
}

func TestSavingsGoal_RecalculateMatchesLedger(t *testing.T) {
	g := &SavingsGoal{
		TargetAmount: d(300),
		Contributions: []Contribution{
			{Amount: d(200), Type: ContributionTypeContribution},
			{Amount: d(-50), Type: ContributionTypeWithdrawal},
			{Amount: d(150), Type: ContributionTypeContribution},
		},
		CurrentAmount: d(9999),
	}

	g.Recalculate()

	assert.True(t, g.CurrentAmount.Equal(d(300)))
	assert.True(t, g.IsCompleted)
}

func TestSavingsGoal_Validate(t *testing.T) {
	assert.NoError(t, (&SavingsGoal{Name: "Car", TargetAmount: d(100)}).Validate())
	assert.ErrorIs(t, (&SavingsGoal{Name: "", TargetAmount: d(100)}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&SavingsGoal{Name: "Car", TargetAmount: d(0)}).Validate(), ErrValidation)
}
