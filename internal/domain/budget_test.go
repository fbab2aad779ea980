package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBudget_Progress(t *testing.T) {
	b := &Budget{
		ID:             "b1",
		Category:       "food",
		Amount:         d(200),
		Period:         BudgetPeriodMonthly,
		StartDate:      date(2026, time.May, 1),
		EndDate:        date(2026, time.May, 31),
		AlertThreshold: d(80),
	}

	txs := []Transaction{
		{Type: TransactionTypeExpense, Category: "food", Amount: d(100), Date: date(2026, time.May, 3)},
		{Type: TransactionTypeExpense, Category: "food", Amount: d(70), Date: time.Date(2026, time.May, 31, 22, 0, 0, 0, time.UTC)},
		{Type: TransactionTypeExpense, Category: "food", Amount: d(500), Date: date(2026, time.June, 1)},
		{Type: TransactionTypeExpense, Category: "rent", Amount: d(900), Date: date(2026, time.May, 3)},
		{Type: TransactionTypeIncome, Category: "food", Amount: d(30), Date: date(2026, time.May, 3)},
	}

	p := b.Progress(txs)

	assert.Equal(t, "170", p.Spent.String())
	assert.Equal(t, "30", p.Remaining.String())
	assert.Equal(t, "85", p.Percentage.String())
	assert.True(t, p.AlertTriggered)
}

func TestBudget_ProgressOverspent(t *testing.T) {
	b := &Budget{Category: "fun", Amount: d(50), StartDate: date(2026, time.May, 1), EndDate: date(2026, time.May, 31)}

	p := b.Progress([]Transaction{{Type: TransactionTypeExpense, Category: "fun", Amount: d(80), Date: date(2026, time.May, 2)}})

	assert.True(t, p.Remaining.IsZero())
	assert.Equal(t, "100", p.Percentage.String())
	assert.False(t, p.AlertTriggered, "a zero threshold never alerts")
}

func TestBudget_ProgressZeroLimit(t *testing.T) {
	b := &Budget{Category: "fun", Amount: d(0), StartDate: date(2026, time.May, 1), EndDate: date(2026, time.May, 31)}

	p := b.Progress([]Transaction{{Type: TransactionTypeExpense, Category: "fun", Amount: d(10), Date: date(2026, time.May, 2)}})

	assert.True(t, p.Percentage.IsZero())
}

func TestBudgetPeriod_Window(t *testing.T) {
	ref := date(2026, time.May, 14) // Thursday

	start, end := BudgetPeriodWeekly.Window(ref)
	assert.Equal(t, date(2026, time.May, 11), start)
	assert.Equal(t, date(2026, time.May, 17), end)

	start, end = BudgetPeriodMonthly.Window(ref)
	assert.Equal(t, date(2026, time.May, 1), start)
	assert.Equal(t, date(2026, time.May, 31), end)

	start, end = BudgetPeriodYearly.Window(ref)
	assert.Equal(t, date(2026, time.January, 1), start)
	assert.Equal(t, date(2026, time.December, 31), end)
}

func TestBudget_Validate(t *testing.T) {
	valid := Budget{Category: "food", Amount: d(10), Period: BudgetPeriodMonthly, StartDate: date(2026, time.May, 1), EndDate: date(2026, time.May, 31)}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.EndDate = date(2026, time.April, 1)
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = valid
	bad.AlertThreshold = d(120)
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = valid
	bad.Period = "daily"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)
}
