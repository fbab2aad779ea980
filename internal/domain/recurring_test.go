package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFrequency_Advance(t *testing.T) {
	start := date(2026, time.January, 31)

	tests := []struct {
		freq Frequency
		want time.Time
	}{
		{FrequencyDaily, date(2026, time.February, 1)},
		{FrequencyWeekly, date(2026, time.February, 7)},
		{FrequencyBiweekly, date(2026, time.February, 14)},
		{FrequencyMonthly, date(2026, time.March, 3)},
		{FrequencyYearly, date(2027, time.January, 31)},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.freq.Advance(start))
		})
	}
}

func TestRecurringTransaction_IsDue(t *testing.T) {
	today := time.Date(2026, time.May, 10, 15, 30, 0, 0, time.UTC)
	yesterday := date(2026, time.May, 9)
	tomorrow := date(2026, time.May, 11)

	tests := []struct {
		name string
		r    RecurringTransaction
		want bool
	}{
		{"due today", RecurringTransaction{IsActive: true, NextDueDate: date(2026, time.May, 10)}, true},
		{"overdue", RecurringTransaction{IsActive: true, NextDueDate: yesterday}, true},
		{"not yet due", RecurringTransaction{IsActive: true, NextDueDate: tomorrow}, false},
		{"inactive", RecurringTransaction{IsActive: false, NextDueDate: yesterday}, false},
		{"ended yesterday", RecurringTransaction{IsActive: true, NextDueDate: yesterday, EndDate: &yesterday}, false},
		{"ends today", RecurringTransaction{IsActive: true, NextDueDate: yesterday, EndDate: &today}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.IsDue(today))
		})
	}
}

func TestRecurringTransaction_MarkProcessedAdvancesOnePeriod(t *testing.T) {
	r := RecurringTransaction{
		ID:          "rec-1",
		Type:        TransactionTypeExpense,
		Amount:      decimal.NewFromInt(15),
		Category:    "subscriptions",
		AccountID:   "acc-1",
		Frequency:   FrequencyMonthly,
		NextDueDate: date(2026, time.February, 1),
		IsActive:    true,
	}
	now := time.Date(2026, time.May, 10, 9, 0, 0, 0, time.UTC)

	r.MarkProcessed(now)

	assert.Equal(t, date(2026, time.March, 1), r.NextDueDate, "missed periods are not backfilled")
	require.NotNil(t, r.LastProcessed)
	assert.Equal(t, date(2026, time.May, 10), *r.LastProcessed)
	assert.True(t, r.IsDue(now), "still overdue after a single advance")
}

func TestRecurringTransaction_Instantiate(t *testing.T) {
	r := RecurringTransaction{
		ID:        "rec-1",
		Type:      TransactionTypeIncome,
		Amount:    decimal.NewFromInt(2000),
		Category:  "salary",
		AccountID: "acc-1",
	}

	tx := r.Instantiate(date(2026, time.May, 1))

	assert.True(t, tx.IsRecurring)
	assert.Equal(t, "rec-1", tx.RecurringID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Empty(t, tx.ID)
}

func TestRecurringTransaction_Validate(t *testing.T) {
	base := RecurringTransaction{
		Type:        TransactionTypeExpense,
		Amount:      decimal.NewFromInt(10),
		Category:    "rent",
		AccountID:   "acc-1",
		Frequency:   FrequencyWeekly,
		NextDueDate: date(2026, time.May, 1),
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Frequency = "hourly"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = base
	end := date(2026, time.April, 1)
	bad.EndDate = &end
	assert.ErrorIs(t, bad.Validate(), ErrValidation)

	bad = base
	bad.Amount = decimal.Zero
	assert.ErrorIs(t, bad.Validate(), ErrValidation)
}
