package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the length of a budget window.
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// IsValid reports whether p is a known period.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Window returns the inclusive calendar window of the period containing ref.
// Weeks start on Monday.
func (p BudgetPeriod) Window(ref time.Time) (time.Time, time.Time) {
	day := DayOf(ref)

	switch p {
	case BudgetPeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case BudgetPeriodMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case BudgetPeriodYearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, -1)
	}
	return day, day
}

var hundred = decimal.NewFromInt(100)

// Budget is a spending limit for one category over a date window.
type Budget struct {
	ID             string          `json:"id"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Period         BudgetPeriod    `json:"period"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Validate checks the budget fields.
func (b *Budget) Validate() error {
	if err := ValidateCategory(b.Category); err != nil {
		return err
	}

	if b.Amount.IsNegative() {
		return NewValidationError("amount", "cannot be negative")
	}

	if !b.Period.IsValid() {
		return NewValidationError("period", "must be weekly, monthly or yearly")
	}

	if DayOf(b.EndDate).Before(DayOf(b.StartDate)) {
		return NewValidationError("endDate", "is before startDate")
	}

	if b.AlertThreshold.IsNegative() || b.AlertThreshold.GreaterThan(hundred) {
		return NewValidationError("alertThreshold", "must be between 0 and 100")
	}

	return nil
}

// Covers reports whether t falls inside the budget window, inclusive by calendar day.
func (b *Budget) Covers(t time.Time) bool {
	day := DayOf(t)
	return !day.Before(DayOf(b.StartDate)) && !day.After(DayOf(b.EndDate))
}

// BudgetProgress is the derived spend state of a budget. It is never stored.
type BudgetProgress struct {
	BudgetID       string          `json:"budgetId"`
	Category       string          `json:"category"`
	Limit          decimal.Decimal `json:"limit"`
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percentage     decimal.Decimal `json:"percentage"`
	AlertTriggered bool            `json:"alertTriggered"`
}

// Progress sums matching expenses from txs and derives remaining and percentage.
func (b *Budget) Progress(txs []Transaction) BudgetProgress {
	spent := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Type != TransactionTypeExpense || tx.Category != b.Category || !b.Covers(tx.Date) {
			continue
		}
		spent = spent.Add(tx.Amount)
	}

	remaining := decimal.Max(decimal.Zero, b.Amount.Sub(spent))

	percentage := decimal.Zero
	if b.Amount.IsPositive() {
		percentage = decimal.Min(hundred, spent.Div(b.Amount).Mul(hundred))
	}

	return BudgetProgress{
		BudgetID:       b.ID,
		Category:       b.Category,
		Limit:          b.Amount,
		Spent:          spent,
		Remaining:      remaining,
		Percentage:     percentage,
		AlertTriggered: b.AlertThreshold.IsPositive() && percentage.GreaterThanOrEqual(b.AlertThreshold),
	}
}
