package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring template fires.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Advance moves t forward by one period. Month and year steps are calendar steps and
// overflow the way time.AddDate does (Jan 31 + 1 month = Mar 3 or Mar 2).
func (f Frequency) Advance(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case FrequencyYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// DayOf truncates t to midnight UTC of its UTC calendar date.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RecurringTransaction is a template that periodically generates transactions.
type RecurringTransaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	AccountID     string          `json:"accountId"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Note          string          `json:"note,omitempty"`
	Frequency     Frequency       `json:"frequency"`
	NextDueDate   time.Time       `json:"nextDueDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	IsActive      bool            `json:"isActive"`
	LastProcessed *time.Time      `json:"lastProcessed,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Validate checks the template fields.
func (r *RecurringTransaction) Validate() error {
	if !r.Frequency.IsValid() {
		return NewValidationError("frequency", "must be daily, weekly, biweekly, monthly or yearly")
	}

	if r.NextDueDate.IsZero() {
		return NewValidationError("nextDueDate", "is required")
	}

	if r.EndDate != nil && DayOf(*r.EndDate).Before(DayOf(r.NextDueDate)) {
		return NewValidationError("endDate", "is before nextDueDate")
	}

	tx := r.instantiate(r.NextDueDate)
	return tx.Validate()
}

// IsDue reports whether the template should fire on the calendar day of now.
func (r *RecurringTransaction) IsDue(now time.Time) bool {
	if !r.IsActive {
		return false
	}

	today := DayOf(now)
	if DayOf(r.NextDueDate).After(today) {
		return false
	}

	if r.EndDate != nil && DayOf(*r.EndDate).Before(today) {
		return false
	}

	return true
}

// Instantiate builds the concrete transaction emitted for date. The caller assigns the ID.
func (r *RecurringTransaction) Instantiate(date time.Time) Transaction {
	return r.instantiate(date)
}

func (r *RecurringTransaction) instantiate(date time.Time) Transaction {
	return Transaction{
		Type:          r.Type,
		Amount:        r.Amount,
		Category:      r.Category,
		AccountID:     r.AccountID,
		ToAccountID:   r.ToAccountID,
		Date:          date,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
		IsRecurring:   true,
		RecurringID:   r.ID,
	}
}

// MarkProcessed advances the due date exactly one period and stamps lastProcessed.
func (r *RecurringTransaction) MarkProcessed(now time.Time) {
	today := DayOf(now)
	r.NextDueDate = r.Frequency.Advance(r.NextDueDate)
	r.LastProcessed = &today
}
