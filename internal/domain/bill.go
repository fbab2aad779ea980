package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillReminder is an upcoming bill the user wants to be reminded about.
type BillReminder struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	Frequency      Frequency       `json:"frequency,omitempty"`
	AccountID      string          `json:"accountId,omitempty"`
	IsPaid         bool            `json:"isPaid"`
	ReminderDays   int             `json:"reminderDays"`
	NotificationID string          `json:"notificationId,omitempty"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Validate checks the bill fields.
func (b *BillReminder) Validate() error {
	if err := ValidateName("name", b.Name); err != nil {
		return err
	}

	if b.Amount.IsNegative() {
		return NewValidationError("amount", "cannot be negative")
	}

	if b.Frequency != "" && !b.Frequency.IsValid() {
		return NewValidationError("frequency", "must be daily, weekly, biweekly, monthly or yearly")
	}

	if b.ReminderDays < 0 {
		return NewValidationError("reminderDays", "cannot be negative")
	}

	return nil
}

// NeedsReminder reports whether a notification should be scheduled for the bill.
func (b *BillReminder) NeedsReminder() bool {
	return b.DueDate != nil && !b.IsPaid
}

// RemindAt is the moment the reminder should fire: ReminderDays before the due date.
func (b *BillReminder) RemindAt() time.Time {
	if b.DueDate == nil {
		return time.Time{}
	}
	return b.DueDate.AddDate(0, 0, -b.ReminderDays)
}

// Clone returns a deep copy.
func (b BillReminder) Clone() BillReminder {
	if b.DueDate != nil {
		due := *b.DueDate
		b.DueDate = &due
	}
	return b
}
