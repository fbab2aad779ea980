package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// BillUseCase manages bill reminders and keeps their scheduled notifications
// in step. Notifier calls happen after the ledger commit and never roll it back.
type BillUseCase struct {
	ledger   *Ledger
	notifier Notifier
}

// NewBillUseCase creates a new BillUseCase. notifier may be nil.
func NewBillUseCase(ledger *Ledger, notifier Notifier) *BillUseCase {
	return &BillUseCase{ledger: ledger, notifier: notifier}
}

// CreateBillInput represents input for adding a bill reminder.
type CreateBillInput struct {
	Name         string
	Amount       decimal.Decimal
	Category     string
	DueDate      *time.Time
	Frequency    domain.Frequency
	AccountID    string
	ReminderDays int
	Note         string
}

// UpdateBillInput carries the fields to change. Nil fields are left alone.
type UpdateBillInput struct {
	Name         *string
	Amount       *decimal.Decimal
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
	Frequency    *domain.Frequency
	AccountID    *string
	ReminderDays *int
	IsPaid       *bool
	Note         *string
}

// AddBill adds a bill reminder and schedules its notification.
func (uc *BillUseCase) AddBill(ctx context.Context, input CreateBillInput) (*domain.BillReminder, error) {
	var (
		created  domain.BillReminder
		currency string
	)
	err := uc.ledger.Update(ctx, "bill.add", func(s *domain.Snapshot) error {
		b := domain.BillReminder{
			ID:           uc.ledger.NewID(),
			Name:         strings.TrimSpace(input.Name),
			Amount:       input.Amount,
			Category:     strings.TrimSpace(input.Category),
			DueDate:      input.DueDate,
			Frequency:    input.Frequency,
			AccountID:    input.AccountID,
			ReminderDays: input.ReminderDays,
			Note:         input.Note,
			CreatedAt:    uc.ledger.Now(),
		}
		if err := b.Validate(); err != nil {
			return err
		}

		s.BillReminders = append(s.BillReminders, b)
		created = b.Clone()
		currency = s.Currency
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.syncReminder(ctx, &created, "", currency)
	return &created, nil
}

// UpdateBill applies input to bill id and reschedules its notification.
func (uc *BillUseCase) UpdateBill(ctx context.Context, id string, input UpdateBillInput) (*domain.BillReminder, error) {
	var (
		updated  *domain.BillReminder
		previous string
		currency string
	)
	err := uc.ledger.Update(ctx, "bill.update", func(s *domain.Snapshot) error {
		b := s.BillReminder(id)
		if b == nil {
			return errUnchanged
		}

		next := b.Clone()
		if input.Name != nil {
			next.Name = strings.TrimSpace(*input.Name)
		}
		if input.Amount != nil {
			next.Amount = *input.Amount
		}
		if input.Category != nil {
			next.Category = strings.TrimSpace(*input.Category)
		}
		if input.DueDate != nil {
			due := *input.DueDate
			next.DueDate = &due
		}
		if input.ClearDueDate {
			next.DueDate = nil
		}
		if input.Frequency != nil {
			next.Frequency = *input.Frequency
		}
		if input.AccountID != nil {
			next.AccountID = *input.AccountID
		}
		if input.ReminderDays != nil {
			next.ReminderDays = *input.ReminderDays
		}
		if input.IsPaid != nil {
			next.IsPaid = *input.IsPaid
		}
		if input.Note != nil {
			next.Note = *input.Note
		}
		if err := next.Validate(); err != nil {
			return err
		}

		*b = next
		cp := next.Clone()
		updated = &cp
		previous = next.NotificationID
		currency = s.Currency
		return nil
	})
	if err != nil || updated == nil {
		return nil, err
	}

	uc.syncReminder(ctx, updated, previous, currency)
	return updated, nil
}

// MarkPaid marks bill id paid. A bill with a frequency rolls over to its next
// due date and stays unpaid.
func (uc *BillUseCase) MarkPaid(ctx context.Context, id string) (*domain.BillReminder, error) {
	var (
		updated  *domain.BillReminder
		previous string
		currency string
	)
	err := uc.ledger.Update(ctx, "bill.paid", func(s *domain.Snapshot) error {
		b := s.BillReminder(id)
		if b == nil {
			return errUnchanged
		}

		if b.Frequency != "" && b.DueDate != nil {
			due := b.Frequency.Advance(*b.DueDate)
			b.DueDate = &due
			b.IsPaid = false
		} else {
			b.IsPaid = true
		}

		cp := b.Clone()
		updated = &cp
		previous = b.NotificationID
		currency = s.Currency
		return nil
	})
	if err != nil || updated == nil {
		return nil, err
	}

	uc.syncReminder(ctx, updated, previous, currency)
	return updated, nil
}

// DeleteBill removes bill id and cancels its notification.
func (uc *BillUseCase) DeleteBill(ctx context.Context, id string) error {
	var notificationID string
	err := uc.ledger.Update(ctx, "bill.delete", func(s *domain.Snapshot) error {
		b := s.BillReminder(id)
		if b == nil {
			return errUnchanged
		}
		notificationID = b.NotificationID
		s.RemoveBillReminder(id)
		return nil
	})
	if err != nil {
		return err
	}

	uc.cancel(ctx, id, notificationID)
	return nil
}

// GetBill retrieves a bill by ID.
func (uc *BillUseCase) GetBill(id string) (*domain.BillReminder, bool) {
	var out *domain.BillReminder
	uc.ledger.View(func(s *domain.Snapshot) {
		if b := s.BillReminder(id); b != nil {
			cp := b.Clone()
			out = &cp
		}
	})
	return out, out != nil
}

// ListBills lists every bill reminder.
func (uc *BillUseCase) ListBills() []domain.BillReminder {
	var out []domain.BillReminder
	uc.ledger.View(func(s *domain.Snapshot) {
		out = make([]domain.BillReminder, len(s.BillReminders))
		for i := range s.BillReminders {
			out[i] = s.BillReminders[i].Clone()
		}
	})
	return out
}

// syncReminder cancels the previous notification, schedules a new one when
// the bill still needs it and stores the resulting id on the bill.
func (uc *BillUseCase) syncReminder(ctx context.Context, b *domain.BillReminder, previous, currency string) {
	if uc.notifier == nil {
		return
	}

	uc.cancel(ctx, b.ID, previous)

	next := ""
	if b.NeedsReminder() {
		id, err := uc.notifier.ScheduleBillReminder(ctx, BillReminderNotice{
			BillID:   b.ID,
			Name:     b.Name,
			Amount:   b.Amount.String(),
			Currency: currency,
			DueDate:  *b.DueDate,
			RemindAt: b.RemindAt(),
		})
		uc.observeNotification("schedule", b.ID, err)
		if err == nil {
			next = id
		}
	}

	if next == previous {
		b.NotificationID = next
		return
	}

	err := uc.ledger.Update(ctx, "bill.notification", func(s *domain.Snapshot) error {
		stored := s.BillReminder(b.ID)
		if stored == nil {
			return errUnchanged
		}
		stored.NotificationID = next
		return nil
	})
	if err != nil {
		uc.ledger.logger.Error().Err(err).Str("bill_id", b.ID).Msg("failed to store notification id")
		return
	}
	b.NotificationID = next
}

func (uc *BillUseCase) cancel(ctx context.Context, billID, notificationID string) {
	if uc.notifier == nil || notificationID == "" {
		return
	}
	err := uc.notifier.CancelBillReminder(ctx, notificationID)
	uc.observeNotification("cancel", billID, err)
}

func (uc *BillUseCase) observeNotification(operation, billID string, err error) {
	m := uc.ledger.metrics
	if err != nil {
		if m != nil {
			m.NotificationFailures.WithLabelValues(operation).Inc()
		}
		uc.ledger.logger.Error().
			Err(err).
			Str("bill_id", billID).
			Str("operation", operation).
			Msg("bill reminder notification failed")
		return
	}
	if m != nil {
		m.NotificationsSent.WithLabelValues(operation).Inc()
	}
}
