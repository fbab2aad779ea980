package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/usecase"
)

// LogNotifier writes reminders to the log. It is used when no broker is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

var _ usecase.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ScheduleBillReminder(_ context.Context, reminder usecase.BillReminderNotice) (string, error) {
	id := newNotificationID()
	n.logger.Info().
		Str("notification_id", id).
		Str("bill_id", reminder.BillID).
		Str("name", reminder.Name).
		Str("amount", reminder.Amount).
		Str("currency", reminder.Currency).
		Time("due_date", reminder.DueDate).
		Time("remind_at", reminder.RemindAt).
		Msg("bill reminder scheduled")
	return id, nil
}

func (n *LogNotifier) CancelBillReminder(_ context.Context, notificationID string) error {
	n.logger.Info().Str("notification_id", notificationID).Msg("bill reminder cancelled")
	return nil
}
