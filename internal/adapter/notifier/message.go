package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/iho/fintrack/internal/usecase"
)

// Message types.
const (
	TypeSchedule = "bill_reminder.schedule"
	TypeCancel   = "bill_reminder.cancel"
)

// Message is the JSON body published for every reminder change.
type Message struct {
	Type           string                      `json:"type"`
	NotificationID string                      `json:"notificationId"`
	Reminder       *usecase.BillReminderNotice `json:"reminder,omitempty"`
	SentAt         time.Time                   `json:"sentAt"`
}

// ToJSON encodes the message.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON decodes a message published by a Notifier.
func MessageFromJSON(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode reminder message: %w", err)
	}
	switch m.Type {
	case TypeSchedule:
		if m.Reminder == nil {
			return nil, fmt.Errorf("schedule message %s has no reminder", m.NotificationID)
		}
	case TypeCancel:
	default:
		return nil, fmt.Errorf("unknown reminder message type %q", m.Type)
	}
	return &m, nil
}

func newNotificationID() string {
	return ulid.Make().String()
}
