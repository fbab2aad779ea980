package usecase

import (
	"context"
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned by a SnapshotStore that holds nothing under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is the key-value persistence provider the ledger writes its
// serialized snapshot to.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Notifier schedules and cancels bill reminders. Calls are best-effort.
type Notifier interface {
	// ScheduleBillReminder returns an opaque notification id.
	ScheduleBillReminder(ctx context.Context, reminder BillReminderNotice) (string, error)
	CancelBillReminder(ctx context.Context, notificationID string) error
}

// BillReminderNotice is what a Notifier needs to know about a bill.
type BillReminderNotice struct {
	BillID   string    `json:"billId"`
	Name     string    `json:"name"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency"`
	DueDate  time.Time `json:"dueDate"`
	RemindAt time.Time `json:"remindAt"`
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key whose request failed so it can be retried.
	Delete(ctx context.Context, key string) error
}
