package usecase

import "time"

const (
	// DefaultPersistTimeout bounds a single snapshot write.
	DefaultPersistTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultSnapshotKey is the key the finance snapshot is stored under.
	DefaultSnapshotKey = "fintrack:finance"
)
