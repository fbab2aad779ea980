package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

const backendName = "redis"

// SnapshotStore implements usecase.SnapshotStore on a single Redis string key.
type SnapshotStore struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics

	initialInterval time.Duration
	maxElapsedTime  time.Duration
}

// NewSnapshotStore creates a new SnapshotStore. m may be nil.
func NewSnapshotStore(client *redis.Client, m *metrics.Metrics) *SnapshotStore {
	return &SnapshotStore{
		client:          client,
		prefix:          "snapshot:",
		metrics:         m,
		initialInterval: 50 * time.Millisecond,
		maxElapsedTime:  5 * time.Second,
	}
}

// Load returns the stored document, or usecase.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.retry(ctx, "load", func() error {
		var err error
		data, err = s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return backoff.Permanent(usecase.ErrSnapshotNotFound)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save overwrites the stored document. The key never expires.
func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	return s.retry(ctx, "save", func() error {
		return s.client.Set(ctx, s.prefix+key, data, 0).Err()
	})
}

func (s *SnapshotStore) retry(ctx context.Context, op string, fn func() error) error {
	if s.metrics != nil {
		s.metrics.StoreOperations.WithLabelValues(backendName, op).Inc()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	b.MaxElapsedTime = s.maxElapsedTime

	err := backoff.Retry(fn, backoff.WithContext(b, ctx))
	if err == nil || errors.Is(err, usecase.ErrSnapshotNotFound) {
		return err
	}

	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(backendName, op).Inc()
	}
	return fmt.Errorf("redis %s: %w", op, err)
}
