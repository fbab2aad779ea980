package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

const (
	backendName = "postgres"

	// DefaultHistoryLimit is how many previous revisions of a key are kept.
	DefaultHistoryLimit = 20
)

const (
	loadQuery = `SELECT value FROM kv_store WHERE key = $1`

	upsertQuery = `
INSERT INTO kv_store (key, value, revision, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, revision = kv_store.revision + 1, updated_at = now()
RETURNING revision`

	historyInsertQuery = `INSERT INTO kv_store_history (key, revision, value, created_at) VALUES ($1, $2, $3, now())`

	historyPruneQuery = `DELETE FROM kv_store_history WHERE key = $1 AND revision <= $2`
)

// SnapshotStore implements usecase.SnapshotStore on a PostgreSQL key-value
// table. Every save bumps the key's revision and keeps a bounded history.
type SnapshotStore struct {
	pool         pgxPool
	tx           *TxManager
	retrier      *Retrier
	metrics      *metrics.Metrics
	historyLimit int64
}

// NewSnapshotStore creates a new SnapshotStore. m may be nil.
func NewSnapshotStore(pool *pgxpool.Pool, logger zerolog.Logger, m *metrics.Metrics) *SnapshotStore {
	return newSnapshotStore(pool, logger, m)
}

func newSnapshotStore(pool pgxPool, logger zerolog.Logger, m *metrics.Metrics) *SnapshotStore {
	return &SnapshotStore{
		pool:         pool,
		tx:           newTxManager(pool),
		retrier:      NewRetrier(logger),
		metrics:      m,
		historyLimit: DefaultHistoryLimit,
	}
}

// WithHistoryLimit sets how many revisions are retained per key.
func (s *SnapshotStore) WithHistoryLimit(limit int) *SnapshotStore {
	if limit > 0 {
		s.historyLimit = int64(limit)
	}
	return s
}

// Load returns the stored document, or usecase.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.observe(ctx, "load", func() error {
		return s.pool.QueryRow(ctx, loadQuery, key).Scan(&data)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, usecase.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes data as the next revision of key.
func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	return s.observe(ctx, "save", func() error {
		return s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
			var revision int64
			if err := tx.QueryRow(ctx, upsertQuery, key, data).Scan(&revision); err != nil {
				return fmt.Errorf("upsert: %w", err)
			}
			if _, err := tx.Exec(ctx, historyInsertQuery, key, revision, data); err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if revision > s.historyLimit {
				if _, err := tx.Exec(ctx, historyPruneQuery, key, revision-s.historyLimit); err != nil {
					return fmt.Errorf("prune history: %w", err)
				}
			}
			return nil
		})
	})
}

func (s *SnapshotStore) observe(ctx context.Context, op string, fn func() error) error {
	if s.metrics != nil {
		s.metrics.StoreOperations.WithLabelValues(backendName, op).Inc()
	}

	err := s.retrier.Retry(ctx, op, fn)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(backendName, op).Inc()
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
