package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// errUnchanged aborts an Update without committing or persisting anything.
// Mutations on unknown ids return it so they stay no-ops.
var errUnchanged = errors.New("unchanged")

// Ledger holds the committed finance snapshot. Every mutation runs against a
// clone and replaces the committed state only when it succeeds; the result is
// then written to the SnapshotStore on a best-effort basis.
type Ledger struct {
	mu      sync.RWMutex
	state   *domain.Snapshot
	store   SnapshotStore
	key     string
	idGen   IDGenerator
	clock   Clock
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLedger creates a Ledger over an empty snapshot. Call Load to restore persisted state.
func NewLedger(
	store SnapshotStore,
	key string,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *Ledger {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Ledger{
		state:   domain.NewSnapshot(),
		store:   store,
		key:     key,
		idGen:   idGen,
		clock:   clock,
		logger:  logger.With().Str("component", "ledger").Logger(),
		metrics: metrics,
	}
}

// Load restores the snapshot from the store. A missing snapshot starts an
// empty ledger in currency.
func (l *Ledger) Load(ctx context.Context, currency string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.store.Load(ctx, l.key)
	if errors.Is(err, ErrSnapshotNotFound) {
		s := domain.NewSnapshot()
		if currency != "" {
			s.Currency = currency
		}
		l.state = s
		l.logger.Info().Str("key", l.key).Msg("no snapshot stored, starting empty ledger")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", l.key, err)
	}

	s, err := domain.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("decode snapshot %s: %w", l.key, err)
	}
	l.state = s

	l.logger.Info().
		Str("key", l.key).
		Int("accounts", len(s.Accounts)).
		Int("transactions", len(s.Transactions)).
		Msg("snapshot loaded")

	return nil
}

// View runs fn against the committed snapshot under a read lock. fn must not
// retain or mutate s.
func (l *Ledger) View(fn func(s *domain.Snapshot)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.state)
}

// Snapshot returns a deep copy of the committed state.
func (l *Ledger) Snapshot() *domain.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone()
}

// Update applies fn to a clone of the committed state and commits it when fn
// returns nil. op names the transition for logs and metrics.
func (l *Ledger) Update(ctx context.Context, op string, fn func(s *domain.Snapshot) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errUnchanged) {
			l.observe(op, "noop")
			return nil
		}
		l.observe(op, "rejected")
		l.logger.Debug().Err(err).Str("operation", op).Msg("transition rejected")
		return err
	}

	l.state = next
	l.observe(op, "committed")
	l.logger.Debug().Str("operation", op).Msg("transition committed")

	l.persist(ctx, op)
	return nil
}

// persist writes the committed state. Failures are logged and counted only:
// the in-memory transition stands and the next commit writes the full state again.
func (l *Ledger) persist(ctx context.Context, op string) {
	if l.store == nil {
		return
	}

	start := time.Now()

	data, err := l.state.Encode()
	if err != nil {
		l.persistFailed(op, err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultPersistTimeout)
	defer cancel()

	if l.metrics != nil {
		l.metrics.SnapshotWrites.Inc()
	}

	if err := l.store.Save(writeCtx, l.key, data); err != nil {
		l.persistFailed(op, err)
		return
	}

	if l.metrics != nil {
		l.metrics.SnapshotWriteDuration.Observe(time.Since(start).Seconds())
		l.metrics.SnapshotBytes.Set(float64(len(data)))
	}
}

func (l *Ledger) persistFailed(op string, err error) {
	if l.metrics != nil {
		l.metrics.SnapshotWriteFailures.Inc()
	}
	l.logger.Error().Err(err).Str("operation", op).Str("key", l.key).Msg("failed to persist snapshot")
}

func (l *Ledger) observe(op, status string) {
	if l.metrics != nil {
		l.metrics.LedgerOperations.WithLabelValues(op, status).Inc()
	}
}

// NewID returns a fresh entity id.
func (l *Ledger) NewID() string {
	return l.idGen.Generate()
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.clock.Now()
}
