package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

func newTestStore(t *testing.T) (*SnapshotStore, pgxmock.PgxPoolIface, *metrics.Metrics) {
	t.Helper()
	mockPool := newMockPool(t)
	m := metrics.New(prometheus.NewRegistry())
	store := newSnapshotStore(mockPool, zerolog.Nop(), m)
	store.retrier.policy = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}
	return store, mockPool, m
}

func TestSnapshotStore_Load(t *testing.T) {
	store, mockPool, _ := newTestStore(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(loadQuery)).
		WithArgs("finance").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"accounts":[]}`)))

	data, err := store.Load(context.Background(), "finance")
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts":[]}`, string(data))

	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store, mockPool, m := newTestStore(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(loadQuery)).
		WithArgs("finance").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Load(context.Background(), "finance")
	require.ErrorIs(t, err, usecase.ErrSnapshotNotFound)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues(backendName, "load")))

	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotStore_LoadRetriesSerializationFailure(t *testing.T) {
	store, mockPool, _ := newTestStore(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(loadQuery)).
		WithArgs("finance").
		WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})
	mockPool.ExpectQuery(regexp.QuoteMeta(loadQuery)).
		WithArgs("finance").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{}`)))

	data, err := store.Load(context.Background(), "finance")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotStore_SaveFirstRevision(t *testing.T) {
	store, mockPool, m := newTestStore(t)
	payload := []byte(`{"currency":"USD"}`)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("finance", payload).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(1)))
	mockPool.ExpectExec(regexp.QuoteMeta(historyInsertQuery)).
		WithArgs("finance", int64(1), payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), "finance", payload))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues(backendName, "save")))

	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotStore_SavePrunesHistory(t *testing.T) {
	store, mockPool, _ := newTestStore(t)
	store.WithHistoryLimit(5)
	payload := []byte(`{}`)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("finance", payload).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(8)))
	mockPool.ExpectExec(regexp.QuoteMeta(historyInsertQuery)).
		WithArgs("finance", int64(8), payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(regexp.QuoteMeta(historyPruneQuery)).
		WithArgs("finance", int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), "finance", payload))

	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSnapshotStore_SaveRollsBackOnFailure(t *testing.T) {
	store, mockPool, m := newTestStore(t)
	payload := []byte(`{}`)
	boom := errors.New("disk full")

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(upsertQuery)).
		WithArgs("finance", payload).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(2)))
	mockPool.ExpectExec(regexp.QuoteMeta(historyInsertQuery)).
		WithArgs("finance", int64(2), payload).
		WillReturnError(boom)
	mockPool.ExpectRollback()

	err := store.Save(context.Background(), "finance", payload)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "postgres save")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues(backendName, "save")))

	require.NoError(t, mockPool.ExpectationsWereMet())
}
