package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	client, mr := newTestRedisClient(t)

	m := metrics.New(prometheus.NewRegistry())
	store := NewSnapshotStore(client, m)
	ctx := context.Background()

	_, err := store.Load(ctx, "finance")
	require.ErrorIs(t, err, usecase.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, "finance", []byte(`{"currency":"USD"}`)))

	data, err := store.Load(ctx, "finance")
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"USD"}`, string(data))

	assert.True(t, mr.Exists("snapshot:finance"))
	assert.Equal(t, time.Duration(0), mr.TTL("snapshot:finance"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreOperations.WithLabelValues("redis", "save")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.StoreErrors.WithLabelValues("redis", "load")))
}

func TestSnapshotStore_GivesUpWhenServerIsGone(t *testing.T) {
	client, mr := newTestRedisClient(t)

	m := metrics.New(prometheus.NewRegistry())
	store := NewSnapshotStore(client, m)
	store.initialInterval = time.Millisecond
	store.maxElapsedTime = 20 * time.Millisecond

	mr.Close()

	err := store.Save(context.Background(), "finance", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis save")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StoreErrors.WithLabelValues("redis", "save")))
}

func TestSnapshotStore_RecoversAfterTransientFailure(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewSnapshotStore(client, nil)
	store.initialInterval = time.Millisecond
	store.maxElapsedTime = time.Second

	mr.SetError("LOADING Redis is loading the dataset in memory")
	go func() {
		time.Sleep(5 * time.Millisecond)
		mr.SetError("")
	}()

	require.NoError(t, store.Save(context.Background(), "finance", []byte(`{"ok":true}`)))

	data, err := store.Load(context.Background(), "finance")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}
