package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/fintrack/internal/usecase"
)

// SequenceIDGenerator returns id-1, id-2, ... in order.
type SequenceIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// FixedClock is a Clock tests can move by hand.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// RecordingStore is an in-memory SnapshotStore that counts writes.
type RecordingStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	Writes int

	SaveErr error
}

func NewRecordingStore() *RecordingStore {
	return &RecordingStore{data: make(map[string][]byte)}
}

func (s *RecordingStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	if !ok {
		return nil, usecase.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *RecordingStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

// Stored returns the last successfully saved bytes under key.
func (s *RecordingStore) Stored(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}
