// Package memstore is an in-process core.KV for single-node deployments and
// tests. TTLs are checked lazily against an injectable clock so expiry can be
// simulated deterministically.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/airbandhq/airband/internal/core"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

type Option func(*Store)

// WithClock replaces the wall clock, used by tests to drive expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return "", core.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return "", core.ErrKeyNotFound
	}
	return e.value, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
