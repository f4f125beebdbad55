package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bluele/gcache"
)

// MemoryStore keeps sessions in a bounded in-process LRU cache.
// Entries hold the encoded form so callers never share a Session value.
type MemoryStore struct {
	cache gcache.Cache
}

// NewMemoryStore creates a store holding at most size sessions.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{
		cache: gcache.New(size).LRU().Build(),
	}
}

// Name identifies the store in logs.
func (m *MemoryStore) Name() string { return "memory" }

// Load returns the session stored under id.
func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	v, err := m.cache.Get(id)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("memory store: unexpected entry type %T", v)
	}
	return decode(data)
}

// Save stores s for ttl. A zero ttl keeps the entry until evicted.
func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("memory store: encode session: %w", err)
	}
	if ttl > 0 {
		return m.cache.SetWithExpire(s.ID, data, ttl)
	}
	return m.cache.Set(s.ID, data)
}

// Delete removes the session stored under id.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	return m.cache.Len(true)
}
