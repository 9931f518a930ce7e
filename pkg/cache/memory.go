package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Memory is a process-wide in-memory cache. Values are stored JSON-encoded so
// callers get the same copy semantics as the Redis backend. Expired entries
// are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; another goroutine may have replaced
		// the entry since the read.
		if current, ok := m.entries[key]; ok && m.now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{payload: payload, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}
