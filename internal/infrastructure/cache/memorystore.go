package cache

import (
	"sync"
	"time"

	"github.com/orris-inc/deskhub/internal/shared/biztime"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a process local key/value store with per-key TTL. Expired keys are
// dropped lazily when read and in bulk by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   biztime.Clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// WithClock replaces the time source; used by tests.
func (m *MemoryStore) WithClock(clock biztime.Clock) *MemoryStore {
	m.clock = clock
	return m
}

func (m *MemoryStore) Set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.clock.Now().Add(ttl)}
}

// SetNX stores the value only when the key is absent or expired and reports whether it did.
func (m *MemoryStore) SetNX(key, value string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if e, ok := m.entries[key]; ok && now.Before(e.expiresAt) {
		return false
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
	return true
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(key)
}

// GetDel returns the value and removes the key in one step.
func (m *MemoryStore) GetDel(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.getLocked(key)
	delete(m.entries, key)
	return v, ok
}

func (m *MemoryStore) getLocked(key string) (string, bool) {
	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Sweep removes every expired key and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
