package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// sweepEvery is how many writes pass between scans for expired entries.
const sweepEvery = 128

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Memory is an in-process stand-in for Cache, used when no redis address is
// configured. Values are JSON-encoded so hits behave exactly like redis hits.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	writes  int
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return redis.Nil
	}
	if now := m.now(); e.expired(now) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expired(now) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return redis.Nil
	}
	return json.Unmarshal(e.data, dest)
}

// Set stores value for expiration. Zero keeps the entry until Close; a
// negative expiration removes the key, as the entry is already stale.
func (m *Memory) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	now := m.now()
	e := memoryEntry{data: data}
	if expiration > 0 {
		e.expiresAt = now.Add(expiration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if expiration < 0 {
		delete(m.entries, key)
		return nil
	}
	m.entries[key] = e

	m.writes++
	if m.writes%sweepEvery == 0 {
		for k, v := range m.entries {
			if v.expired(now) {
				delete(m.entries, k)
			}
		}
	}
	return nil
}

// Len reports how many entries are held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
