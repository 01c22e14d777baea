package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrackingCache is a thread-safe in-memory cache that counts calls per key.
type TrackingCache struct {
	mu       sync.Mutex
	data     map[string]CacheEntry
	GetCalls map[string]int
	SetCalls map[string]int
}

type CacheEntry struct {
	Data   []byte
	Expiry time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data:     make(map[string]CacheEntry),
		GetCalls: make(map[string]int),
		SetCalls: make(map[string]int),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls[key]++
	if entry, exists := c.data[key]; exists && time.Now().Before(entry.Expiry) {
		return json.Unmarshal(entry.Data, dest)
	}
	return redis.Nil
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls[key]++
	c.data[key] = CacheEntry{Data: data, Expiry: time.Now().Add(exp)}
	return nil
}

// Sets returns how many times key was written.
func (c *TrackingCache) Sets(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.SetCalls[key]
}

func (c *TrackingCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.SetCalls))
	for k := range c.SetCalls {
		keys = append(keys, k)
	}
	return keys
}

func (c *TrackingCache) Close() error {
	return nil
}
