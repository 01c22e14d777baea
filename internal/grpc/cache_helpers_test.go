package grpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/feedback-metrics/internal/grpc/mocks"
)

// TestAddTTLJitter tests expiration spreading
func TestAddTTLJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), addTTLJitter(0))

	t.Run("one minute", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			got := addTTLJitter(time.Minute)
			assert.GreaterOrEqual(t, got, 54*time.Second)
			assert.LessOrEqual(t, got, 66*time.Second)
		}
	})

	t.Run("long ttl caps the spread", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			got := addTTLJitter(time.Hour)
			assert.GreaterOrEqual(t, got, time.Hour-15*time.Second)
			assert.LessOrEqual(t, got, time.Hour+15*time.Second)
		}
	})

	t.Run("short ttl never reaches zero", func(t *testing.T) {
		for _, ttl := range []time.Duration{time.Nanosecond, time.Millisecond, time.Second, 5 * time.Second, 15 * time.Second} {
			for i := 0; i < 1000; i++ {
				got := addTTLJitter(ttl)
				require.Positive(t, got, "ttl %s", ttl)
				require.GreaterOrEqual(t, got, ttl-ttl/10, "ttl %s", ttl)
			}
		}
	})
}

// TestFindAndCache tests the read-through helpers
func TestFindAndCache(t *testing.T) {
	ctx := context.Background()

	t.Run("nil cache calls fetch", func(t *testing.T) {
		var sf singleflight.Group
		v, err := FindAndCache(ctx, nil, &sf, "k", time.Minute, nil, func(ctx context.Context) (int, error) {
			return 7, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("fetch error is returned", func(t *testing.T) {
		var sf singleflight.Group
		_, err := FindAndCache(ctx, &mocks.MockCacher{}, &sf, "k", time.Minute, zap.NewNop(), func(ctx context.Context) (int, error) {
			return 0, errors.New("boom")
		})

		assert.EqualError(t, err, "boom")
	})

	t.Run("cache get error is treated as miss", func(t *testing.T) {
		var sf singleflight.Group
		c := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				return errors.New("connection refused")
			},
		}
		v, err := FindAndCache(ctx, c, &sf, "k", time.Minute, zap.NewNop(), func(ctx context.Context) (string, error) {
			return "fresh", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "fresh", v)
	})

	t.Run("once variant does not refresh on hit", func(t *testing.T) {
		var sf singleflight.Group
		var calls atomic.Int32
		c := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				*(dest.(*string)) = "cached"
				return nil
			},
		}
		v, err := FindAndCacheOnce(ctx, c, &sf, "k", time.Minute, zap.NewNop(), func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "fresh", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "cached", v)
		time.Sleep(1200 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("hit refreshes in background", func(t *testing.T) {
		var sf singleflight.Group
		var mu sync.Mutex
		var stored []any
		done := make(chan struct{})
		c := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				*(dest.(*string)) = "cached"
				return nil
			},
			SetFunc: func(ctx context.Context, key string, value any, expiration time.Duration) error {
				mu.Lock()
				stored = append(stored, value)
				mu.Unlock()
				close(done)
				return nil
			},
		}
		v, err := FindAndCache(ctx, c, &sf, "k", time.Minute, zap.NewNop(), func(ctx context.Context) (string, error) {
			return "fresh", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "cached", v)

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("background refresh did not run")
		}
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []any{"fresh"}, stored)
	})
}
