package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterInclusiveCeiling(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(10, 500, time.Minute)

	for i := 1; i <= 10; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be under the ceiling", i)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed, "request 11 must be rejected")

	remaining, err := limiter.Remaining(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(1, 500, time.Minute)

	allowed, _ := limiter.Allow(ctx, "a")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "a")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "b")
	assert.True(t, allowed, "a different key has its own counter")
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(2, 500, 50*time.Millisecond)

	limiter.Allow(ctx, "k")
	limiter.Allow(ctx, "k")
	allowed, _ := limiter.Allow(ctx, "k")
	assert.False(t, allowed)

	time.Sleep(120 * time.Millisecond)

	allowed, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed, "an expired key is fresh again")

	remaining, _ := limiter.Remaining(ctx, "k")
	assert.Equal(t, 1, remaining)
}

func TestMemoryLimiterCapacityEviction(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(1, 2, time.Minute)

	limiter.Allow(ctx, "a")
	limiter.Allow(ctx, "b")
	// Inserting a third key evicts the least recently used one.
	limiter.Allow(ctx, "c")

	allowed, _ := limiter.Allow(ctx, "a")
	assert.True(t, allowed, "evicted key counts from scratch")
}

func TestMemoryLimiterRemainingForUnseenKey(t *testing.T) {
	limiter := NewMemory(25, 500, time.Minute)

	remaining, err := limiter.Remaining(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, 25, remaining)
}

func TestMemoryLimiterConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(50, 500, time.Minute)

	done := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		go func() {
			allowed, _ := limiter.Allow(ctx, "shared")
			done <- allowed
		}()
	}

	allowedCount := 0
	for i := 0; i < 100; i++ {
		if <-done {
			allowedCount++
		}
	}

	assert.Equal(t, 50, allowedCount)
}

func TestMemoryLimiterReset(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemory(5, 500, time.Minute)

	before := time.Now()
	limiter.Allow(ctx, "k")

	reset, err := limiter.Reset(ctx, "k")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Minute), reset, 2*time.Second)
}

func BenchmarkMemoryLimiterAllow(b *testing.B) {
	ctx := context.Background()
	limiter := NewMemory(1000000, 500, time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow(ctx, fmt.Sprintf("key-%d", i%100))
	}
}
