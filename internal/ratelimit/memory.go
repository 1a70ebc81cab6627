package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryLimiter is a fixed-window counter over a capacity-bounded TTL cache.
// Entries expire one window after creation; an evicted or expired key is
// indistinguishable from one never seen. Counting is best-effort under
// concurrency: the mutex keeps the counter consistent, but this is abuse
// mitigation, not billing-grade accounting.
type MemoryLimiter struct {
	mu     sync.Mutex
	cache  *expirable.LRU[string, *windowCounter]
	limit  int
	window time.Duration
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

func NewMemory(limit, maxKeys int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cache:  expirable.NewLRU[string, *windowCounter](maxKeys, nil, window),
		limit:  limit,
		window: window,
	}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.cache.Get(key)
	if !ok {
		// First request in this window initializes the counter to 1 before
		// comparing against the limit.
		counter = &windowCounter{windowStart: time.Now()}
		m.cache.Add(key, counter)
	}
	counter.count++

	return counter.count <= m.limit, nil
}

func (m *MemoryLimiter) Remaining(ctx context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.cache.Get(key)
	if !ok {
		return m.limit, nil
	}

	remaining := m.limit - counter.count
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

func (m *MemoryLimiter) Limit() int {
	return m.limit
}

func (m *MemoryLimiter) Window() time.Duration {
	return m.window
}

func (m *MemoryLimiter) Reset(ctx context.Context, key string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, ok := m.cache.Get(key)
	if !ok {
		return time.Now().Add(m.window), nil
	}

	return counter.windowStart.Add(m.window), nil
}
