package ratelimit

import (
	"context"
	"time"
)

// Limiter bounds request frequency per client key within a time window. The
// limit is an inclusive ceiling: the Nth request in one window is allowed iff
// N <= limit.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)

	Remaining(ctx context.Context, key string) (int, error)

	Limit() int

	Window() time.Duration

	Reset(ctx context.Context, key string) (time.Time, error)
}
