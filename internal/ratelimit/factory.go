package ratelimit

import (
	"time"

	"github.com/oficialwritiai-cmd/WritiIA/internal/storage"
)

// New returns a limiter for one route policy. With a Redis client the counter
// space is shared across instances; otherwise it is process-local.
func New(redis *storage.RedisClient, name string, limit, maxKeys int, window time.Duration) Limiter {
	if redis != nil {
		return NewFixedWindow(redis, name, limit, window)
	}
	return NewMemory(limit, maxKeys, window)
}
