package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/oficialwritiai-cmd/WritiIA/internal/storage"
	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts requests in Redis so multiple instances share one
// counter space. Same inclusive-ceiling semantics as MemoryLimiter.
type FixedWindowLimiter struct {
	redis  *storage.RedisClient
	name   string
	limit  int
	window time.Duration
}

func NewFixedWindow(redis *storage.RedisClient, name string, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		redis:  redis,
		name:   name,
		limit:  limit,
		window: window,
	}
}

func (f *FixedWindowLimiter) key(clientKey string) string {
	currentWindow := time.Now().Unix() / int64(f.window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", f.name, clientKey, currentWindow)
}

func (f *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := f.key(key)

	count, err := f.redis.Incr(ctx, redisKey)
	if err != nil {
		return false, err
	}

	if count == 1 {
		f.redis.Expire(ctx, redisKey, f.window)
	}

	return count <= int64(f.limit), nil
}

func (f *FixedWindowLimiter) Remaining(ctx context.Context, key string) (int, error) {
	val, err := f.redis.Get(ctx, f.key(key))
	if err == redis.Nil {
		return f.limit, nil
	}

	if err != nil {
		return 0, err
	}

	count, _ := strconv.Atoi(val)
	remaining := f.limit - count

	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

func (f *FixedWindowLimiter) Limit() int {
	return f.limit
}

func (f *FixedWindowLimiter) Window() time.Duration {
	return f.window
}

func (f *FixedWindowLimiter) Reset(ctx context.Context, key string) (time.Time, error) {
	currentWindow := time.Now().Unix() / int64(f.window.Seconds())
	nextWindow := (currentWindow + 1) * int64(f.window.Seconds())
	return time.Unix(nextWindow, 0), nil
}
