package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/ratelimit"
)

// ClientKey derives the rate-limit key for a request. Behind a proxy the
// first hop of X-Forwarded-For identifies the caller; X-Real-IP and the
// socket address are fallbacks.
func ClientKey(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "127.0.0.1"
}

// RateLimit gates a route group on the given limiter. A limiter failure fails
// open: blocking paying users on a counter hiccup is worse than letting a few
// extra requests through.
func RateLimit(limiter ratelimit.Limiter, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(c)
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		remaining, _ := limiter.Remaining(ctx, key)
		resetTime, _ := limiter.Reset(ctx, key)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Limit()))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes. Espera un momento antes de volver a intentarlo.",
			})
			return
		}

		c.Next()
	}
}
