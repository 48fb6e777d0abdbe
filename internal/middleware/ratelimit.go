package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bloodgroup/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window request counter shared by every API
// instance that points at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one hit for key and reports whether it is within the limit.
// When it is not, the returned duration is the time until the window resets.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, 0, err
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, 0, err
		}
	}
	if n <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// RateLimit rejects callers over the limit with 429. A nil limiter disables
// the check; Redis errors let the request through.
func RateLimit(l *RedisLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		ok, retry, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limiter unavailable", "prefix", l.prefix, "error", err)
		}
		if !ok {
			secs := int(retry.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please slow down.")
			return
		}
		c.Next()
	}
}
