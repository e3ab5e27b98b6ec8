package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"rhai/internal/domain"
	"rhai/internal/logger"
	"rhai/internal/metrics"
)

// RedisRateLimiter is a fixed-window limiter shared across relay instances.
// Each window admits floor(rps*window)+burst requests per client.
type RedisRateLimiter struct {
	client  *redis.Client
	window  time.Duration
	allowed int64
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRedisRateLimiter creates a Redis-backed limiter.
func NewRedisRateLimiter(client *redis.Client, rps float64, burst int, window time.Duration, m *metrics.Metrics) *RedisRateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RedisRateLimiter{
		client:  client,
		window:  window,
		allowed: int64(rps*window.Seconds()) + int64(burst),
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the clock used to pick the window bucket.
func (l *RedisRateLimiter) WithClock(now func() time.Time) *RedisRateLimiter {
	l.now = now
	return l
}

// Middleware rejects requests over the window quota with 429. When Redis is
// unreachable the request is let through and the failure logged.
func (l *RedisRateLimiter) Middleware() gin.HandlerFunc {
	windowSecs := int64(l.window / time.Second)
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := l.now().Unix() / windowSecs
		key := fmt.Sprintf("rhai:rl:%s:%d", clientKey(c), bucket)

		// INCR and EXPIRE run in one MULTI so a counter never outlives its window.
		var incr *redis.IntCmd
		_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, l.window+time.Second)
			return nil
		})
		if err != nil {
			logger.Warnf("middleware.RedisRateLimiter: count %s: %v", key, err)
			c.Next()
			return
		}
		if cnt := incr.Val(); cnt > l.allowed {
			l.metrics.ObserveRateLimit("redis", false)
			c.Header("Retry-After", strconv.FormatInt(windowSecs, 10))
			abortJSON(c, http.StatusTooManyRequests, domain.CodeRateLimited, msgRateLimited)
			return
		}
		l.metrics.ObserveRateLimit("redis", true)
		c.Next()
	}
}
