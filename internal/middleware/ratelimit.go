package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"rhai/internal/domain"
	"rhai/internal/metrics"
)

const msgRateLimited = "Trop de demandes de génération. Patientez avant de réessayer."

const defaultIdleTTL = 10 * time.Minute

// RateLimiter is an in-memory token bucket per client. Buckets idle for
// longer than the idle TTL are swept, so the store stays bounded by the
// number of recently active clients.
type RateLimiter struct {
	rps       float64
	burst     int
	idleTTL   time.Duration
	metrics   *metrics.Metrics
	now       func() time.Time
	lastSweep atomic.Int64
	store     sync.Map // map[string]*clientLimiter
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

// NewRateLimiter creates a limiter allowing rps events per second with the given burst.
func NewRateLimiter(rps float64, burst int, m *metrics.Metrics) *RateLimiter {
	// An idle bucket is only dropped once it would have refilled completely.
	ttl := defaultIdleTTL
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}
	return &RateLimiter{rps: rps, burst: burst, idleTTL: ttl, metrics: m, now: time.Now}
}

// WithClock overrides the clock used for token refill and idle eviction.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.now = now
	return l
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	n := 0
	l.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (l *RateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	l.sweep(now)

	v, ok := l.store.Load(key)
	if !ok {
		v, _ = l.store.LoadOrStore(key, &clientLimiter{lim: rate.NewLimiter(rate.Limit(l.rps), l.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(now.UnixNano())
	return cl.lim
}

// sweep drops idle buckets, at most once per idle TTL.
func (l *RateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.store.Range(func(k, v any) bool {
		if v.(*clientLimiter).lastSeen.Load() < cutoff {
			l.store.Delete(k)
		}
		return true
	})
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := "1"
	if l.rps > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / l.rps)))
	}
	return func(c *gin.Context) {
		now := l.now()
		if !l.limiter(clientKey(c), now).AllowN(now, 1) {
			l.metrics.ObserveRateLimit("memory", false)
			c.Header("Retry-After", retryAfter)
			abortJSON(c, http.StatusTooManyRequests, domain.CodeRateLimited, msgRateLimited)
			return
		}
		l.metrics.ObserveRateLimit("memory", true)
		c.Next()
	}
}

// clientKey prefers the authenticated subject and falls back to the client IP.
func clientKey(c *gin.Context) string {
	if sub := c.GetString(ContextKeySubject); sub != "" {
		return "sub:" + sub
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
