package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"holdops/internal/config"
)

// idleLimiterTTL is how long an unused client limiter is kept.
const idleLimiterTTL = 10 * time.Minute

// RateLimiter applies a token bucket per client.
type RateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *zap.Logger
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// NewRateLimiter creates a new RateLimiter.
func NewRateLimiter(cfg config.RateLimitConfig, log *zap.Logger) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rate:  rate.Limit(cfg.RequestsPerSecond),
		burst: burst,
		log:   log,
		now:   time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()
	if v, ok := rl.limiters.Load(key); ok {
		e := v.(*limiterEntry)
		e.mu.Lock()
		e.lastAccess = now
		e.mu.Unlock()
		return e.limiter
	}
	e := &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst), lastAccess: now}
	actual, _ := rl.limiters.LoadOrStore(key, e)
	return actual.(*limiterEntry).limiter
}

// Sweep drops limiters idle for longer than idleLimiterTTL.
func (rl *RateLimiter) Sweep() int {
	cutoff := rl.now().Add(-idleLimiterTTL)
	removed := 0
	rl.limiters.Range(func(key, value any) bool {
		e := value.(*limiterEntry)
		e.mu.Lock()
		idle := e.lastAccess.Before(cutoff)
		e.mu.Unlock()
		if idle {
			rl.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// RunSweeper sweeps idle limiters every interval until done is closed.
func (rl *RateLimiter) RunSweeper(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// clientKey identifies the caller by token subject when authenticated,
// otherwise by IP.
func clientKey(c *gin.Context) string {
	if sub := GetSubject(c); sub != "" {
		return "sub:" + sub
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// Middleware returns the Gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.burst)
	return func(c *gin.Context) {
		key := clientKey(c)
		if !rl.limiter(key).Allow() {
			rl.log.Warn("rate limit exceeded",
				zap.String("client", key),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			)
			c.Header("X-RateLimit-Limit", limit)
			c.Header("Retry-After", "1")
			abortJSON(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests; retry later")
			return
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Next()
	}
}
