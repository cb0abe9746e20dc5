package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter counts requests per key in fixed windows. Webhook and
// auth traffic is keyed by client IP; authenticated routes use the user id so
// NAT'd users don't share a budget.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

func NewFixedWindowLimiter(limit int, span time.Duration) *FixedWindowLimiter {
	l := &FixedWindowLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
	go l.evict()
	return l
}

func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w := l.windows[key]
	if w == nil || now.After(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.span)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

func (l *FixedWindowLimiter) evict() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		now := time.Now()
		for k, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, k)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit rejects requests over the per-key budget with a 429.
func RateLimit(limiter *FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := c.Get("user_id"); ok {
			key = "u:" + strconv.FormatUint(uint64(id.(uint)), 10)
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
