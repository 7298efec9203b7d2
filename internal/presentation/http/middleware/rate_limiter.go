package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/config"
	"golang.org/x/time/rate"
)

// ClientRateLimiter limits requests per client: the authenticated user when
// there is one, otherwise the client IP.
type ClientRateLimiter struct {
	limiters map[string]*rateLimiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	entryTTL time.Duration
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter allows cfg.Requests per cfg.Duration seconds, with
// bursts up to cfg.Requests.
func NewClientRateLimiter(cfg config.RateLimitConfig) *ClientRateLimiter {
	requests, seconds := cfg.Requests, cfg.Duration
	if requests <= 0 {
		requests = 100
	}
	if seconds <= 0 {
		seconds = 60
	}
	return &ClientRateLimiter{
		limiters: make(map[string]*rateLimiterEntry),
		rate:     rate.Limit(float64(requests) / float64(seconds)),
		burst:    requests,
		entryTTL: 10 * time.Minute,
	}
}

// Run drops idle clients every interval until ctx is done.
func (rl *ClientRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

func (rl *ClientRateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &rateLimiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

func (rl *ClientRateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.entryTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Clients returns the number of tracked clients
func (rl *ClientRateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware returns a Gin middleware that applies the limit
func (rl *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := c.Get("user_id"); ok {
			if uid, ok := id.(int64); ok {
				key = "user:" + strconv.FormatInt(uid, 10)
			}
		}

		limiter := rl.getLimiter(key, time.Now())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}
