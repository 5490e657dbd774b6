package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	sweepInterval = 5 * time.Minute
	bucketMaxIdle = 10 * time.Minute
)

// bucket tracks the remaining request allowance for one client IP.
type bucket struct {
	remaining float64
	touched   time.Time
}

// RateLimiter is a per-client-IP token bucket. Buckets start full and
// refill continuously; a background sweep evicts buckets idle longer
// than bucketMaxIdle.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	burst     float64
	perSecond float64
}

// NewRateLimiter allows up to requests per window from one client, the
// whole window usable as a burst.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:   make(map[string]*bucket),
		burst:     float64(requests),
		perSecond: float64(requests) / window.Seconds(),
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if time.Since(b.touched) > bucketMaxIdle {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) take(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		rl.buckets[ip] = &bucket{remaining: rl.burst - 1, touched: now}
		return true
	}

	b.remaining += now.Sub(b.touched).Seconds() * rl.perSecond
	if b.remaining > rl.burst {
		b.remaining = rl.burst
	}
	b.touched = now

	if b.remaining < 1 {
		return false
	}
	b.remaining--
	return true
}

// Middleware rejects requests from clients whose bucket is empty.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.take(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
