// file: internal/server/middleware/ratelimit.go
// version: 2.0.0
// guid: 1331705a-85cb-4158-92f5-5ce203d8a0e7

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/classificacaofinal/classificacao/internal/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Route scopes with their own buckets. A client exhausting the auth scope can
// still run lookups, and the other way round.
const (
	ScopeAuth        = "auth"
	ScopeBatchLookup = "batch_lookup"
)

const sweepInterval = time.Minute

type bucketKey struct {
	scope string
	ip    string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP and route scope.
type RateLimiter struct {
	mu             sync.Mutex
	buckets        map[bucketKey]*bucket
	requestsPerMin int
	burst          int
	idleTTL        time.Duration
	lastSweep      time.Time
	now            func() time.Time
}

func NewRateLimiter(requestsPerMinute int, burst int) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		buckets:        make(map[bucketKey]*bucket),
		requestsPerMin: requestsPerMinute,
		burst:          burst,
		idleTTL:        15 * time.Minute,
		now:            time.Now,
	}
}

func (r *RateLimiter) allow(scope, ip string) bool {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= sweepInterval {
		for key, b := range r.buckets {
			if now.Sub(b.lastSeen) > r.idleTTL {
				delete(r.buckets, key)
			}
		}
		r.lastSweep = now
	}

	key := bucketKey{scope: scope, ip: ip}
	b, ok := r.buckets[key]
	if !ok {
		perSecond := float64(r.requestsPerMin) / 60.0
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), r.burst)}
		r.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Middleware limits the routes it guards under scope.
func (r *RateLimiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !r.allow(scope, ip) {
			metrics.IncRateLimited(scope)
			c.Header("Retry-After", "60")
			abortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		c.Next()
	}
}
