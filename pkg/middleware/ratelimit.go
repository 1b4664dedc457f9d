package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"lotus/pkg/utils"
)

// RateLimiter hands out one token bucket per caller. Buckets of callers that
// went quiet are evicted after idleTTL.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	buckets *gocache.Cache
}

const idleTTL = 10 * time.Minute

// NewRateLimiter allows perMinute requests per caller with bursts of the same
// size. Zero disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		buckets: gocache.New(idleTTL, idleTTL),
	}
}

func (l *RateLimiter) Allow(key string) bool {
	if l.burst <= 0 {
		return true
	}
	if v, ok := l.buckets.Get(key); ok {
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter).Allow()
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// another request created the bucket first
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter).Allow()
		}
	}
	return limiter.Allow()
}

// Middleware keys the bucket on the authenticated user, or the client IP for
// anonymous callers. It must run after OptionalAuth.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := UserID(c); ok {
			key = fmt.Sprintf("user:%s", userID)
		}
		if !l.Allow(key) {
			c.Header("Retry-After", "60")
			utils.RespondError(c, http.StatusTooManyRequests, "Too many planning requests, please retry later")
			c.Abort()
			return
		}
		c.Next()
	}
}
