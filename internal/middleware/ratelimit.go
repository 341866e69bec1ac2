package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit describes a request budget over a window for one route class.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Per-class limits. Windows and budgets match the deployed front-door
// limits: auth is strict, analytics is the most expensive read path.
var (
	GeneralLimit      = RateLimit{Requests: 100, Window: 15 * time.Minute}
	AuthLimit         = RateLimit{Requests: 5, Window: 15 * time.Minute}
	TransactionsLimit = RateLimit{Requests: 100, Window: time.Hour}
	AnalyticsLimit    = RateLimit{Requests: 50, Window: time.Hour}
)

// ipLimiter tracks one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter(l RateLimit) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(l.Requests) / l.Window.Seconds()),
		burst:    l.Requests,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimiter returns middleware enforcing the given per-IP budget.
// Rejected requests get 429 with a retry hint and no handler runs.
func RateLimiter(limit RateLimit) gin.HandlerFunc {
	limiter := newIPLimiter(limit)
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests, please try again later",
				},
				"retry_after": limit.Window.String(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
