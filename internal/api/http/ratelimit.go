package http

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/samueladole/crovio/internal/config"
	apperrors "github.com/samueladole/crovio/pkg/util/errorutil"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

// RateLimiter throttles credential endpoints per client IP with a token
// bucket. Idle clients are evicted.
type RateLimiter struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter builds a limiter. A non-positive rate disables throttling.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientIdleTTL),
		limit:   rate.Limit(float64(cfg.RequestsPerMinute) / 60.0),
		burst:   burst,
	}
}

// Handle rejects the request with 429 once the caller's bucket is empty.
func (l *RateLimiter) Handle(c *fiber.Ctx) error {
	if l == nil {
		return c.Next()
	}
	limiter := l.limiterFor(c.IP())
	if !limiter.Allow() {
		retryAfter := math.Ceil(1 / float64(l.limit))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter)))
		return apperrors.NewTooManyRequests()
	}
	return c.Next()
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.clients.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.clients.Add(key, limiter)
	return limiter
}
