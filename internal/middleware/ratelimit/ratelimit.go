// Package ratelimit throttles state-changing requests per client with a
// token bucket for each client address.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// Burst defaults to RequestsPerMinute.
	Burst int
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		IdleTTL:           10 * time.Minute,
	}
}

// Limiter provides rate limiting functionality
type Limiter struct {
	clients *gocache.Cache
	limit   rate.Limit
	burst   int
	every   time.Duration

	hits atomic.Int64
}

// Metrics for monitoring rate limit performance
type Metrics struct {
	TotalHits   int64
	ClientCount int
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerMinute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = def.IdleTTL
	}

	every := time.Minute / time.Duration(config.RequestsPerMinute)
	return &Limiter{
		clients: gocache.New(config.IdleTTL, config.IdleTTL/2),
		limit:   rate.Every(every),
		burst:   config.Burst,
		every:   every,
	}
}

func (rl *Limiter) bucket(clientIP string) *rate.Limiter {
	if v, ok := rl.clients.Get(clientIP); ok {
		lim := v.(*rate.Limiter)
		rl.clients.SetDefault(clientIP, lim)
		return lim
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.clients.Add(clientIP, lim, gocache.DefaultExpiration); err != nil {
		// lost the race; use the bucket the other request stored
		if v, ok := rl.clients.Get(clientIP); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Allow reports whether a request from clientIP may proceed now.
func (rl *Limiter) Allow(clientIP string) bool {
	if rl.bucket(clientIP).Allow() {
		return true
	}
	rl.hits.Add(1)
	return false
}

// RetryAfter is the wait, in whole seconds, until a token is available again.
func (rl *Limiter) RetryAfter() int {
	return int(math.Max(1, math.Ceil(rl.every.Seconds())))
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	return rl.clients.ItemCount()
}

// GetMetrics returns current rate limiting metrics
func (rl *Limiter) GetMetrics() Metrics {
	return Metrics{
		TotalHits:   rl.hits.Load(),
		ClientCount: rl.ActiveClients(),
	}
}

// Middleware limits POST requests. Reads pass through untouched.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter()))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
