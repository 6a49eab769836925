// Package trace logs every request with its chi request id and keeps
// simple request metrics.
package trace

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"budget/internal/log"
)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string

	total       atomic.Int64
	inFlight    atomic.Int64
	totalMicros atomic.Int64
}

// Metrics is a point-in-time view of the request counters
type Metrics struct {
	TotalRequests       int64
	InFlight            int64
	AverageResponseTime time.Duration
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{extractIP: extractIP}
}

// Handler returns HTTP middleware for request tracing
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		logger := log.FromContext(ctx)
		logger.DebugContext(ctx, "HTTP request started",
			log.NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).
				WithClientIP(clientIP).
				ToSlice()...)

		if id := RequestID(r); id != "" {
			w.Header().Set("X-Request-Id", id)
		}

		m.total.Add(1)
		m.inFlight.Add(1)
		defer m.inFlight.Add(-1)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		m.totalMicros.Add(elapsed.Microseconds())

		log.LogHTTPEnd(ctx, r, status, elapsed.Milliseconds(), clientIP)
	})
}

// RequestID returns chi's request id for r, if any.
func RequestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	total := m.total.Load()
	var avg time.Duration
	if total > 0 {
		avg = time.Duration(m.totalMicros.Load()/total) * time.Microsecond
	}
	return Metrics{
		TotalRequests:       total,
		InFlight:            m.inFlight.Load(),
		AverageResponseTime: avg,
	}
}
