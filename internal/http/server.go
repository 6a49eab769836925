// Package http serves the budget page and its htmx endpoints.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/session"
	appweb "budget/web"
)

// multipartOverhead is the room left above MaxUploadBytes for multipart
// boundaries and part headers.
const multipartOverhead = 64 << 10

// Config holds HTTP server configuration
type Config struct {
	Addr               string
	MaxUploadBytes     int64
	RateLimitPerMinute int
	// TrustedProxies are extra CIDRs whose forwarding headers are honoured.
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Store
	logger    *log.Logger

	maxUpload int64
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	clientIP  *security.ClientIP

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg Config, sessions *session.Store, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	clientIP, err := security.NewClientIP(cfg.TrustedProxies...)
	if err != nil {
		return nil, err
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 1 << 20
	}

	s := &Server{
		templates: t,
		sessions:  sessions,
		logger:    logger,
		maxUpload: cfg.MaxUploadBytes,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		clientIP:  clientIP,
	}
	s.tracer = trace.NewMiddleware(s.clientIP.Extract)

	handler, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() (http.Handler, error) {
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Handler)
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NotAllowed("GET, POST").Send(w)
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(log.ComponentMiddleware(log.ComponentSession))
		r.Use(security.NoStore)
		r.Use(s.limiter.Middleware(s.clientIP.Extract, s.onRateLimited))
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Route("/{kind}", func(r chi.Router) {
			r.Post("/items", s.handleCreate)
			r.Get("/items/{id}/edit", s.handleEdit)
			r.Post("/items/{id}", s.handleSave)
			r.Post("/items/{id}/delete", s.handleDelete)
			r.Post("/items/{id}/cancel", s.handleCancel)
			r.Post("/toggle", s.handleToggle)
		})
	})

	return r, nil
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.Extract(r), log.FieldPath, r.URL.Path)
	Fail(http.StatusTooManyRequests, "Too many changes, slow down a little").Send(w)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		m := s.tracer.GetMetrics()
		s.logger.Info("HTTP server shutting down",
			log.FieldOperation, log.OpShutdown,
			"total_requests", m.TotalRequests,
			"avg_response_time", m.AverageResponseTime.String(),
			"rate_limited", s.limiter.GetMetrics().TotalHits)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil || s.sessions == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready sessions=%d", s.sessions.Len())
}
