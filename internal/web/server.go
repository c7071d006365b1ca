// Package web provides the HTTP server and handlers for the data cleaning UI
// and its JSON API.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/dataclean/internal/config"
	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/metrics"
	"github.com/JonMunkholm/dataclean/internal/session"
	webmw "github.com/JonMunkholm/dataclean/internal/web/middleware"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   *config.Config
	Sessions *session.Manager
	Limiter  *fileio.Limiter
	Metrics  *metrics.Metrics
}

// Server is the HTTP server for the cleaning application.
type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	limiter  *fileio.Limiter
	metrics  *metrics.Metrics
	cookies  *sessions.CookieStore
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(d Deps) *Server {
	s := &Server{
		cfg:      d.Config,
		sessions: d.Sessions,
		limiter:  d.Limiter,
		metrics:  d.Metrics,
		cookies:  newCookieStore(d.Config.Session),
		validate: newValidator(),
		router:   chi.NewRouter(),
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(s.rateLimit(limiter))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}

	// Browser flow: forms post here and are redirected back to the page.
	s.router.Get("/", s.handleDashboard)
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/clean/{operation}", s.handleCleanForm)
	s.router.Get("/export/{format}", s.handleExport)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(webmw.APIKeyAuth(&s.cfg.Security))

		r.Post("/upload", s.handleUpload)

		r.Get("/summary", s.handleSummary)
		r.Get("/missing", s.handleMissing)
		r.Get("/duplicates", s.handleDuplicates)
		r.Get("/preview", s.handlePreview)

		r.Post("/clean/{operation}", s.handleCleanAPI)

		r.Get("/export/{format}", s.handleExport)

		r.Get("/status", s.handleStatus)
	})
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// The page ships no scripts; styles are inline.
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// handleStatus reports session and decode-slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"sessions": s.sessions.Len(),
		"decoder":  s.limiter.Status(),
	})
}
