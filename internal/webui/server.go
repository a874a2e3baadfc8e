// Package webui serves the local browser dashboard: an upload form, a results
// page, and the history list. It is presentation glue over the gateway, the
// results loader, and the history store — all data comes from those layers
// and the pages only render it.
package webui

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
	"github.com/smefin/finhealth/internal/results"
)

// Loader is the slice of *results.Loader the pages use. Tests inject a stub.
type Loader interface {
	Load(ctx context.Context, id string) (results.ResultSet, error)
	Submit(ctx context.Context, p gateway.CreateParams) (gateway.Assessment, error)
}

// HealthChecker is the slice of *gateway.Client the dashboard uses to proxy
// the backend health probe.
type HealthChecker interface {
	Health(ctx context.Context) (map[string]any, error)
}

// Config holds the few values the dashboard needs beyond its dependencies.
type Config struct {
	// Lang is the default report language pre-selected on the upload form.
	Lang string
}

// Server holds all shared dependencies. Handler files attach methods to this
// type and use only the fields they need.
type Server struct {
	loader  Loader
	backend HealthChecker
	history history.Store
	cfg     Config
	logger  *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(loader Loader, backend HealthChecker, hist history.Store, cfg Config, logger *slog.Logger) http.Handler {
	s := &Server{
		loader:  loader,
		backend: backend,
		history: hist,
		cfg:     cfg,
		logger:  logger,
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		// The dashboard binds to loopback; permissive CORS lets local tooling
		// hit the JSON endpoints without a proxy.
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	// Submissions run the backend scoring pipeline synchronously, so the
	// request budget here must exceed the gateway's HTTP timeout.
	r.Use(middleware.Timeout(2 * time.Minute))

	// ── Pages ─────────────────────────────────────────────────────────────────
	r.Get("/", s.handleUploadForm)
	r.Post("/assess", s.handleSubmit)
	r.Get("/assessments/{id}", s.handleResults)
	r.Get("/history", s.handleHistory)
	r.Post("/history/clear", s.handleClearHistory)

	// ── JSON endpoints ────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/backend-health", s.handleBackendHealth)

	return r
}

// ─── LOGGER MIDDLEWARE ────────────────────────────────────────────────────────

// loggerMiddleware logs each request with method, path, status, and duration.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
