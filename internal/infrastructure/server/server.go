// Package server exposes the search and suggestion flows over HTTP.
//
// Each client works in a session created with POST /api/sessions. Searches
// and view changes are plain JSON requests; suggestions stream over a
// WebSocket so the per-session debounce can push results as they arrive.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/infrastructure/config"
	"github.com/ersonp/placefolk/internal/infrastructure/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	cfg      config.ServerConfig
	search   *handlers.SearchHandler
	suggest  *handlers.SuggestHandler
	sessions *Sessions
	metrics  *metrics.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a server. reg may be nil, in which case /metrics is not served.
func New(
	cfg config.ServerConfig,
	search *handlers.SearchHandler,
	suggest *handlers.SuggestHandler,
	sessions *Sessions,
	reg *metrics.Registry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		search:   search,
		suggest:  suggest,
		sessions: sessions,
		metrics:  reg,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(_ *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/sessions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(s.cfg.RequestTimeout))
			}
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/search", s.handleSearch)
			r.Post("/{id}/sort", s.handleSort)
			r.Post("/{id}/profession", s.handleProfession)
			r.Post("/{id}/more", s.handleMore)
			r.Get("/{id}/share", s.handleShare)
		})
		r.Get("/{id}/suggest", s.handleSuggest)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
