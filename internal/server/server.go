package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Jokero/webpack.js.org/internal/logging"
	"github.com/Jokero/webpack.js.org/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server serves the documentation site over HTTP.
type Server struct {
	cfg        Config
	site       *site.Site
	sessions   *site.Sessions
	renderer   *site.Renderer
	metrics    *Metrics
	hub        *Hub
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. hub may be nil when live reload is off.
func New(cfg Config, s *site.Site, sessions *site.Sessions, renderer *site.Renderer, metrics *Metrics, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		cfg:      cfg,
		site:     s,
		sessions: sessions,
		renderer: renderer,
		metrics:  metrics,
		hub:      hub,
		logger:   logger,
	}
	srv.router = srv.buildRouter()
	return srv
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Long-lived connections stay outside the request timeout.
	if s.hub != nil {
		r.Handle("/ws/reload", s.hub)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		if s.metrics != nil {
			r.Handle("/metrics", s.metrics.Handler())
		}

		RegisterRoutes(r, s)
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("docsite server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// ReloadContent re-reads the content tree and tells open pages to refresh.
// When the new tree is invalid the previous one keeps serving.
func (s *Server) ReloadContent() error {
	err := s.site.Source().Reload()
	if s.metrics != nil {
		s.metrics.ReloadResult(err)
	}
	if err != nil {
		s.logger.Error("content reload failed", zap.Error(err))
		return fmt.Errorf("reloading content: %w", err)
	}
	s.logger.Info("content reloaded", zap.String("path", s.site.Source().Path()))
	if s.hub != nil {
		s.hub.Broadcast(ReloadMessage)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
