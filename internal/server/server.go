package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	v1 "github.com/staffhub/staffhub/internal/api/v1"
	"github.com/staffhub/staffhub/internal/api/ws"
	"github.com/staffhub/staffhub/internal/audit"
	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/config"
	"github.com/staffhub/staffhub/internal/metrics"
	"github.com/staffhub/staffhub/internal/notify"
	"github.com/staffhub/staffhub/internal/server/middleware"
	"github.com/staffhub/staffhub/internal/store/postgres"
	redisstore "github.com/staffhub/staffhub/internal/store/redis"
)

// Deps carries the collaborators the server wires into its routes.
type Deps struct {
	Store    *postgres.Store
	Auth     *auth.Service
	Recorder *audit.Recorder
	Reverter *audit.Engine
	Hub      *ws.Hub
	Cache    *redisstore.Cache
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	deps       Deps
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds the lifetime of the
// rate limiter cleanup goroutines.
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(deps.Metrics.Middleware)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		deps:   deps,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for the auth endpoints, rate limited by IP.
	// 2. Authenticated group for everything else, rate limited by principal.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 5, 10))

			authConfig := huma.DefaultConfig("StaffHub Auth API", "1.0.0")
			authConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			authAPI := humachi.New(r, authConfig)
			registerAuthRoutes(authAPI, deps)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.SourceAddr())
			r.Use(middleware.RateLimit(ctx, 100, 200))

			apiConfig := huma.DefaultConfig("StaffHub API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)
			registerAPIRoutes(api, deps)
		})
	})

	// WebSocket routes.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		registerWSRoutes(r, deps.Hub)
	})

	// Attachment uploads are chi-native multipart handlers, gated by the
	// same middleware chain as the JSON API.
	router.Route("/uploads", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		r.With(middleware.RequirePermission(auth.ResourceCandidates, auth.ActionWrite)).
			Post("/", v1.UploadHandler(cfg.Uploads.Dir))
		r.With(middleware.RequirePermission(auth.ResourceCandidates, auth.ActionRead)).
			Get("/{name}", v1.ServeUploadHandler(cfg.Uploads.Dir))
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus scrape endpoint (unauthenticated).
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
