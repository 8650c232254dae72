// Package api provides the HTTP API server and handlers for the Sanctuary application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sanctuaryapp/sanctuary-server/internal/ratelimit"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
	"github.com/sanctuaryapp/sanctuary-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         *store.Store
	services      *Services
	sseHandler    *sse.Handler
	sseManager    *sse.Manager
	validator     *validation.Validator
	importLimiter *ratelimit.KeyedRateLimiter
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, sseHandler *sse.Handler, sseManager *sse.Manager, importLimiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		store:         st,
		services:      services,
		sseHandler:    sseHandler,
		sseManager:    sseManager,
		validator:     validation.New(),
		importLimiter: importLimiter,
		router:        chi.NewRouter(),
		logger:        logger,
	}

	s.setupMiddleware()

	s.api = humachi.New(s.router, huma.DefaultConfig("Sanctuary API", "1.0.0"))
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerShelfRoutes()
	s.registerReaderRoutes()
	s.registerHabitRoutes()
	s.registerSearchRoutes()

	// SSE stream uses chi directly; huma buffers responses.
	s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
}
