// Package api provides the HTTP API server and handlers for the Shelfkeeper library.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfkeeper/shelfkeeper-server/internal/ratelimit"
	"github.com/shelfkeeper/shelfkeeper-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	lookupLimiter *ratelimit.KeyedRateLimiter
	lookupRate    float64
}

// Options tunes the router. The zero value is usable.
type Options struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string

	// LookupRateLimit caps ISBN lookups per minute per client IP. Zero disables it.
	LookupRateLimit float64
	LookupBurst     int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:    st,
		services: services,
		router:   router,
		logger:   logger,

		lookupLimiter: ratelimit.New(opts.LookupRateLimit, opts.LookupBurst, limiterIdleTTL),
		lookupRate:    opts.LookupRateLimit,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Shelfkeeper API", "1.0.0")
	humaConfig.Info.Description = "Personal library catalogue"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	router.NotFound(s.notFound)
	router.MethodNotAllowed(s.methodNotAllowed)

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the router.
func (s *Server) Close() {
	s.lookupLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerModeRoutes()
	s.registerBookRoutes()
	s.registerLookupRoutes()
	s.registerAuditRoutes()
}
