// Package rest exposes navigation sessions over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"brainstorm/application/commands/bus"
	querybus "brainstorm/application/queries/bus"
	"brainstorm/interfaces/http/rest/handlers"
	"brainstorm/interfaces/http/rest/middleware"
	"brainstorm/pkg/auth"
	"brainstorm/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Options tunes the router
type Options struct {
	Auth               middleware.AuthConfig
	RateLimitPerMinute int
	EnableCORS         bool
	AllowedOrigins     []string
	// Metrics receives per-route request metrics; MetricsHandler serves /metrics
	Metrics        middleware.RequestRecorder
	MetricsHandler http.Handler
	// Tracing wraps every request, typically in an X-Ray segment
	Tracing func(http.Handler) http.Handler
	Ready   ReadinessCheck
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	opts       Options
	limiter    *auth.TokenBucketLimiter
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	opts Options,
	logger *zap.Logger,
) *Router {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 600
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		opts:       opts,
		limiter:    auth.NewTokenBucketLimiter(opts.RateLimitPerMinute, opts.RateLimitPerMinute),
		logger:     logger,
	}
}

// Limiter exposes the request limiter so idle buckets can be pruned
func (rt *Router) Limiter() *auth.TokenBucketLimiter {
	return rt.limiter
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	if rt.opts.Tracing != nil {
		router.Use(rt.opts.Tracing)
	}
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Metrics != nil {
		router.Use(middleware.Metrics(rt.opts.Metrics))
	}

	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.SessionHeader},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.opts.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.MetricsHandler)
	}

	threadHandler := handlers.NewThreadHandler(rt.commandBus, rt.queryBus, rt.logger)
	layoutHandler := handlers.NewLayoutHandler(rt.commandBus, rt.queryBus, rt.logger)
	nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.logger)
	edgeHandler := handlers.NewEdgeHandler(rt.commandBus, rt.logger)
	sessionHandler := handlers.NewSessionHandler(rt.commandBus, rt.logger)

	router.Route("/api/v2", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.opts.Auth, rt.logger))
		r.Use(middleware.RateLimit(rt.limiter, rt.opts.RateLimitPerMinute, rt.logger))

		r.Post("/sessions", sessionHandler.CreateSession)
		r.Get("/nodes/{nodeID}", nodeHandler.GetNode)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Delete("/sessions", sessionHandler.EndSession)

			r.Route("/threads", func(r chi.Router) {
				r.Get("/", threadHandler.GetQueue)
				r.Delete("/", threadHandler.ClearThread)
				r.Post("/continue", threadHandler.ContinueThread)
				r.Get("/{nodeID}", threadHandler.GetThread)
			})
			r.Get("/feed", threadHandler.GetFeed)

			r.Route("/layouts", func(r chi.Router) {
				r.Get("/{nodeID}", layoutHandler.GetLayout)
				r.Delete("/", layoutHandler.CloseLayout)
			})
			r.Route("/viewport", func(r chi.Router) {
				r.Put("/", layoutHandler.SubmitCamera)
				r.Get("/visible", layoutHandler.GetVisible)
			})

			// Flat so GET /nodes/{nodeID} above stays reachable without a session
			r.Post("/nodes", nodeHandler.CreatePost)
			r.Delete("/nodes/{nodeID}", nodeHandler.DeleteNode)
			r.Get("/nodes/{nodeID}/soft-links", nodeHandler.GetSoftLinks)
			r.Get("/nodes/{nodeID}/neighbors", nodeHandler.GetNeighbors)
			r.Post("/nodes/{nodeID}/interactions", nodeHandler.RecordInteraction)

			r.Route("/edges", func(r chi.Router) {
				r.Post("/", edgeHandler.CreateEdge)
				r.Delete("/{edgeID}", edgeHandler.DeleteEdge)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	if rt.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.opts.Ready(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			common.RespondError(w, http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable")
			return
		}
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
