package rest

import (
	"net/http"
	"time"

	"econbot/application/commands/bus"
	querybus "econbot/application/queries/bus"
	"econbot/interfaces/http/rest/docs"
	"econbot/interfaces/http/rest/handlers"
	"econbot/interfaces/http/rest/middleware"
	pkgerrors "econbot/pkg/errors"
	"econbot/pkg/observability"
	"econbot/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options toggles the optional parts of the HTTP surface
type Options struct {
	RequestTimeout     time.Duration
	EnableCORS         bool
	CORSAllowedOrigins []string
	EnableMetrics      bool
	EnableTracing      bool
	Debug              bool
	// RateLimiter, when set, limits POST /educate per client address
	RateLimiter ratelimit.Limiter
	// LLMCircuit, when set, is reported by GET /ready
	LLMCircuit handlers.CircuitState
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	store      handlers.Pinger
	collector  *observability.Collector
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	store handlers.Pinger,
	collector *observability.Collector,
	opts Options,
	logger *zap.Logger,
) *Router {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		store:      store,
		collector:  collector,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recoverer(rt.logger))
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.EnableTracing {
		router.Use(observability.TracingMiddleware("econbot"))
	}
	if rt.opts.EnableMetrics && rt.collector != nil {
		router.Use(observability.MetricsMiddleware(rt.collector))
	}

	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.opts.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)
	healthHandler := handlers.NewHealthHandler(rt.store, rt.opts.LLMCircuit, rt.logger)
	educateHandler := handlers.NewEducateHandler(rt.commandBus, errorHandler, rt.opts.RequestTimeout, rt.logger)
	graphHandler := handlers.NewGraphHandler(rt.queryBus, errorHandler, rt.logger)

	router.Get("/", healthHandler.Root)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	if rt.opts.RateLimiter != nil {
		router.With(middleware.RateLimit(rt.opts.RateLimiter, rt.logger)).Post("/educate", educateHandler.Educate)
	} else {
		router.Post("/educate", educateHandler.Educate)
	}
	router.Get("/graph", graphHandler.GetGraph)

	router.Get("/docs", docs.UIHandler())
	if specHandler, err := docs.SpecHandler(); err != nil {
		rt.logger.Error("OpenAPI document is invalid, not serving it", zap.Error(err))
	} else {
		router.Get(docs.SpecPath, specHandler)
	}

	if rt.opts.EnableMetrics && rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	return router
}
