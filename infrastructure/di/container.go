package di

import (
	"econbot/application/commands/bus"
	"econbot/application/ports"
	querybus "econbot/application/queries/bus"
	"econbot/infrastructure/config"
	"econbot/pkg/observability"
	"econbot/pkg/ratelimit"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	GraphStore ports.GraphStore
	// LLM is the model client, wrapped in a circuit breaker when enabled
	LLM        ports.TextGenerator
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Cache      ports.Cache
	Collector  *observability.Collector
	Tracing    *observability.TracerProvider
	// RateLimiter is nil when educate requests are not limited
	RateLimiter ratelimit.Limiter
}
