//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"econbot/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetricsCollector,
	ProvideMetrics,
	ProvideTracerProvider,
	ProvideTextGenerator,
	ProvideGraphStore,
	ProvideInMemoryCache,
	ProvideRateLimiter,
	ProvideExplanationGenerator,
	ProvideTermExtractor,
	ProvideEducateOrchestrator,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
