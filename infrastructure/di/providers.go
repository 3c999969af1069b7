package di

import (
	"context"
	"fmt"
	"time"

	"econbot/application/commands"
	"econbot/application/commands/bus"
	commands_handlers "econbot/application/commands/handlers"
	"econbot/application/ports"
	"econbot/application/queries"
	querybus "econbot/application/queries/bus"
	queries_handlers "econbot/application/queries/handlers"
	"econbot/application/services"
	domainconfig "econbot/domain/config"
	"econbot/infrastructure/config"
	"econbot/infrastructure/llm"
	"econbot/infrastructure/persistence/decorators"
	"econbot/infrastructure/persistence/dynamodb"
	"econbot/infrastructure/persistence/memory"
	"econbot/infrastructure/persistence/neo4j"
	"econbot/pkg/observability"
	"econbot/pkg/ratelimit"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Graph snapshots are invalidated on every write, so the TTL only bounds staleness
// when another process writes
const graphSnapshotTTL = 30 // seconds

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideDomainConfig applies runtime overrides to the educator defaults
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	dc := domainconfig.DefaultDomainConfig()
	dc.ExplanationTemperature = cfg.ExplanationTemperature
	dc.TermsTemperature = cfg.TermsTemperature
	dc.MaxTokens = cfg.MaxTokens
	return dc
}

// ProvideMetricsCollector creates the Prometheus collector
func ProvideMetricsCollector() *observability.Collector {
	return observability.NewCollector("econbot")
}

// ProvideMetrics exposes the collector to the application when metrics are enabled
func ProvideMetrics(collector *observability.Collector, cfg *config.Config) ports.Metrics {
	if !cfg.EnableMetrics {
		return ports.NopMetrics{}
	}
	return collector
}

// ProvideTracerProvider installs the OTLP exporter when tracing is enabled
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "econbot",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTextGenerator creates the LLM client, optionally behind a circuit breaker
func ProvideTextGenerator(cfg *config.Config, logger *zap.Logger) (ports.TextGenerator, error) {
	gen, err := llm.NewOpenAIGenerator(llm.OpenAIConfig{
		APIKey:       cfg.OpenAIAPIKey,
		Organization: cfg.OpenAIOrganization,
		Model:        cfg.OpenAIModel,
		BaseURL:      cfg.OpenAIBaseURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.LLMCircuitBreaker {
		return gen, nil
	}
	return llm.NewBreakerGenerator(gen, llm.DefaultCircuitBreakerConfig("openai"), logger), nil
}

// ProvideGraphStore creates the configured graph backend, instrumented and
// with writes serialized
func ProvideGraphStore(ctx context.Context, cfg *config.Config, metrics ports.Metrics, logger *zap.Logger) (ports.GraphStore, func(), error) {
	var store ports.GraphStore

	switch cfg.GraphBackend {
	case config.GraphBackendNeo4j:
		s, err := neo4j.NewGraphStore(ctx, neo4j.Config{
			URI:                     cfg.Neo4jURI,
			Username:                cfg.Neo4jUser,
			Password:                cfg.Neo4jPassword,
			Database:                cfg.Neo4jDatabase,
			MaxConnectionPoolSize:   50,
			ConnectionTimeout:       30 * time.Second,
			MaxTransactionRetryTime: 30 * time.Second,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		store = s

	case config.GraphBackendDynamoDB:
		client, err := ProvideDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store = dynamodb.NewGraphStore(client, cfg.DynamoDBTable, dynamodb.GraphStoreOptions{
			LockDuration: cfg.RequestTimeout,
		}, logger)

	case config.GraphBackendMemory:
		store = memory.NewGraphStore()

	default:
		return nil, nil, fmt.Errorf("unknown graph backend %q", cfg.GraphBackend)
	}

	store = decorators.NewSerializedGraphStore(
		decorators.NewInstrumentedGraphStore(store, cfg.GraphBackend, metrics, logger),
	)

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("Graph store close failed", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(ctx context.Context, cfg *config.Config) (*awsdynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

// ProvideRateLimiter creates the educate rate limiter. Lambda deployments on
// the DynamoDB backend count in the graph table so the limit spans instances.
func ProvideRateLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RateLimitPerMinute <= 0 {
		return nil, nil
	}

	if cfg.IsLambda && cfg.GraphBackend == config.GraphBackendDynamoDB {
		client, err := ProvideDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return ratelimit.NewIPRateLimiter(
			ratelimit.NewDistributedLimiter(client, cfg.DynamoDBTable, cfg.RateLimitPerMinute, time.Minute),
		), nil
	}

	return ratelimit.NewIPRateLimiter(ratelimit.NewSlidingWindowLimiter(cfg.RateLimitPerMinute, time.Minute)), nil
}

// ProvideInMemoryCache creates a simple in-memory cache
func ProvideInMemoryCache() (ports.Cache, func()) {
	cache := NewInMemoryCache(time.Minute)
	return cache, cache.Stop
}

// ProvideExplanationGenerator creates the explanation service
func ProvideExplanationGenerator(gen ports.TextGenerator, dc *domainconfig.DomainConfig, metrics ports.Metrics, logger *zap.Logger) *services.ExplanationGenerator {
	return services.NewExplanationGenerator(gen, dc, metrics, logger)
}

// ProvideTermExtractor creates the term extraction service
func ProvideTermExtractor(gen ports.TextGenerator, dc *domainconfig.DomainConfig, metrics ports.Metrics, logger *zap.Logger) *services.TermExtractor {
	return services.NewTermExtractor(gen, dc, metrics, logger)
}

// ProvideEducateOrchestrator creates the educate command handler
func ProvideEducateOrchestrator(
	explainer *services.ExplanationGenerator,
	terms *services.TermExtractor,
	store ports.GraphStore,
	cache ports.Cache,
	metrics ports.Metrics,
	logger *zap.Logger,
) *commands_handlers.EducateOrchestrator {
	return commands_handlers.NewEducateOrchestrator(explainer, terms, store, cache, metrics, &zapLoggerAdapter{logger})
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(orchestrator *commands_handlers.EducateOrchestrator, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(&zapLoggerAdapter{logger}))

	err := commandBus.Register(commands.EducateCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			educateCmd, ok := cmd.(commands.EducateCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return orchestrator.Handle(ctx, educateCmd)
		},
	))
	if err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(store ports.GraphStore, cache ports.Cache, logger *zap.Logger) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	getGraphHandler := queries_handlers.NewGetGraphHandler(store, logger)
	caching := querybus.NewCachingMiddleware(cache, graphSnapshotTTL, func(querybus.Query) string {
		return ports.GraphSnapshotCacheKey
	})

	err := queryBus.Register(queries.GetGraphQuery{}, caching.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			graphQuery, ok := query.(queries.GetGraphQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return getGraphHandler.Handle(ctx, graphQuery)
		},
	)))
	if err != nil {
		return nil, err
	}

	return queryBus, nil
}

// zapLoggerAdapter adapts zap.Logger to the key-value Logger interfaces
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Debug(msg string, fields ...interface{}) {
	a.logger.Debug(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		if err, ok := fields[i+1].(error); ok {
			zapFields = append(zapFields, zap.NamedError(key, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(key, fields[i+1]))
	}
	return zapFields
}
