package ports

import (
	"context"
	"time"

	"econbot/domain/core/aggregates"
)

// GenerationRequest is a single prompt sent to a text generation backend
type GenerationRequest struct {
	// Step names the pipeline step issuing the call (for metrics and logs)
	Step         string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// Generation is the text returned by a text generation backend
type Generation struct {
	Text string
}

// TextGenerator is the one LLM capability the application needs.
// Providers are swapped behind it without touching orchestration.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (Generation, error)
}

// GraphStore persists the knowledge graph for the most recent topic.
// This is a port in hexagonal architecture - the application doesn't know about the implementation
type GraphStore interface {
	// ReplaceGraph wipes the store and writes the given graph in one transaction
	ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error

	// Snapshot reads back the current graph; nil when the store is empty
	Snapshot(ctx context.Context) (*aggregates.KnowledgeGraph, error)

	// Ping checks connectivity to the backing store
	Ping(ctx context.Context) error

	// Close releases connections held by the store
	Close(ctx context.Context) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache and invalidates readers that
	// captured an earlier Version
	Delete(ctx context.Context, key string) error

	// Version returns the invalidation counter of key
	Version(ctx context.Context, key string) uint64

	// SetIfVersion stores value only while key is still at version
	SetIfVersion(ctx context.Context, key string, value interface{}, ttl int, version uint64) (bool, error)
}

// Metrics records application-level measurements
type Metrics interface {
	ObserveLLMCall(step string, duration time.Duration, err error)
	ObserveGraphWrite(backend string, duration time.Duration, err error)
	ObserveTerms(count int)
	ObserveEducate(duration time.Duration, err error)
}

// NopMetrics discards all measurements
type NopMetrics struct{}

func (NopMetrics) ObserveLLMCall(string, time.Duration, error)    {}
func (NopMetrics) ObserveGraphWrite(string, time.Duration, error) {}
func (NopMetrics) ObserveTerms(int)                               {}
func (NopMetrics) ObserveEducate(time.Duration, error)            {}

// GraphSnapshotCacheKey is the cache entry holding the last graph snapshot
const GraphSnapshotCacheKey = "graph:snapshot"
