package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers map[reflect.Type]QueryHandler
	mu       sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus() *QueryBus {
	return &QueryBus{
		handlers: make(map[reflect.Type]QueryHandler),
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	// Validate query
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no handler registered for query type %T", query)
	}

	// Execute handler
	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query handler failed: %w", err)
	}

	return result, nil
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// CachingMiddleware adds caching to query handlers
type CachingMiddleware struct {
	cache Cache
	ttl   int // TTL in seconds
	key   func(Query) string
}

// NewCachingMiddleware creates a new caching middleware. A nil key function
// derives the key from the query's type and fields.
func NewCachingMiddleware(cache Cache, ttl int, key func(Query) string) *CachingMiddleware {
	if key == nil {
		key = func(query Query) string {
			return fmt.Sprintf("%T:%+v", query, query)
		}
	}
	return &CachingMiddleware{
		cache: cache,
		ttl:   ttl,
		key:   key,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		cacheKey := m.key(query)
		version := m.cache.Version(ctx, cacheKey)

		// Check cache
		if cached, found := m.cache.Get(ctx, cacheKey); found {
			return cached, nil
		}

		// Execute query
		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// Skipped when the key was invalidated while the handler ran, since
		// the result may predate that write. A failed set only costs a miss.
		_, _ = m.cache.SetIfVersion(ctx, cacheKey, result, m.ttl, version)

		return result, nil
	})
}

// Cache interface for caching. Version must change whenever key is
// invalidated so results computed across an invalidation are not stored.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Version(ctx context.Context, key string) uint64
	SetIfVersion(ctx context.Context, key string, value interface{}, ttl int, version uint64) (bool, error)
}
