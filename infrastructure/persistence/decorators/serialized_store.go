package decorators

import (
	"context"
	"sync"

	"econbot/application/ports"
	"econbot/domain/core/aggregates"
)

// SerializedGraphStore lets only one ReplaceGraph run at a time in this
// process, so the wipe and the inserts of two requests never interleave.
type SerializedGraphStore struct {
	next ports.GraphStore
	mu   sync.Mutex
}

// NewSerializedGraphStore wraps a store with a write mutex
func NewSerializedGraphStore(next ports.GraphStore) *SerializedGraphStore {
	return &SerializedGraphStore{next: next}
}

// ReplaceGraph waits for any in-flight write, then delegates
func (s *SerializedGraphStore) ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.next.ReplaceGraph(ctx, graph)
}

func (s *SerializedGraphStore) Snapshot(ctx context.Context) (*aggregates.KnowledgeGraph, error) {
	return s.next.Snapshot(ctx)
}

func (s *SerializedGraphStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *SerializedGraphStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
