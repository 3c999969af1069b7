package memory

import (
	"context"
	"sync"

	"econbot/domain/core/aggregates"
)

// GraphStore keeps the current knowledge graph in process memory.
// Used for local development and tests; contents are lost on restart.
type GraphStore struct {
	mu     sync.RWMutex
	graph  *aggregates.KnowledgeGraph
	writes int
}

// NewGraphStore creates an empty in-memory store
func NewGraphStore() *GraphStore {
	return &GraphStore{}
}

// ReplaceGraph swaps the stored graph for the given one
func (s *GraphStore) ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.graph = aggregates.RestoreKnowledgeGraph(graph.RunID(), graph.Query().Name, graph.TermNames(), graph.WrittenAt())
	s.writes++
	return nil
}

// Snapshot returns a copy of the stored graph, nil when nothing was written
func (s *GraphStore) Snapshot(ctx context.Context) (*aggregates.KnowledgeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		return nil, nil
	}
	g := s.graph
	return aggregates.RestoreKnowledgeGraph(g.RunID(), g.Query().Name, g.TermNames(), g.WrittenAt()), nil
}

// Ping always succeeds
func (s *GraphStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *GraphStore) Close(ctx context.Context) error {
	return nil
}

// Writes reports how many replaces have been applied
func (s *GraphStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
