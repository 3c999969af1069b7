package decorators

import (
	"context"
	"time"

	"econbot/application/ports"
	"econbot/domain/core/aggregates"

	"go.uber.org/zap"
)

// InstrumentedGraphStore records write latency and outcome per backend
type InstrumentedGraphStore struct {
	next    ports.GraphStore
	backend string
	metrics ports.Metrics
	logger  *zap.Logger
}

// NewInstrumentedGraphStore wraps a store with metrics and logging
func NewInstrumentedGraphStore(next ports.GraphStore, backend string, metrics ports.Metrics, logger *zap.Logger) *InstrumentedGraphStore {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedGraphStore{
		next:    next,
		backend: backend,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *InstrumentedGraphStore) ReplaceGraph(ctx context.Context, graph *aggregates.KnowledgeGraph) error {
	start := time.Now()
	err := s.next.ReplaceGraph(ctx, graph)
	duration := time.Since(start)
	s.metrics.ObserveGraphWrite(s.backend, duration, err)

	if err != nil {
		s.logger.Error("Graph write failed",
			zap.String("backend", s.backend),
			zap.String("runID", graph.RunID()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Graph replaced",
		zap.String("backend", s.backend),
		zap.String("runID", graph.RunID()),
		zap.String("query", graph.Query().Name),
		zap.Int("terms", len(graph.Terms())),
		zap.Duration("duration", duration),
	)
	return nil
}

func (s *InstrumentedGraphStore) Snapshot(ctx context.Context) (*aggregates.KnowledgeGraph, error) {
	return s.next.Snapshot(ctx)
}

func (s *InstrumentedGraphStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedGraphStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
