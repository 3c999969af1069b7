package handlers

import (
	"context"
	"time"

	"econbot/application/commands"
	"econbot/application/ports"
	"econbot/domain/core/aggregates"
	"econbot/domain/core/valueobjects"
	pkgerrors "econbot/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger interface for flexible logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Explainer produces an explanation for a topic
type Explainer interface {
	Explain(ctx context.Context, topic valueobjects.Topic) (string, error)
}

// TermSource produces the related terms for a topic
type TermSource interface {
	Extract(ctx context.Context, topic valueobjects.Topic) (valueobjects.TermList, error)
}

// EducateOrchestrator runs one educate request end to end: explanation,
// term extraction, then a full replace of the knowledge graph.
type EducateOrchestrator struct {
	explainer Explainer
	terms     TermSource
	store     ports.GraphStore
	cache     ports.Cache
	metrics   ports.Metrics
	tracer    trace.Tracer
	logger    Logger
}

// NewEducateOrchestrator creates a new orchestrator instance
func NewEducateOrchestrator(
	explainer Explainer,
	terms TermSource,
	store ports.GraphStore,
	cache ports.Cache,
	metrics ports.Metrics,
	logger Logger,
) *EducateOrchestrator {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &EducateOrchestrator{
		explainer: explainer,
		terms:     terms,
		store:     store,
		cache:     cache,
		metrics:   metrics,
		tracer:    otel.Tracer("econbot/educate"),
		logger:    logger,
	}
}

// Handle runs the steps in order and stops at the first failure.
// Every failure comes back as a single internal error carrying the original
// message; nothing already committed to the graph store is undone.
func (o *EducateOrchestrator) Handle(ctx context.Context, cmd commands.EducateCommand) (*commands.EducateResult, error) {
	topic := valueobjects.NewTopic(cmd.Topic)

	ctx, span := o.tracer.Start(ctx, "educate", trace.WithAttributes(
		attribute.String("educate.topic", topic.String()),
	))
	defer span.End()

	start := time.Now()
	result, err := o.run(ctx, topic)
	o.metrics.ObserveEducate(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error("Educate request failed",
			"topic", topic.String(),
			"error", err,
		)
		return nil, pkgerrors.Collapse(err)
	}

	o.logger.Info("Educate request completed",
		"topic", topic.String(),
		"terms", len(result.Terms),
		"duration", time.Since(start),
	)

	return result, nil
}

func (o *EducateOrchestrator) run(ctx context.Context, topic valueobjects.Topic) (*commands.EducateResult, error) {
	// Step 1: explanation
	var explanation string
	err := o.step(ctx, "educate.explain", func(ctx context.Context) error {
		var err error
		explanation, err = o.explainer.Explain(ctx, topic)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Step 2: terms, independent of the explanation text
	var terms valueobjects.TermList
	err = o.step(ctx, "educate.extract_terms", func(ctx context.Context) error {
		var err error
		terms, err = o.terms.Extract(ctx, topic)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Step 3: replace the stored graph
	graph := aggregates.NewKnowledgeGraph(topic, terms)
	err = o.step(ctx, "educate.replace_graph", func(ctx context.Context) error {
		return o.store.ReplaceGraph(ctx, graph)
	})
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.Delete(ctx, ports.GraphSnapshotCacheKey); err != nil {
			o.logger.Debug("Failed to invalidate graph snapshot cache", "error", err)
		}
	}

	o.logger.Debug("Knowledge graph replaced",
		"runID", graph.RunID(),
		"query", graph.Query().Name,
		"termNodes", len(graph.Terms()),
	)

	return &commands.EducateResult{
		Explanation: explanation,
		Terms:       terms.Strings(),
	}, nil
}

// step runs fn inside a child span
func (o *EducateOrchestrator) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
