package handlers

import (
	"context"
	"fmt"

	"econbot/application/ports"
	"econbot/application/queries"
	"econbot/domain/core/aggregates"
	"go.uber.org/zap"
)

// GetGraphHandler handles knowledge graph snapshot queries
type GetGraphHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewGetGraphHandler creates a new graph snapshot handler
func NewGetGraphHandler(store ports.GraphStore, logger *zap.Logger) *GetGraphHandler {
	return &GetGraphHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the graph snapshot query
func (h *GetGraphHandler) Handle(ctx context.Context, query queries.GetGraphQuery) (*queries.GetGraphResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	graph, err := h.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph snapshot: %w", err)
	}

	result := &queries.GetGraphResult{
		Nodes: []queries.GraphNode{},
		Links: []queries.GraphLink{},
	}
	if graph == nil {
		h.logger.Debug("Graph store is empty")
		return result, nil
	}

	writtenAt := graph.WrittenAt()
	result.Query = graph.Query().Name
	result.RunID = graph.RunID()
	if !writtenAt.IsZero() {
		result.WrittenAt = &writtenAt
	}

	for _, node := range graph.Nodes() {
		size := queries.TermNodeSize
		if node.Label == aggregates.LabelQuery {
			size = queries.QueryNodeSize
		}
		result.Nodes = append(result.Nodes, queries.GraphNode{
			ID:    queries.NodeID(node.Label, node.Name),
			Name:  node.Name,
			Label: node.Label,
			Size:  size,
		})
	}

	for _, edge := range graph.Edges() {
		result.Links = append(result.Links, queries.GraphLink{
			Source: queries.NodeID(aggregates.LabelQuery, edge.Source),
			Target: queries.NodeID(aggregates.LabelTerm, edge.Target),
			Type:   edge.Type,
		})
	}

	result.Stats = queries.GraphStats{
		NodeCount: len(result.Nodes),
		EdgeCount: len(result.Links),
	}

	return result, nil
}
