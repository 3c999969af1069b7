package handlers

import (
	"net/http"

	"econbot/application/queries"
	querybus "econbot/application/queries/bus"
	pkgerrors "econbot/pkg/errors"

	"go.uber.org/zap"
)

// GraphHandler serves the stored knowledge graph
type GraphHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphQuery{})
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.Collapse(err))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
