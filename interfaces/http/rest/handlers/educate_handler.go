package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"econbot/application/commands"
	"econbot/application/commands/bus"
	pkgerrors "econbot/pkg/errors"
	"econbot/pkg/utils"

	"go.uber.org/zap"
)

const maxRequestBodyBytes = 1 << 20

// EducateRequest is the body of POST /educate
type EducateRequest struct {
	Topic *string `json:"topic" validate:"required"`
}

// EducateHandler handles educate requests
type EducateHandler struct {
	commandBus   *bus.CommandBus
	errorHandler *pkgerrors.ErrorHandler
	timeout      time.Duration
	logger       *zap.Logger
}

// NewEducateHandler creates a new educate handler. Each request runs for at
// most timeout, whether or not the client stays connected.
func NewEducateHandler(commandBus *bus.CommandBus, errorHandler *pkgerrors.ErrorHandler, timeout time.Duration, logger *zap.Logger) *EducateHandler {
	return &EducateHandler{
		commandBus:   commandBus,
		errorHandler: errorHandler,
		timeout:      timeout,
		logger:       logger,
	}
}

// Educate handles POST /educate
func (h *EducateHandler) Educate(w http.ResponseWriter, r *http.Request) {
	var req EducateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("request body must be a JSON object with a string field 'topic'").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	// A client disconnect does not abort the pipeline; the timeout still does
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	result, err := h.commandBus.Send(ctx, commands.EducateCommand{Topic: *req.Topic})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
