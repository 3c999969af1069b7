package handlers

import (
	"context"
	"net/http"
	"time"

	"econbot/pkg/utils"

	"go.uber.org/zap"
)

// WelcomeMessage is returned by the root endpoint
const WelcomeMessage = "Welcome to the Educational Economic Chatbot API. Use /docs for API documentation."

// Pinger checks a backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// CircuitState reports the state of a circuit breaker
type CircuitState interface {
	State() string
}

// HealthHandler serves the root, liveness and readiness endpoints
type HealthHandler struct {
	store   Pinger
	circuit CircuitState
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler. circuit may be nil when the
// LLM client runs without a breaker.
func NewHealthHandler(store Pinger, circuit CircuitState, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		circuit: circuit,
		logger:  logger,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": utils.NowTimestamp(),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	body := map[string]string{"status": "ready"}
	// An open breaker is reported but does not fail readiness; it recovers
	// on its own and restarting the instance would not help
	if h.circuit != nil {
		body["llm_circuit"] = h.circuit.State()
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		body["status"] = "not ready"
		body["detail"] = err.Error()
		respondJSON(w, h.logger, http.StatusServiceUnavailable, body)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, body)
}
