package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rupped-negotiator/internal/contextutil"
	"rupped-negotiator/internal/llm"
)

// ModelCatalog is the part of the Ollama client used for health and model management.
type ModelCatalog interface {
	ListModels(ctx context.Context) (*llm.TagsResponse, error)
	IsModelAvailable(ctx context.Context, modelName string) (bool, error)
	PullModel(ctx context.Context, modelName string) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	catalog            ModelCatalog
	modelName          string
	healthCheckTimeout time.Duration
	now                func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(catalog ModelCatalog, modelName string, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{
		catalog:            catalog,
		modelName:          modelName,
		healthCheckTimeout: timeout,
		now:                time.Now,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Ollama connectivity: "connected" or "disconnected"
	Ollama string `json:"ollama"`

	// Configured model state: "available" or "not found" (omitted when Ollama is unreachable)
	Model string `json:"model,omitempty"`

	// Hint for the operator when degraded
	Message string `json:"message,omitempty"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// The service itself is up whenever it answers, so the status code is always 200;
// the body reports whether Ollama and the configured model are usable.
//
// swagger:route GET /health healthCheck
//
// # Health check endpoint
//
// Returns the health status of the backend and its Ollama dependency.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Health report
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Ollama:    "connected",
		Model:     "available",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}

	available, err := h.catalog.IsModelAvailable(checkCtx, h.modelName)
	var statusErr *llm.StatusError
	switch {
	case errors.As(err, &statusErr):
		logger.WarnContext(ctx, "ollama failed to list models", "error", err)
		response.Status = "degraded"
		response.Model = ""
		response.Message = "Failed to list models"
	case err != nil:
		logger.WarnContext(ctx, "ollama health check failed", "error", err)
		response.Status = "degraded"
		response.Ollama = "disconnected"
		response.Model = ""
		response.Message = "Ollama not available. Make sure Ollama is running with 'ollama serve'"
	case !available:
		response.Status = "degraded"
		response.Model = "not found"
		response.Message = fmt.Sprintf("Model %s not found. Run 'ollama pull %s'", h.modelName, h.modelName)
	}

	writeJSON(ctx, w, http.StatusOK, response)
}

// RootResponse is returned by the banner endpoint.
type RootResponse struct {
	Message string `json:"message"`
}

// Root answers GET / so the storefront can tell the backend is running.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, RootResponse{
		Message: "Rupped AI Negotiation API is running.",
	})
}
