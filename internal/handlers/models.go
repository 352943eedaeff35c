package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"rupped-negotiator/internal/contextutil"
)

// ModelsHandler handles model listing and pulling.
type ModelsHandler struct {
	catalog      ModelCatalog
	defaultModel string
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(catalog ModelCatalog, defaultModel string) *ModelsHandler {
	return &ModelsHandler{
		catalog:      catalog,
		defaultModel: defaultModel,
	}
}

// PullResponse is returned after a successful model pull.
type PullResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// List passes the Ollama model list through to the caller.
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tags, err := h.catalog.ListModels(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list models", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list models: %v", err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, tags)
}

// Pull downloads the model named by the model_name query parameter, or the configured model.
func (h *ModelsHandler) Pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	modelName := strings.TrimSpace(r.URL.Query().Get("model_name"))
	if modelName == "" {
		modelName = h.defaultModel
	}

	logger.InfoContext(ctx, "pulling model", "model", modelName)
	if err := h.catalog.PullModel(ctx, modelName); err != nil {
		logger.ErrorContext(ctx, "failed to pull model", "model", modelName, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to pull model: %v", err))
		return
	}

	writeJSON(ctx, w, http.StatusOK, PullResponse{
		Status:  "success",
		Message: fmt.Sprintf("Started pulling model %s", modelName),
	})
}
