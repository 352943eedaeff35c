package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rupped-negotiator/internal/contextutil"
	"rupped-negotiator/internal/storage"
)

// maxTranscriptLimit caps the limit query parameter.
const maxTranscriptLimit = 100

// TranscriptsHandler serves the stored negotiation history of a product.
type TranscriptsHandler struct {
	store storage.TranscriptStore
}

// NewTranscriptsHandler creates a new TranscriptsHandler.
func NewTranscriptsHandler(store storage.TranscriptStore) *TranscriptsHandler {
	return &TranscriptsHandler{store: store}
}

// TranscriptResponse is one stored exchange.
type TranscriptResponse struct {
	ID              string  `json:"id"`
	RequestID       string  `json:"requestId,omitempty"`
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ListPrice       float64 `json:"listPrice"`
	Mode            string  `json:"mode"`
	CustomerMessage string  `json:"customerMessage"`
	Reply           string  `json:"reply"`
	CreatedAt       string  `json:"createdAt"`
}

// ServeHTTP lists the newest transcripts for the productId URL parameter.
func (h *TranscriptsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	productID := chi.URLParam(r, "productId")

	limit := storage.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxTranscriptLimit)
	}

	records, err := h.store.ListByProduct(ctx, productID, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list transcripts", "product_id", productID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list transcripts")
		return
	}

	out := make([]TranscriptResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, TranscriptResponse{
			ID:              rec.ID,
			RequestID:       rec.RequestID,
			ProductID:       rec.ProductID,
			ProductName:     rec.ProductName,
			ListPrice:       rec.ListPrice,
			Mode:            string(rec.Mode),
			CustomerMessage: rec.CustomerMessage,
			Reply:           rec.Reply,
			CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(ctx, w, http.StatusOK, out)
}
