package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"rupped-negotiator/internal/contextutil"
	"rupped-negotiator/internal/negotiation"
	"rupped-negotiator/internal/service"
)

// NegotiateHandler handles HTTP requests for price negotiation.
type NegotiateHandler struct {
	negotiationService service.NegotiationService
}

// NewNegotiateHandler creates a new NegotiateHandler.
func NewNegotiateHandler(negotiationService service.NegotiationService) *NegotiateHandler {
	return &NegotiateHandler{
		negotiationService: negotiationService,
	}
}

// MessagePayload is one conversation turn as sent by the storefront.
type MessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NegotiateRequest represents the HTTP request payload shared by all negotiation endpoints.
//
// swagger:model NegotiateRequest
type NegotiateRequest struct {
	Messages    []MessagePayload `json:"messages"`
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	ListPrice   float64          `json:"listPrice"`
}

// NegotiateResponse represents a buffered negotiation reply.
//
// swagger:model NegotiateResponse
type NegotiateResponse struct {
	Text string `json:"text"`
}

func (req NegotiateRequest) toService() service.NegotiationRequest {
	messages := make([]negotiation.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = negotiation.Message{Role: negotiation.Role(m.Role), Content: m.Content}
	}
	return service.NegotiationRequest{
		Messages: messages,
		Product: negotiation.Context{
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			ListPrice:   req.ListPrice,
		},
	}
}

func decodeNegotiateRequest(r *http.Request) (NegotiateRequest, error) {
	var req NegotiateRequest
	if r.Body == nil {
		return req, fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// Stream relays the negotiation as Server-Sent Events, one event per complete sentence.
//
// swagger:route POST /api/negotiate negotiate streamNegotiate
//
// Streams the assistant reply sentence by sentence.
//
// ---
// produces:
// - text/event-stream
// responses:
//
//	'200':
//	  description: Stream of "data: <sentence>" events, closed when the reply ends
//	'400':
//	  description: Invalid request body
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *NegotiateHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	req, err := decodeNegotiateRequest(r)
	if err != nil {
		logger.WarnContext(ctx, "invalid request body for streaming", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Create a flusher to send data immediately
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	events, err := h.negotiationService.StreamNegotiate(ctx, req.toService())
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process negotiation")
		return
	}

	// Set up Server-Sent Events headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		if err := writeSSE(w, ev.Text); err != nil {
			// Returning cancels the request context, which stops the producer.
			logger.WarnContext(ctx, "client write failed, abandoning stream", "error", err)
			return
		}
		flusher.Flush()
	}
}

// writeSSE writes text as one event, splitting embedded newlines into data lines.
func writeSSE(w http.ResponseWriter, text string) error {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("data: ")
		b.WriteString(strings.TrimSuffix(line, "\r"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	_, err := fmt.Fprint(w, b.String())
	return err
}

// Buffered relays the negotiation and returns the whole reply.
//
// swagger:route POST /api/negotiate/non-streaming negotiate bufferedNegotiate
//
// Returns the assistant reply in one piece.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  schema:
//	    "$ref": "#/definitions/NegotiateResponse"
//	'502':
//	  description: LLM returned an error status
//	'503':
//	  description: LLM unreachable or timed out
func (h *NegotiateHandler) Buffered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	req, err := decodeNegotiateRequest(r)
	if err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.negotiationService.Negotiate(ctx, req.toService())
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process negotiation")
		return
	}

	writeJSON(ctx, w, http.StatusOK, NegotiateResponse{Text: resp.Text})
}

// Mock answers with the rule-based calculator, without contacting the LLM.
func (h *NegotiateHandler) Mock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	req, err := decodeNegotiateRequest(r)
	if err != nil {
		logger.WarnContext(ctx, "invalid request body for mock", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.negotiationService.MockNegotiate(ctx, req.toService())
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process negotiation")
		return
	}

	writeJSON(ctx, w, http.StatusOK, NegotiateResponse{Text: resp.Text})
}
