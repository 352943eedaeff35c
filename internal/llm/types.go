package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is the cancellation cause used when an upstream call exceeds its time budget.
var ErrTimeout = errors.New("upstream request timed out")

// Message represents a single message in an Ollama chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// Temperature controls the randomness of the output.
	Temperature float64
}

// Timeouts bounds each kind of upstream call.
type Timeouts struct {
	// Generate bounds a buffered chat call, and the idle gap between frames of a stream.
	Generate time.Duration
	// List bounds a /tags call.
	List time.Duration
	// Pull bounds a /pull call.
	Pull time.Duration
}

// DefaultTimeouts mirrors the limits used by the storefront.
var DefaultTimeouts = Timeouts{
	Generate: 30 * time.Second,
	List:     5 * time.Second,
	Pull:     60 * time.Second,
}

// StatusError is returned when Ollama answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.StatusCode, e.Body)
}
