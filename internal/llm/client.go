package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rupped-negotiator/internal/contextutil"
)

// maxFrameSize caps a single NDJSON frame read from a stream.
const maxFrameSize = 1 << 20

// Client is a client for the Ollama HTTP API.
type Client struct {
	BaseURL  string
	Model    string
	Timeouts Timeouts
	client   *http.Client
}

// NewClient creates a new Ollama client. baseURL includes the /api prefix,
// e.g. "http://localhost:11434/api".
func NewClient(baseURL, model string, timeouts Timeouts) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Model:    model,
		Timeouts: timeouts,
		client:   http.DefaultClient,
	}
}

// ChatRequest represents the request payload for /chat.
// Temperature is sent both top-level and under options; Ollama reads the latter.
type ChatRequest struct {
	Model       string       `json:"model"`
	Messages    []Message    `json:"messages"`
	Stream      bool         `json:"stream"`
	Temperature float64      `json:"temperature"`
	Options     *ChatOptions `json:"options,omitempty"`
}

// ChatOptions holds model sampling options.
type ChatOptions struct {
	Temperature float64 `json:"temperature"`
}

// ChatResponse represents a buffered /chat response.
type ChatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// chatFrame is one line of a streamed /chat response.
// Pointers distinguish absent fields from empty ones.
type chatFrame struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

func (c *Client) newChatRequest(ctx context.Context, messages []Message, params ChatParams, stream bool) (*http.Request, error) {
	model := params.Model
	if model == "" {
		model = c.Model
	}

	payload := ChatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      stream,
		Temperature: params.Temperature,
		Options:     &ChatOptions{Temperature: params.Temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "application/x-ndjson")
	}
	return req, nil
}

// Chat sends a buffered chat completion request and returns the assistant content.
func (c *Client) Chat(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	ctx, cancel := withTimeout(ctx, c.Timeouts.Generate)
	defer cancel()

	req, err := c.newChatRequest(ctx, messages, params, false)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", causeOf(ctx, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", newStatusError(resp)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", causeOf(ctx, err))
	}

	return chatResp.Message.Content, nil
}

// StreamChat sends a streaming chat completion request and calls callback with
// each content delta, in arrival order. Frames that fail to decode are logged and
// skipped. The generate timeout applies to the gap between frames, not the whole stream.
func (c *Client) StreamChat(ctx context.Context, messages []Message, params ChatParams, callback func(chunk string) error) error {
	logger := contextutil.LoggerFromContext(ctx)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var idle *time.Timer
	if c.Timeouts.Generate > 0 {
		idle = time.AfterFunc(c.Timeouts.Generate, func() { cancel(ErrTimeout) })
		defer idle.Stop()
	}

	req, err := c.newChatRequest(ctx, messages, params, true)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", causeOf(ctx, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return newStatusError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		if idle != nil {
			idle.Reset(c.Timeouts.Generate)
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var frame chatFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			logger.WarnContext(ctx, "skipping malformed stream frame", "error", err, "frame", string(line))
			continue
		}

		if frame.Message != nil && frame.Message.Content != nil {
			if err := callback(*frame.Message.Content); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}

		if frame.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", causeOf(ctx, err))
	}

	return nil
}

// withTimeout applies d to ctx when d is positive. Expiry is reported as ErrTimeout.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeoutCause(ctx, d, ErrTimeout)
}

// causeOf attaches the context's cancellation cause to err, so callers can
// tell a timeout from a plain transport failure.
func causeOf(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	if cause == nil || errors.Is(err, cause) {
		return err
	}
	return fmt.Errorf("%w: %w", cause, err)
}

func newStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
}
