package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ModelInfo describes one locally available model as reported by /tags.
type ModelInfo struct {
	Name       string          `json:"name"`
	Model      string          `json:"model,omitempty"`
	ModifiedAt string          `json:"modified_at,omitempty"`
	Size       int64           `json:"size,omitempty"`
	Digest     string          `json:"digest,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// TagsResponse represents the response from the /tags endpoint.
type TagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// PullRequest represents the request payload for /pull.
type PullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// ListModels returns the models available on the Ollama server.
func (c *Client) ListModels(ctx context.Context) (*TagsResponse, error) {
	ctx, cancel := withTimeout(ctx, c.Timeouts.List)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", causeOf(ctx, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(resp)
	}

	var tags TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}
	if tags.Models == nil {
		tags.Models = []ModelInfo{}
	}

	return &tags, nil
}

// IsModelAvailable reports whether a model matching modelName has been pulled.
// Only the name before any ":tag" suffix is compared, so "llama3.2" matches "llama3.2:latest".
func (c *Client) IsModelAvailable(ctx context.Context, modelName string) (bool, error) {
	tags, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}

	base, _, _ := strings.Cut(modelName, ":")
	for _, model := range tags.Models {
		if strings.Contains(model.Name, base) {
			return true, nil
		}
	}

	return false, nil
}

// PullModel asks Ollama to download modelName and waits for the pull to finish.
// An empty modelName pulls the client's default model.
func (c *Client) PullModel(ctx context.Context, modelName string) error {
	if modelName == "" {
		modelName = c.Model
	}

	ctx, cancel := withTimeout(ctx, c.Timeouts.Pull)
	defer cancel()

	body, err := json.Marshal(PullRequest{Name: modelName, Stream: false})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/pull", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to pull model: %w", causeOf(ctx, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return newStatusError(resp)
	}

	return nil
}
