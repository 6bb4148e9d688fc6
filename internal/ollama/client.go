// Package ollama is a minimal client for the local Ollama generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const DefaultHost = "http://localhost:11434"

var (
	ErrUnreachable = errors.New("ollama unreachable")
	ErrAPIStatus   = errors.New("ollama request failed")
	ErrBadResponse = errors.New("invalid ollama response")
)

// Generation parameters sent with every request.
const (
	temperature = 0.7
	topP        = 0.9
	maxTokens   = 4000
)

type Client struct {
	host   string
	client *http.Client
}

// NewClient creates a client for the given host. An empty host falls
// back to OLLAMA_HOST, then to the default local address.
func NewClient(host string) *Client {
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = DefaultHost
	}

	return &Client{
		host:   strings.TrimRight(host, "/"),
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate issues a single non-streaming generation request and returns
// the generated text verbatim. It never retries.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			TopP:        topP,
			MaxTokens:   maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts surface here as well as refused connections.
		return "", fmt.Errorf("%w: failed to connect with model %q, make sure Ollama is running on %s: %v",
			ErrUnreachable, model, c.host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body for model %q: %v", ErrBadResponse, model, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d for model %q", ErrAPIStatus, resp.StatusCode, model)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: parsing body for model %q: %v", ErrBadResponse, model, err)
	}
	if result.Response == "" {
		return "", fmt.Errorf("%w: missing response field for model %q", ErrBadResponse, model)
	}

	return result.Response, nil
}
