package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPConfig configures the secondary HTTP embedding provider.
type HTTPConfig struct {
	// BaseURL is the full embeddings endpoint, e.g. http://host:11434/api/embeddings.
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// Dimensions is the expected vector length. Defaults to DefaultDimensions.
	Dimensions int
}

// HTTPClient is an embedding provider that speaks to an OpenAI-compatible
// or Ollama-style embeddings endpoint over plain HTTP. It serves as the
// secondary provider behind the fallback policy.
type HTTPClient struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPClient creates an HTTP embedding provider.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding endpoint URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type httpEmbedRequest struct {
	Model  string `json:"model,omitempty"`
	Input  string `json:"input,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// httpEmbedResponse accepts both the OpenAI response shape
// ({"data":[{"embedding":[...]}]}) and the Ollama shape ({"embedding":[...]}).
type httpEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Embedding []float32 `json:"embedding"`
}

// GenerateEmbedding posts the text to the configured endpoint and parses
// the vector from the response. A failure surfaces immediately; moving on
// to another provider is the fallback policy's call, not this client's.
func (c *HTTPClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(httpEmbedRequest{
		Model:  c.cfg.Model,
		Input:  text,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	return c.doRequest(ctx, body)
}

func (c *HTTPClient) doRequest(ctx context.Context, body []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedding endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed httpEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	embedding := parsed.Embedding
	if len(parsed.Data) > 0 {
		embedding = parsed.Data[0].Embedding
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding response contained no vector")
	}
	if len(embedding) != c.cfg.Dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, c.cfg.Dimensions, len(embedding))
	}

	return embedding, nil
}
