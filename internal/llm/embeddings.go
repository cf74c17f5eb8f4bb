package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultEmbeddingModel produces 1536-dimensional vectors.
const DefaultEmbeddingModel = "text-embedding-ada-002"

// Embedder is implemented by clients that can produce text embeddings.
// Callers should type-assert, as not every provider supports it.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

// Embed returns one embedding vector per input text, in input order.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	jsonBody, err := json.Marshal(embeddingRequest{Model: DefaultEmbeddingModel, Input: texts})
	if err != nil {
		return nil, &UpstreamError{Provider: "openai", Message: "failed to encode embeddings request", Cause: err}
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &UpstreamError{Provider: "openai", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: "openai", Message: "embeddings request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Provider: "openai", Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			Provider: "openai",
			Message:  fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &UpstreamError{Provider: "openai", Message: "failed to decode response", Cause: err}
	}
	if parsed.Error != nil {
		return nil, &UpstreamError{Provider: "openai", Message: parsed.Error.Message}
	}
	if len(parsed.Data) != len(texts) {
		return nil, &UpstreamError{
			Provider: "openai",
			Message:  fmt.Sprintf("got %d embeddings for %d inputs", len(parsed.Data), len(texts)),
		}
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, &UpstreamError{Provider: "openai", Message: fmt.Sprintf("embedding index %d out of range", d.Index)}
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
