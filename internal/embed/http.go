package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single embedding request.
const DefaultTimeout = 30 * time.Second

// HTTPEmbedder calls a local embedding service over HTTP. The service
// accepts {"texts": [...]} on POST /embed and returns
// {"vectors": [[...], ...]}.
type HTTPEmbedder struct {
	baseURL    string
	httpClient *http.Client
}

var _ Embedder = (*HTTPEmbedder)(nil)

// NewHTTPEmbedder creates an embedder for the service at baseURL
// (e.g. "http://localhost:8876").
func NewHTTPEmbedder(baseURL string) *HTTPEmbedder {
	return &HTTPEmbedder{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

// Embed computes a vector embedding for the given text.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("embed: text is empty")
	}

	body, err := json.Marshal(embedRequest{Texts: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("embed: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embed: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed: service returned status %d: %s", resp.StatusCode, msg)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embed: decode response: %w", err)
	}
	if len(out.Vectors) == 0 {
		return nil, fmt.Errorf("embed: service returned no vectors")
	}
	return out.Vectors[0], nil
}
