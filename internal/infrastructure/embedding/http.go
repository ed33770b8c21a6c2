package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/pkg/errors"
)

// HTTPEmbedder embeds text through a self-hosted embedding service that
// exposes a POST /embed endpoint.
type HTTPEmbedder struct {
	endpoint  string
	model     string
	dimension int
	client    *http.Client
}

// NewHTTPEmbedder builds the HTTP embedder client.
func NewHTTPEmbedder(cfg config.EmbeddingConfig) *HTTPEmbedder {
	return &HTTPEmbedder{
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed converts text to a vector.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Input: []string{text}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "embedding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeEmbeddingFailed, fmt.Sprintf("embedding service returned %d", resp.StatusCode))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "failed to decode embedding response")
	}
	if len(out.Embeddings) == 0 || len(out.Embeddings[0]) == 0 {
		return nil, errors.New(errors.CodeEmbeddingFailed, "embedding response was empty")
	}
	return out.Embeddings[0], nil
}

// Dimension returns the configured vector dimension.
func (e *HTTPEmbedder) Dimension() int {
	return e.dimension
}
