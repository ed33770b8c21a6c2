package embedding

import (
	"context"
	"fmt"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/pkg/errors"
)

// OpenAIEmbedder embeds text through an OpenAI-compatible endpoint.
type OpenAIEmbedder struct {
	embedder  embedding.Embedder
	dimension int
}

// NewOpenAIEmbedder builds the embedder client.
func NewOpenAIEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (*OpenAIEmbedder, error) {
	dim := cfg.Dimension
	emb, err := openaiembed.NewEmbedder(ctx, &openaiembed.EmbeddingConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.Endpoint,
		Dimensions: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return &OpenAIEmbedder{embedder: emb, dimension: cfg.Dimension}, nil
}

// Embed converts text to a vector.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "embedding request failed")
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New(errors.CodeEmbeddingFailed, "embedding response was empty")
	}

	out := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		out[i] = float32(v)
	}
	return out, nil
}

// Dimension returns the configured vector dimension.
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}
