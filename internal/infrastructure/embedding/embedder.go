// Package embedding provides text embedding clients.
package embedding

import (
	"context"
	"fmt"

	"github.com/ahermangesh/floatchat/internal/config"
)

// Embedder converts text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// New builds the embedder selected by configuration.
func New(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(ctx, cfg)
	case "http":
		return NewHTTPEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
