// Package retrieval orchestrates structured and vector lookups behind a
// single routing entry point.
package retrieval

import (
	"context"
	"time"

	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

// StructuredStore is the relational backend as seen by the orchestrator.
type StructuredStore interface {
	Find(ctx context.Context, filter repository.ProfileFilter) ([]*entity.ProfileRecord, error)
	NearestPeriod(ctx context.Context, year int, month time.Month) (*repository.TimePeriod, error)
}

// VectorMatch is one nearest-neighbor hit with its similarity score in
// [0, 1], higher is closer.
type VectorMatch struct {
	Record     *entity.ProfileRecord
	Similarity float64
}

// VectorStore is the semantic backend as seen by the orchestrator. The
// adapter applies the similarity floor before returning, so every match
// here is already above it.
type VectorStore interface {
	Search(ctx context.Context, text string, topK int, region *repository.BoundingBox) ([]VectorMatch, error)
}
