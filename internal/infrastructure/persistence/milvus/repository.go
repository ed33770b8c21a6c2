package milvus

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahermangesh/floatchat/internal/application/retrieval"
	"github.com/ahermangesh/floatchat/internal/config"
	domainentity "github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/internal/infrastructure/embedding"
	"github.com/ahermangesh/floatchat/pkg/errors"
	"github.com/ahermangesh/floatchat/pkg/metrics"
)

// regionBoost is added to the similarity of matches whose position lies
// inside the classified region, before re-ranking.
const regionBoost = 0.1

// Repository is the semantic store over the profile_summaries collection.
type Repository struct {
	client   *Client
	embedder embedding.Embedder
	cfg      config.RetrievalConfig
}

// NewRepository builds the vector repository.
func NewRepository(client *Client, embedder embedding.Embedder, cfg config.RetrievalConfig) *Repository {
	return &Repository{client: client, embedder: embedder, cfg: cfg}
}

var _ retrieval.VectorStore = (*Repository)(nil)

// EnsureCollection creates the collection and index when missing and
// loads it. It never drops anything.
func (r *Repository) EnsureCollection(ctx context.Context) error {
	exists, err := r.client.HasCollection(ctx, CollectionProfileSummaries)
	if err != nil {
		return err
	}
	if !exists {
		schema := ProfileSummariesSchema(r.embedder.Dimension())
		schema.CollectionName = r.client.CollectionName(CollectionProfileSummaries)
		if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if err := r.createIndex(ctx); err != nil {
			return err
		}
	}
	return r.client.LoadCollection(ctx, CollectionProfileSummaries)
}

func (r *Repository) createIndex(ctx context.Context) error {
	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	collName := r.client.CollectionName(CollectionProfileSummaries)
	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Insert stores embedded profile summaries. Used by the ingestion CLI,
// never by the query path.
func (r *Repository) Insert(ctx context.Context, summaries []*ProfileSummary) error {
	ctx, span := tracer.Start(ctx, "milvus.Insert",
		trace.WithAttributes(attribute.Int("count", len(summaries))))
	defer span.End()

	if len(summaries) == 0 {
		return nil
	}

	n := len(summaries)
	ids := make([]string, n)
	vectors := make([][]float32, n)
	wmoIDs := make([]string, n)
	cycles := make([]int64, n)
	dates := make([]int64, n)
	lats := make([]float64, n)
	lons := make([]float64, n)
	minTemps := make([]float64, n)
	maxTemps := make([]float64, n)
	minSals := make([]float64, n)
	maxSals := make([]float64, n)
	texts := make([]string, n)
	for i, s := range summaries {
		ids[i] = s.ID
		vectors[i] = s.Vector
		wmoIDs[i] = s.WMOID
		cycles[i] = s.CycleNumber
		dates[i] = s.ProfileDate
		lats[i] = s.Latitude
		lons[i] = s.Longitude
		minTemps[i] = s.MinTemperature
		maxTemps[i] = s.MaxTemperature
		minSals[i] = s.MinSalinity
		maxSals[i] = s.MaxSalinity
		texts[i] = s.Summary
	}

	collName := r.client.CollectionName(CollectionProfileSummaries)
	_, err := r.client.milvus.Insert(ctx, collName, "",
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector("vector", r.embedder.Dimension(), vectors),
		entity.NewColumnVarChar("wmo_id", wmoIDs),
		entity.NewColumnInt64("cycle_number", cycles),
		entity.NewColumnInt64("profile_date", dates),
		entity.NewColumnDouble("latitude", lats),
		entity.NewColumnDouble("longitude", lons),
		entity.NewColumnDouble("min_temperature", minTemps),
		entity.NewColumnDouble("max_temperature", maxTemps),
		entity.NewColumnDouble("min_salinity", minSals),
		entity.NewColumnDouble("max_salinity", maxSals),
		entity.NewColumnVarChar("summary", texts),
	)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeVectorDBError, "failed to insert summaries")
	}
	return nil
}

// Search embeds text and returns nearest profile summaries above the
// similarity floor, re-ranked with the region boost.
func (r *Repository) Search(ctx context.Context, text string, topK int, region *repository.BoundingBox) ([]retrieval.VectorMatch, error) {
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	collName := r.client.CollectionName(CollectionProfileSummaries)
	start := time.Now()

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeVectorDBError, "failed to build search param")
	}

	// Over-recall so the floor and re-rank still leave topK candidates.
	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		"",
		summaryOutputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		topK*2,
		sp,
	)
	metrics.MilvusSearchDuration.WithLabelValues(CollectionProfileSummaries).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(CollectionProfileSummaries, "error").Inc()
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeVectorDBError, "vector search failed")
	}
	metrics.MilvusSearchTotal.WithLabelValues(CollectionProfileSummaries, "ok").Inc()

	var matches []retrieval.VectorMatch
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			rec := &domainentity.ProfileRecord{}
			if col, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				rec.ID = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("wmo_id").(*entity.ColumnVarChar); ok {
				rec.WMOID = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("cycle_number").(*entity.ColumnInt64); ok {
				rec.CycleNumber = int(col.Data()[i])
			}
			if col, ok := result.Fields.GetColumn("profile_date").(*entity.ColumnInt64); ok {
				rec.ProfileDate = time.Unix(col.Data()[i], 0).UTC()
			}
			if col, ok := result.Fields.GetColumn("latitude").(*entity.ColumnDouble); ok {
				rec.Latitude = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("longitude").(*entity.ColumnDouble); ok {
				rec.Longitude = col.Data()[i]
			}
			rec.MinTemperature = doubleAt(result.Fields.GetColumn("min_temperature"), i)
			rec.MaxTemperature = doubleAt(result.Fields.GetColumn("max_temperature"), i)
			rec.MinSalinity = doubleAt(result.Fields.GetColumn("min_salinity"), i)
			rec.MaxSalinity = doubleAt(result.Fields.GetColumn("max_salinity"), i)

			matches = append(matches, retrieval.VectorMatch{
				Record:     rec,
				Similarity: similarityFromScore(result.Scores[i]),
			})
		}
	}

	matches = rerank(matches, region, r.cfg.SimilarityFloor, topK)
	span.SetAttributes(attribute.Int("result_count", len(matches)))
	return matches, nil
}

func doubleAt(col entity.Column, i int) *float64 {
	if c, ok := col.(*entity.ColumnDouble); ok {
		v := c.Data()[i]
		return &v
	}
	return nil
}

// similarityFromScore maps a cosine score to [0, 1].
func similarityFromScore(score float32) float64 {
	s := (float64(score) + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// rerank boosts matches inside the region, drops those below floor, and
// keeps the best topK. Results below the floor are dropped rather than
// padded back in.
func rerank(matches []retrieval.VectorMatch, region *repository.BoundingBox, floor float64, topK int) []retrieval.VectorMatch {
	kept := make([]retrieval.VectorMatch, 0, len(matches))
	for _, m := range matches {
		if m.Similarity < floor {
			continue
		}
		if region != nil && region.Contains(m.Record.Latitude, m.Record.Longitude) {
			m.Similarity += regionBoost
			if m.Similarity > 1 {
				m.Similarity = 1
			}
		}
		kept = append(kept, m)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Similarity > kept[j].Similarity
	})
	if topK > 0 && len(kept) > topK {
		kept = kept[:topK]
	}
	return kept
}
