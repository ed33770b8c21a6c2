package milvus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahermangesh/floatchat/internal/application/retrieval"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

func match(id string, sim, lat, lon float64) retrieval.VectorMatch {
	return retrieval.VectorMatch{
		Record:     &entity.ProfileRecord{ID: id, Latitude: lat, Longitude: lon},
		Similarity: sim,
	}
}

func TestRerank_FloorDropsWeakMatches(t *testing.T) {
	matches := []retrieval.VectorMatch{
		match("a", 0.9, 0, 0),
		match("b", 0.2, 0, 0),
		match("c", 0.3, 0, 0),
	}

	got := rerank(matches, nil, 0.25, 10)

	require.Len(t, got, 2, "matches below the floor are dropped, not padded")
	assert.Equal(t, "a", got[0].Record.ID)
	assert.Equal(t, "c", got[1].Record.ID)
}

func TestRerank_RegionBoostReorders(t *testing.T) {
	arabianSea := &repository.BoundingBox{MinLat: 10, MaxLat: 25, MinLon: 50, MaxLon: 75}
	matches := []retrieval.VectorMatch{
		match("outside", 0.60, -40, 100),
		match("inside", 0.55, 15, 60),
	}

	got := rerank(matches, arabianSea, 0.25, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "inside", got[0].Record.ID, "boosted match wins")
	assert.InDelta(t, 0.65, got[0].Similarity, 0.001)
	assert.InDelta(t, 0.60, got[1].Similarity, 0.001)
}

func TestRerank_TruncatesToTopK(t *testing.T) {
	matches := []retrieval.VectorMatch{
		match("a", 0.9, 0, 0),
		match("b", 0.8, 0, 0),
		match("c", 0.7, 0, 0),
	}

	got := rerank(matches, nil, 0.0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Record.ID)
}

func TestSimilarityFromScore_Clamped(t *testing.T) {
	assert.InDelta(t, 1.0, similarityFromScore(1.0), 0.001)
	assert.InDelta(t, 0.5, similarityFromScore(0.0), 0.001)
	assert.InDelta(t, 0.0, similarityFromScore(-1.0), 0.001)
	assert.Equal(t, 1.0, similarityFromScore(1.5))
}
