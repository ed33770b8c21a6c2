package retrieval

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahermangesh/floatchat/internal/application/query"
	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

type fakeStructured struct {
	records []*entity.ProfileRecord
	// byMonth returns records only when the filter covers this month;
	// used to drive the widen-to-year path.
	monthEmpty bool
	nearest    *repository.TimePeriod
	err        error

	gotFilters []repository.ProfileFilter
}

func (f *fakeStructured) Find(_ context.Context, filter repository.ProfileFilter) ([]*entity.ProfileRecord, error) {
	f.gotFilters = append(f.gotFilters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if f.monthEmpty && filter.StartTime != nil && filter.EndTime != nil {
		if filter.EndTime.Sub(*filter.StartTime) < 32*24*time.Hour {
			return nil, nil
		}
	}
	return f.records, nil
}

func (f *fakeStructured) NearestPeriod(_ context.Context, _ int, _ time.Month) (*repository.TimePeriod, error) {
	return f.nearest, nil
}

type fakeVector struct {
	matches []VectorMatch
	err     error
	gotTopK int
}

func (f *fakeVector) Search(_ context.Context, _ string, topK int, _ *repository.BoundingBox) ([]VectorMatch, error) {
	f.gotTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func testRetrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		MinYear:          2020,
		MaxYear:          2025,
		StructuredLimit:  100,
		ExportLimit:      100000,
		VectorTopK:       8,
		VectorTopKMax:    12,
		SimilarityFloor:  0.25,
		MinCorroborating: 5,
		Timeout:          5 * time.Second,
	}
}

func newTestOrchestrator(s *fakeStructured, v *fakeVector) *Orchestrator {
	classifier := query.NewClassifier(query.NewTemporalExtractor(2020, 2025))
	return NewOrchestrator(classifier, s, v, testRetrievalConfig())
}

func makeProfiles(n int, lat, lon float64, date time.Time) []*entity.ProfileRecord {
	out := make([]*entity.ProfileRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &entity.ProfileRecord{
			ID:          fmt.Sprintf("p-%d", i),
			WMOID:       fmt.Sprintf("290274%d", i),
			CycleNumber: i + 1,
			ProfileDate: date,
			Latitude:    lat,
			Longitude:   lon,
		})
	}
	return out
}

func TestRetrieve_TemporalRoute(t *testing.T) {
	s := &fakeStructured{records: makeProfiles(6, 15, 60, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC))}
	v := &fakeVector{}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "what was recorded in March 2023", Options{})
	require.NoError(t, err)

	assert.Equal(t, BackendStructured, res.Backend)
	assert.Equal(t, query.QueryTypeTemporal, res.Classification.Type)
	assert.Equal(t, 6, res.Count())
	assert.Equal(t, ConfidenceHigh, res.Band)
	assert.Zero(t, v.gotTopK, "vector store must not be consulted")

	require.Len(t, s.gotFilters, 1)
	f := s.gotFilters[0]
	require.NotNil(t, f.StartTime)
	assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartTime)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), *f.EndTime)
}

func TestRetrieve_MostRecent(t *testing.T) {
	s := &fakeStructured{records: makeProfiles(3, 15, 60, time.Now().UTC())}
	o := newTestOrchestrator(s, &fakeVector{})

	res, err := o.Retrieve(context.Background(), "show the latest measurements", Options{})
	require.NoError(t, err)

	require.Len(t, s.gotFilters, 1)
	assert.Equal(t, repository.SortOrderDesc, s.gotFilters[0].Order)
	assert.Equal(t, mostRecentLimit, s.gotFilters[0].Limit)
	assert.Nil(t, s.gotFilters[0].StartTime)
	assert.Equal(t, 3, res.Count())
}

func TestRetrieve_WidenMonthToYearOnce(t *testing.T) {
	s := &fakeStructured{
		records:    makeProfiles(2, 15, 60, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)),
		monthEmpty: true,
	}
	o := newTestOrchestrator(s, &fakeVector{})

	res, err := o.Retrieve(context.Background(), "what was recorded in December 2023", Options{})
	require.NoError(t, err)

	require.Len(t, s.gotFilters, 2, "exactly one widened retry")
	second := s.gotFilters[1]
	require.NotNil(t, second.StartTime)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *second.StartTime)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *second.EndTime)

	assert.True(t, res.WidenedToYear)
	assert.Equal(t, 2, res.Count())
	assert.Equal(t, ConfidenceLow, res.Band, "widened results drop below medium")
}

func TestRetrieve_EmptyReportsNearestPeriod(t *testing.T) {
	s := &fakeStructured{
		nearest: &repository.TimePeriod{Year: 2023, Month: time.March, Count: 41},
	}
	o := newTestOrchestrator(s, &fakeVector{})

	res, err := o.Retrieve(context.Background(), "what was recorded in December 2024", Options{})
	require.NoError(t, err)

	assert.Zero(t, res.Count())
	assert.Equal(t, ConfidenceLow, res.Band)
	require.NotNil(t, res.Alternative)
	assert.Equal(t, 2023, res.Alternative.Year)
}

func TestRetrieve_SemanticRoute(t *testing.T) {
	v := &fakeVector{matches: []VectorMatch{
		{Record: makeProfiles(1, 0, 0, time.Now())[0], Similarity: 0.91},
	}}
	s := &fakeStructured{}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "tell me about ocean circulation", Options{})
	require.NoError(t, err)

	assert.Equal(t, BackendVector, res.Backend)
	assert.Equal(t, 8, v.gotTopK, "default top-k applies")
	assert.Empty(t, s.gotFilters, "structured store must not be consulted")
	require.Equal(t, 1, res.Count())
	assert.InDelta(t, 0.91, res.Records[0].Similarity, 0.001)
}

func TestRetrieve_TopKClamped(t *testing.T) {
	v := &fakeVector{}
	o := newTestOrchestrator(&fakeStructured{}, v)

	_, err := o.Retrieve(context.Background(), "tell me about ocean circulation", Options{TopK: 50})
	require.NoError(t, err)
	assert.Equal(t, 8, v.gotTopK, "oversized top-k falls back to default")
}

func TestRetrieve_HybridMergesWithStructuredPrecedence(t *testing.T) {
	shared := makeProfiles(1, 15, 60, time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC))[0]
	s := &fakeStructured{records: []*entity.ProfileRecord{shared}}
	v := &fakeVector{matches: []VectorMatch{
		{Record: &entity.ProfileRecord{ID: shared.ID, WMOID: shared.WMOID, CycleNumber: shared.CycleNumber, Latitude: 15, Longitude: 60}, Similarity: 0.8},
		{Record: &entity.ProfileRecord{ID: "v-2", WMOID: "5906000", CycleNumber: 7, Latitude: 16, Longitude: 61}, Similarity: 0.6},
	}}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "profiles similar to March 2023 conditions", Options{})
	require.NoError(t, err)

	assert.Equal(t, query.QueryTypeHybrid, res.Classification.Type)
	assert.Equal(t, BackendBoth, res.Backend)
	require.Equal(t, 2, res.Count(), "duplicate collapses to one record")

	assert.Equal(t, BackendBoth, res.Records[0].Origin)
	assert.InDelta(t, 0.8, res.Records[0].Similarity, 0.001)
	assert.Equal(t, BackendVector, res.Records[1].Origin)
}

func TestRetrieve_HybridPartialFailure(t *testing.T) {
	s := &fakeStructured{err: fmt.Errorf("connection refused")}
	v := &fakeVector{matches: []VectorMatch{
		{Record: makeProfiles(1, 15, 60, time.Now())[0], Similarity: 0.7},
	}}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "profiles similar to March 2023 conditions", Options{})
	require.NoError(t, err, "surviving backend still answers")

	assert.Equal(t, string(BackendStructured), res.PartialFailure)
	assert.Equal(t, ConfidenceLow, res.Band)
	assert.Equal(t, 1, res.Count())
}

func TestRetrieve_HybridDatePlusRegion(t *testing.T) {
	s := &fakeStructured{records: makeProfiles(2, 15, 60, time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC))}
	v := &fakeVector{matches: []VectorMatch{
		{Record: &entity.ProfileRecord{ID: "v-1", WMOID: "5906003", CycleNumber: 2, Latitude: 14, Longitude: 62}, Similarity: 0.55},
	}}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "temperature in the Arabian Sea during March 2023", Options{})
	require.NoError(t, err)

	assert.Equal(t, query.QueryTypeHybrid, res.Classification.Type)
	assert.Equal(t, BackendBoth, res.Backend)
	assert.NotZero(t, v.gotTopK, "vector store is consulted alongside the structured store")
	require.Len(t, s.gotFilters, 1)
	assert.NotNil(t, s.gotFilters[0].BBox)
	assert.Equal(t, 3, res.Count())
}

func TestRetrieve_StructuredFailureDegrades(t *testing.T) {
	s := &fakeStructured{err: fmt.Errorf("pg down")}
	v := &fakeVector{}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "what was recorded in March 2023", Options{})
	require.NoError(t, err, "backend faults degrade instead of failing the request")

	assert.Zero(t, res.Count())
	assert.Equal(t, ConfidenceLow, res.Band)
	assert.Equal(t, string(BackendStructured), res.PartialFailure)
	assert.Equal(t, query.QueryTypeTemporal, res.Classification.Type)
}

func TestRetrieve_VectorFailureDegrades(t *testing.T) {
	s := &fakeStructured{}
	v := &fakeVector{err: fmt.Errorf("milvus timeout")}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "tell me about ocean circulation", Options{})
	require.NoError(t, err, "backend faults degrade instead of failing the request")

	assert.Zero(t, res.Count())
	assert.Equal(t, ConfidenceLow, res.Band)
	assert.Equal(t, string(BackendVector), res.PartialFailure)
	assert.Empty(t, s.gotFilters)
}

func TestRetrieve_HybridBothBackendsFail(t *testing.T) {
	s := &fakeStructured{err: fmt.Errorf("pg down")}
	v := &fakeVector{err: fmt.Errorf("milvus down")}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "profiles similar to March 2023 conditions", Options{})
	require.NoError(t, err)

	assert.Zero(t, res.Count())
	assert.Equal(t, ConfidenceLow, res.Band)
	assert.Equal(t, "structured and vector", res.PartialFailure)
}

func TestRetrieve_HybridRegionDisagreementDowngrades(t *testing.T) {
	structured := makeProfiles(5, 15, 60, time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC))
	s := &fakeStructured{records: structured}
	// All vector matches fall outside the Arabian Sea box.
	v := &fakeVector{matches: []VectorMatch{
		{Record: &entity.ProfileRecord{ID: "v-1", WMOID: "5906001", Latitude: -40, Longitude: 100}, Similarity: 0.5},
		{Record: &entity.ProfileRecord{ID: "v-2", WMOID: "5906002", Latitude: -42, Longitude: 101}, Similarity: 0.45},
	}}
	o := newTestOrchestrator(s, v)

	res, err := o.Retrieve(context.Background(), "unusual salinity patterns in the arabian sea during March 2023", Options{})
	require.NoError(t, err)

	require.NotNil(t, res.Classification.Region)
	assert.Equal(t, ConfidenceMedium, res.Band, "high corroboration downgraded once by disagreement")
}
