package response

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahermangesh/floatchat/internal/application/query"
	"github.com/ahermangesh/floatchat/internal/application/retrieval"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

func ptr(v float64) *float64 { return &v }

func sampleResult(n int) *retrieval.Result {
	res := &retrieval.Result{
		Classification: query.Classification{Type: query.QueryTypeTemporal},
		Backend:        retrieval.BackendStructured,
		Band:           retrieval.ConfidenceHigh,
	}
	base := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		res.Records = append(res.Records, retrieval.ScoredRecord{
			Origin: retrieval.BackendStructured,
			Record: &entity.ProfileRecord{
				ID:             "p",
				WMOID:          "2902746",
				CycleNumber:    i + 1,
				ProfileDate:    base.AddDate(0, 0, i),
				Latitude:       15 + float64(i)*0.1,
				Longitude:      60,
				MinTemperature: ptr(4.0 + float64(i)),
				MaxTemperature: ptr(28.0),
				MinSalinity:    ptr(34.5),
				MaxSalinity:    ptr(36.2),
				MaxPressure:    ptr(1950.0 + float64(i)),
			},
		})
	}
	return res
}

func TestAssemble_RecomputesStatistics(t *testing.T) {
	a := NewAssembler()

	ans := a.Assemble(sampleResult(3), AudienceGeneral)

	assert.Equal(t, 3, ans.Statistics.Count)
	require.NotNil(t, ans.Statistics.Temperature)
	assert.Equal(t, 4.0, ans.Statistics.Temperature.Min)
	assert.Equal(t, 28.0, ans.Statistics.Temperature.Max)
	require.NotNil(t, ans.Statistics.Salinity)
	assert.Equal(t, 34.5, ans.Statistics.Salinity.Min)
	assert.Equal(t, 36.2, ans.Statistics.Salinity.Max)
	require.NotNil(t, ans.Statistics.MaxPressure)
	assert.Equal(t, 1952.0, *ans.Statistics.MaxPressure)
	require.NotNil(t, ans.Statistics.Extent)
	assert.Equal(t, 15.0, ans.Statistics.Extent.MinLat)
	assert.InDelta(t, 15.2, ans.Statistics.Extent.MaxLat, 0.001)
}

func TestAssemble_OneSourcePerRecord(t *testing.T) {
	a := NewAssembler()

	ans := a.Assemble(sampleResult(4), AudienceGeneral)

	require.Len(t, ans.Sources, 4)
	for _, s := range ans.Sources {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, string(retrieval.BackendStructured), s.Backend)
	}
}

func TestAssemble_TableExcerptBounded(t *testing.T) {
	a := NewAssembler()

	ans := a.Assemble(sampleResult(25), AudienceGeneral)

	assert.Len(t, ans.Table.Rows, 10)
	assert.Equal(t, 25, ans.Table.TotalRows)
	assert.Equal(t, len(ans.Table.Columns), len(ans.Table.Rows[0]))
}

func TestAssemble_EmptyResultIsExplicit(t *testing.T) {
	a := NewAssembler()
	scope := &query.TimeScope{Year: 2024, Month: time.December}
	res := &retrieval.Result{
		Classification: query.Classification{Type: query.QueryTypeTemporal, Scope: scope},
		Backend:        retrieval.BackendStructured,
		Band:           retrieval.ConfidenceLow,
		Alternative:    &repository.TimePeriod{Year: 2023, Month: time.March, Count: 41},
	}

	ans := a.Assemble(res, AudienceGeneral)

	assert.Contains(t, ans.Summary, "No matching records were found for December 2024")
	assert.Contains(t, ans.Summary, "March 2023 (41 profiles)")
	assert.Empty(t, ans.Sources)
	assert.Empty(t, ans.Table.Rows)
	assert.Equal(t, "none", ans.Visualization.Kind)
	assert.Equal(t, 0, ans.Statistics.Count)
}

func TestAssemble_AudienceChangesPrecisionOnly(t *testing.T) {
	a := NewAssembler()

	general := a.Assemble(sampleResult(3), AudienceGeneral)
	researcher := a.Assemble(sampleResult(3), AudienceResearcher)

	assert.Equal(t, general.Statistics, researcher.Statistics, "facts are audience independent")
	assert.Contains(t, general.Summary, "34.5")
	assert.Contains(t, researcher.Summary, "34.500")
	assert.True(t, strings.Contains(researcher.Summary, "4.000"))
}

func TestAssemble_NotesCarryDegradations(t *testing.T) {
	a := NewAssembler()
	res := sampleResult(2)
	res.WidenedToYear = true
	res.PartialFailure = "vector"

	ans := a.Assemble(res, AudienceGeneral)

	require.Len(t, ans.Notes, 2)
	assert.Contains(t, ans.Notes[0], "whole year")
	assert.Contains(t, ans.Notes[1], "vector backend was unavailable")
}

func TestAssemble_UnavailableBackendIsExplicit(t *testing.T) {
	a := NewAssembler()
	res := &retrieval.Result{
		Classification: query.Classification{Type: query.QueryTypeSemantic},
		Backend:        retrieval.BackendVector,
		Band:           retrieval.ConfidenceLow,
		PartialFailure: string(retrieval.BackendVector),
	}

	ans := a.Assemble(res, AudienceGeneral)

	assert.Contains(t, ans.Summary, "temporarily unavailable")
	require.Len(t, ans.Notes, 1)
	assert.Contains(t, ans.Notes[0], "vector backend was unavailable")
	assert.Equal(t, "low", ans.Confidence)
	assert.Empty(t, ans.Sources)
}

func TestAssemble_MapVisualizationForSpread(t *testing.T) {
	a := NewAssembler()

	ans := a.Assemble(sampleResult(3), AudienceGeneral)
	assert.Equal(t, "map", ans.Visualization.Kind)
}
