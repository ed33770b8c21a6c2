package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier() *Classifier {
	return NewClassifier(NewTemporalExtractor(2020, 2025))
}

func TestClassifier_Classify(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name     string
		text     string
		wantType QueryType
	}{
		{"bare date routes temporal", "what was recorded in March 2023", QueryTypeTemporal},
		{"recent routes temporal", "what was recorded most recently", QueryTypeTemporal},
		{"date plus measured field routes hybrid", "temperature profiles in March 2023", QueryTypeHybrid},
		{"date plus region routes hybrid", "temperature in the Arabian Sea during March 2023", QueryTypeHybrid},
		{"date plus similarity routes hybrid", "profiles similar to March 2023 conditions", QueryTypeHybrid},
		{"pattern question routes hybrid", "unusual salinity patterns near the equator", QueryTypeHybrid},
		{"open question routes semantic", "tell me about ocean circulation", QueryTypeSemantic},
		{"measured field plus region routes semantic", "salinity in the bay of bengal", QueryTypeSemantic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Greater(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestClassifier_Classify_TemporalConfidenceOrdering(t *testing.T) {
	c := newTestClassifier()

	yearMonth := c.Classify("what was recorded in March 2023")
	yearOnly := c.Classify("what was recorded in 2023")
	relative := c.Classify("what was recorded most recently")

	require.Equal(t, QueryTypeTemporal, yearMonth.Type)
	require.Equal(t, QueryTypeTemporal, yearOnly.Type)
	require.Equal(t, QueryTypeTemporal, relative.Type)

	assert.Greater(t, yearMonth.Confidence, yearOnly.Confidence)
	assert.Greater(t, yearOnly.Confidence, relative.Confidence)
}

func TestClassifier_Classify_EmptyInput(t *testing.T) {
	c := newTestClassifier()

	for _, text := range []string{"", "   ", "\t\n"} {
		got := c.Classify(text)
		assert.Equal(t, QueryTypeSemantic, got.Type)
		assert.InDelta(t, 0.1, got.Confidence, 0.001)
		assert.Nil(t, got.Scope)
	}
}

func TestClassifier_Classify_AttachesScope(t *testing.T) {
	c := newTestClassifier()

	got := c.Classify("average temperature in the Arabian Sea during March 2023")
	require.NotNil(t, got.Scope)
	assert.Equal(t, 2023, got.Scope.Year)
	assert.Equal(t, time.March, got.Scope.Month)
	require.NotNil(t, got.Region)
	assert.Equal(t, "arabian sea", got.RegionName)
	assert.True(t, got.Region.Contains(15, 60))
	assert.False(t, got.Region.Contains(0, 60))
}

func TestMatchRegion_SpecificBeforeBasin(t *testing.T) {
	name, box := MatchRegion("floats in the Arabian Sea part of the Indian Ocean")
	require.NotNil(t, box)
	assert.Equal(t, "arabian sea", name)
	assert.Equal(t, 10.0, box.MinLat)
}
