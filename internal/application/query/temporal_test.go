package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemporalExtractor_Extract(t *testing.T) {
	e := NewTemporalExtractor(2020, 2025)

	tests := []struct {
		name string
		text string
		want *TimeScope
	}{
		{
			name: "year only",
			text: "show me temperature profiles from 2023",
			want: &TimeScope{Year: 2023},
		},
		{
			name: "month name with year",
			text: "salinity in March 2023",
			want: &TimeScope{Year: 2023, Month: time.March},
		},
		{
			name: "abbreviated month with year",
			text: "data from Oct 2024 please",
			want: &TimeScope{Year: 2024, Month: time.October},
		},
		{
			name: "numeric year-month",
			text: "profiles for 2024-10",
			want: &TimeScope{Year: 2024, Month: time.October},
		},
		{
			name: "month and year separated",
			text: "in 2022, what happened during January",
			want: &TimeScope{Year: 2022, Month: time.January},
		},
		{
			name: "relative recent",
			text: "what are the most recent measurements",
			want: &TimeScope{MostRecent: true},
		},
		{
			name: "relative latest",
			text: "latest float positions",
			want: &TimeScope{MostRecent: true},
		},
		{
			name: "concrete date wins over relative word",
			text: "latest March 2023 profiles",
			want: &TimeScope{Year: 2023, Month: time.March},
		},
		{
			name: "relative word with bare month resolves most recent",
			text: "recent profiles in October",
			want: &TimeScope{MostRecent: true},
		},
		{
			name: "bare month is not temporal",
			text: "temperature profiles in October",
			want: nil,
		},
		{
			name: "year outside coverage window",
			text: "profiles from 2019",
			want: nil,
		},
		{
			name: "wmo id does not look like a year",
			text: "tell me about float 2902746",
			want: nil,
		},
		{
			name: "no temporal reference",
			text: "how salty is the arabian sea",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestTimeScope_Range(t *testing.T) {
	t.Run("month scope is half open", func(t *testing.T) {
		s := TimeScope{Year: 2023, Month: time.December}
		start, end, ok := s.Range()
		require.True(t, ok)
		assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("year scope covers whole year", func(t *testing.T) {
		s := TimeScope{Year: 2023}
		start, end, ok := s.Range()
		require.True(t, ok)
		assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("most recent has no interval", func(t *testing.T) {
		s := TimeScope{MostRecent: true}
		_, _, ok := s.Range()
		assert.False(t, ok)
	})
}

func TestTimeScope_WidenToYear(t *testing.T) {
	s := TimeScope{Year: 2023, Month: time.March}
	assert.Equal(t, TimeScope{Year: 2023}, s.WidenToYear())
}
