// Package query classifies natural-language questions and extracts the
// structured hints the retrieval pipeline routes on.
package query

import (
	"time"

	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

// QueryType is the retrieval route selected for a question.
type QueryType string

const (
	// QueryTypeTemporal routes to the structured store only.
	QueryTypeTemporal QueryType = "temporal"
	// QueryTypeSemantic routes to the vector store only.
	QueryTypeSemantic QueryType = "semantic"
	// QueryTypeHybrid fans out to both stores.
	QueryTypeHybrid QueryType = "hybrid"
)

// TimeScope is a resolved temporal constraint. Either MostRecent is set,
// or Year is set with an optional Month.
type TimeScope struct {
	Year       int        `json:"year,omitempty"`
	Month      time.Month `json:"month,omitempty"`
	MostRecent bool       `json:"most_recent,omitempty"`
}

// Range converts the scope to a half-open [start, end) UTC interval.
// MostRecent scopes have no interval; callers order by date instead.
func (s TimeScope) Range() (start, end time.Time, ok bool) {
	if s.MostRecent || s.Year == 0 {
		return time.Time{}, time.Time{}, false
	}
	if s.Month != 0 {
		start = time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		return start, end, true
	}
	start = time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(1, 0, 0)
	return start, end, true
}

// WidenToYear drops the month constraint, keeping the year.
func (s TimeScope) WidenToYear() TimeScope {
	return TimeScope{Year: s.Year}
}

// Classification is the routing decision for a question.
type Classification struct {
	Type       QueryType               `json:"query_type"`
	Scope      *TimeScope              `json:"time_scope,omitempty"`
	Region     *repository.BoundingBox `json:"region,omitempty"`
	RegionName string                  `json:"region_name,omitempty"`
	Confidence float64                 `json:"confidence"`
}
