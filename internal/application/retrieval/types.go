package retrieval

import (
	"github.com/ahermangesh/floatchat/internal/application/query"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

// Backend names the store(s) that produced a result.
type Backend string

const (
	BackendStructured Backend = "structured"
	BackendVector     Backend = "vector"
	BackendBoth       Backend = "both"
)

// ConfidenceBand is the coarse trust level attached to a result.
type ConfidenceBand string

const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// Downgrade lowers the band one step.
func (b ConfidenceBand) Downgrade() ConfidenceBand {
	switch b {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ScoredRecord is one retrieved profile with its provenance. Similarity
// is zero for records that came from the structured store only.
type ScoredRecord struct {
	Record     *entity.ProfileRecord
	Similarity float64
	Origin     Backend
}

// Options tunes a single retrieval call.
type Options struct {
	Limit           int
	TopK            int
	ConfirmedExport bool
}

// Result is the outcome of one routed retrieval.
type Result struct {
	Classification query.Classification
	Records        []ScoredRecord
	Backend        Backend
	Band           ConfidenceBand

	// WidenedToYear is set when an empty month-scoped query was retried
	// over the whole year.
	WidenedToYear bool
	// Alternative names the closest populated period when the requested
	// one had no data.
	Alternative *repository.TimePeriod
	// PartialFailure carries the backend name when one side of a hybrid
	// fan-out failed and the result is the surviving side.
	PartialFailure string
}

// Count returns the number of retrieved records.
func (r *Result) Count() int {
	return len(r.Records)
}
