package query

import (
	"strings"
)

// semanticMarkers signal that the question wants similarity, comparison,
// or explanation rather than a plain filtered lookup.
var semanticMarkers = []string{
	"similar", "like", "compare", "comparison", "versus", " vs ",
	"pattern", "trend", "anomal", "unusual", "typical", "characteristic",
	"why", "explain", "describe", "relationship", "correlat",
}

// structuredMarkers signal a filtered lookup over measured fields.
var structuredMarkers = []string{
	"temperature", "salinity", "pressure", "depth",
	"profile", "float", "wmo", "cycle",
	"how many", "count", "number of", "list", "show me", "average",
	"min", "max", "warmest", "coldest", "saltiest",
}

// Classifier decides the retrieval route for a question. Classification
// is pure and never fails; an unparseable question degrades to a
// low-confidence semantic route.
type Classifier struct {
	temporal *TemporalExtractor
}

// NewClassifier builds a classifier with the given temporal extractor.
func NewClassifier(temporal *TemporalExtractor) *Classifier {
	return &Classifier{temporal: temporal}
}

// Classify routes text to temporal, semantic, or hybrid retrieval and
// attaches any extracted time scope and region.
func (c *Classifier) Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Classification{Type: QueryTypeSemantic, Confidence: 0.1}
	}

	lower := strings.ToLower(trimmed)
	scope := c.temporal.Extract(trimmed)
	regionName, region := MatchRegion(trimmed)

	semantic := containsAny(lower, semanticMarkers)
	structured := containsAny(lower, structuredMarkers)

	cls := Classification{
		Scope:      scope,
		Region:     region,
		RegionName: regionName,
	}

	switch {
	case scope != nil && (semantic || structured || region != nil):
		// A time reference combined with any region, measured-field, or
		// similarity cue needs both stores merged.
		cls.Type = QueryTypeHybrid
		cls.Confidence = 0.8
	case scope != nil:
		cls.Type = QueryTypeTemporal
		cls.Confidence = temporalConfidence(scope)
	case semantic && structured:
		cls.Type = QueryTypeHybrid
		cls.Confidence = 0.7
	default:
		// Geographic or scientific-entity cues without a time reference
		// stay on the semantic route.
		cls.Type = QueryTypeSemantic
		cls.Confidence = 0.6
		if !semantic && !structured {
			cls.Confidence = 0.3
		}
	}

	return cls
}

// temporalConfidence scores scope specificity: a concrete year+month is
// the most certain, a bare year less so, a relative phrase least.
func temporalConfidence(scope *TimeScope) float64 {
	switch {
	case scope.MostRecent:
		return 0.7
	case scope.Month != 0:
		return 0.9
	default:
		return 0.8
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
