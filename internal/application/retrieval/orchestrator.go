package retrieval

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/ahermangesh/floatchat/internal/application/query"
	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/pkg/errors"
	"github.com/ahermangesh/floatchat/pkg/logger"
	"github.com/ahermangesh/floatchat/pkg/metrics"
)

var tracer = otel.Tracer("application/retrieval")

// mostRecentLimit caps the descending lookup for "latest" questions.
const mostRecentLimit = 5

// Orchestrator routes classified questions to the structured store, the
// vector store, or both, and normalizes the outcome into a single Result.
type Orchestrator struct {
	classifier *query.Classifier
	structured StructuredStore
	vector     VectorStore
	cfg        config.RetrievalConfig
}

// NewOrchestrator builds the retrieval orchestrator.
func NewOrchestrator(classifier *query.Classifier, structured StructuredStore, vector VectorStore, cfg config.RetrievalConfig) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		structured: structured,
		vector:     vector,
		cfg:        cfg,
	}
}

// Retrieve classifies text and executes the selected route. Backend
// faults on any route degrade to an empty low-confidence result that
// names the unavailable side; an error is returned only for
// caller-fault conditions such as a rejected filter.
func (o *Orchestrator) Retrieve(ctx context.Context, text string, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.Retrieve")
	defer span.End()

	cls := o.classifier.Classify(text)
	span.SetAttributes(
		attribute.String("query.type", string(cls.Type)),
		attribute.Float64("query.confidence", cls.Confidence),
	)

	if opts.TopK <= 0 || opts.TopK > o.cfg.VectorTopKMax {
		opts.TopK = o.cfg.VectorTopK
	}

	var (
		res *Result
		err error
	)
	start := time.Now()
	switch cls.Type {
	case query.QueryTypeTemporal:
		res, err = o.retrieveStructured(ctx, cls, opts)
	case query.QueryTypeSemantic:
		res, err = o.retrieveVector(ctx, text, cls, opts)
	default:
		res, err = o.retrieveHybrid(ctx, text, cls, opts)
	}
	metrics.RetrievalDuration.WithLabelValues(string(cls.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		appErr := errors.AsAppError(asRetrievalError(err))
		if appErr.Code != errors.CodeBackendUnavailable {
			return nil, appErr
		}
		logger.Error(ctx, "retrieval degraded, backend unavailable", appErr, "query_type", string(cls.Type))
		metrics.RetrievalFallbacksTotal.WithLabelValues("backend_unavailable").Inc()
		res = degradedResult(cls.Type)
	}

	res.Classification = cls
	res.Band = o.band(res)
	return res, nil
}

// degradedResult is the empty answer shape used when the backends a
// route depends on are unavailable.
func degradedResult(t query.QueryType) *Result {
	switch t {
	case query.QueryTypeTemporal:
		return &Result{Backend: BackendStructured, PartialFailure: string(BackendStructured)}
	case query.QueryTypeSemantic:
		return &Result{Backend: BackendVector, PartialFailure: string(BackendVector)}
	default:
		return &Result{Backend: BackendBoth, PartialFailure: "structured and vector"}
	}
}

// retrieveStructured serves temporal and region-filtered lookups from
// the relational store, widening a month scope to its year once before
// reporting the nearest populated period.
func (o *Orchestrator) retrieveStructured(ctx context.Context, cls query.Classification, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.retrieveStructured")
	defer span.End()

	filter := o.buildFilter(cls, opts)
	records, err := o.findStructured(ctx, filter)
	if err != nil {
		return nil, err
	}
	metrics.StructuredRowsReturned.Observe(float64(len(records)))

	res := &Result{Backend: BackendStructured}
	for _, rec := range records {
		res.Records = append(res.Records, ScoredRecord{Record: rec, Origin: BackendStructured})
	}
	if len(records) > 0 {
		return res, nil
	}

	// Empty month: retry over the whole year, once.
	if cls.Scope != nil && cls.Scope.Month != 0 && !cls.Scope.MostRecent {
		widened := cls
		yearScope := cls.Scope.WidenToYear()
		widened.Scope = &yearScope
		records, err = o.findStructured(ctx, o.buildFilter(widened, opts))
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			metrics.RetrievalFallbacksTotal.WithLabelValues("widen_to_year").Inc()
			res.WidenedToYear = true
			for _, rec := range records {
				res.Records = append(res.Records, ScoredRecord{Record: rec, Origin: BackendStructured})
			}
			return res, nil
		}
	}

	if cls.Scope != nil && !cls.Scope.MostRecent {
		alt, altErr := o.structured.NearestPeriod(ctx, cls.Scope.Year, cls.Scope.Month)
		if altErr != nil {
			logger.Warn(ctx, "nearest period lookup failed", "error", altErr)
		} else if alt != nil {
			res.Alternative = alt
		}
	}
	return res, nil
}

func (o *Orchestrator) findStructured(ctx context.Context, filter repository.ProfileFilter) ([]*entity.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()
	return o.structured.Find(ctx, filter)
}

// retrieveVector serves open-ended questions from the vector store.
func (o *Orchestrator) retrieveVector(ctx context.Context, text string, cls query.Classification, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.retrieveVector")
	defer span.End()

	sctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()
	matches, err := o.vector.Search(sctx, text, opts.TopK, cls.Region)
	if err != nil {
		return nil, err
	}

	res := &Result{Backend: BackendVector}
	for _, m := range matches {
		res.Records = append(res.Records, ScoredRecord{Record: m.Record, Similarity: m.Similarity, Origin: BackendVector})
	}
	return res, nil
}

// retrieveHybrid fans out to both stores concurrently, merges with
// structured precedence, and degrades rather than fails when one side
// errors.
func (o *Orchestrator) retrieveHybrid(ctx context.Context, text string, cls query.Classification, opts Options) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.retrieveHybrid")
	defer span.End()

	var (
		structuredRes *Result
		vectorRes     *Result
		structuredErr error
		vectorErr     error
	)

	var g errgroup.Group
	g.Go(func() error {
		structuredRes, structuredErr = o.retrieveStructured(ctx, cls, opts)
		return nil
	})
	g.Go(func() error {
		vectorRes, vectorErr = o.retrieveVector(ctx, text, cls, opts)
		return nil
	})
	_ = g.Wait()

	switch {
	case structuredErr != nil && vectorErr != nil:
		logger.Error(ctx, "both retrieval backends failed", structuredErr, "vector_error", vectorErr)
		return nil, errors.Wrap(structuredErr, errors.CodeBackendUnavailable, "data backends unavailable")
	case structuredErr != nil:
		metrics.RetrievalFallbacksTotal.WithLabelValues("structured_failed").Inc()
		vectorRes.PartialFailure = string(BackendStructured)
		return vectorRes, nil
	case vectorErr != nil:
		metrics.RetrievalFallbacksTotal.WithLabelValues("vector_failed").Inc()
		structuredRes.PartialFailure = string(BackendVector)
		return structuredRes, nil
	}

	merged := &Result{
		Backend:       BackendBoth,
		WidenedToYear: structuredRes.WidenedToYear,
		Alternative:   structuredRes.Alternative,
	}

	seen := make(map[string]int, len(structuredRes.Records))
	for _, sr := range structuredRes.Records {
		seen[sr.Record.SourceID()] = len(merged.Records)
		merged.Records = append(merged.Records, sr)
	}
	for _, vr := range vectorRes.Records {
		if idx, ok := seen[vr.Record.SourceID()]; ok {
			// Structured copy wins; keep the similarity as corroboration.
			merged.Records[idx].Similarity = vr.Similarity
			merged.Records[idx].Origin = BackendBoth
			continue
		}
		merged.Records = append(merged.Records, vr)
	}

	return merged, nil
}

// asRetrievalError keeps caller-fault errors as-is and maps backend
// faults to BackendUnavailable so Retrieve can degrade them uniformly.
func asRetrievalError(err error) error {
	appErr := errors.AsAppError(err)
	switch appErr.Code {
	case errors.CodeQueryRejected, errors.CodeMalformedQuery, errors.CodeBackendUnavailable:
		return appErr
	default:
		return errors.Wrap(err, errors.CodeBackendUnavailable, "data backend unavailable")
	}
}

// buildFilter translates a classification into a bounded store filter.
func (o *Orchestrator) buildFilter(cls query.Classification, opts Options) repository.ProfileFilter {
	filter := repository.ProfileFilter{
		BBox:            cls.Region,
		Limit:           opts.Limit,
		ConfirmedExport: opts.ConfirmedExport,
		Order:           repository.SortOrderAsc,
	}
	if cls.Scope != nil {
		if cls.Scope.MostRecent {
			filter.Order = repository.SortOrderDesc
			filter.Limit = mostRecentLimit
			return filter
		}
		if start, end, ok := cls.Scope.Range(); ok {
			filter.StartTime = &start
			filter.EndTime = &end
		}
	}
	return filter
}

// band assigns the confidence band from corroboration strength and
// cross-backend agreement.
func (o *Orchestrator) band(res *Result) ConfidenceBand {
	if res.Count() == 0 {
		return ConfidenceLow
	}

	structuredCount := 0
	for _, r := range res.Records {
		if r.Origin != BackendVector {
			structuredCount++
		}
	}

	band := ConfidenceMedium
	if structuredCount >= o.cfg.MinCorroborating {
		band = ConfidenceHigh
	}
	if res.WidenedToYear || res.PartialFailure != "" {
		band = band.Downgrade()
	}
	if res.Backend == BackendBoth && o.regionDisagreement(res) {
		band = band.Downgrade()
	}
	return band
}

// regionDisagreement reports whether fewer than half of the vector-side
// matches fall inside the classified region.
func (o *Orchestrator) regionDisagreement(res *Result) bool {
	region := res.Classification.Region
	if region == nil {
		return false
	}
	total, inside := 0, 0
	for _, r := range res.Records {
		if r.Origin == BackendStructured {
			continue
		}
		total++
		if region.Contains(r.Record.Latitude, r.Record.Longitude) {
			inside++
		}
	}
	return total > 0 && inside*2 < total
}
