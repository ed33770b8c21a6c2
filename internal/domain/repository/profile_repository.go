// Package repository defines the data-access layer interfaces.
package repository

import (
	"context"
	"time"

	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/pkg/errors"
)

// SortOrder is the result ordering direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// BoundingBox is a geographic filter region.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// FieldCondition is an extra scalar filter on an allow-listed column.
type FieldCondition struct {
	Field string
	Op    string // one of =, !=, <, <=, >, >=
	Value any
}

// ProfileFilter is the bounded filter specification accepted by the
// structured store. All values are passed as bound parameters; field
// names are checked against the allow-list before any query is built.
type ProfileFilter struct {
	StartTime  *time.Time
	EndTime    *time.Time
	BBox       *BoundingBox
	WMOID      string
	Conditions []FieldCondition

	Limit           int
	Order           SortOrder
	ConfirmedExport bool
}

// profileFilterFields is the fixed allow-list of columns a filter may
// reference. Anything else fails the request with QueryRejected.
var profileFilterFields = map[string]struct{}{
	"profile_date":    {},
	"latitude":        {},
	"longitude":       {},
	"wmo_id":          {},
	"cycle_number":    {},
	"min_temperature": {},
	"max_temperature": {},
	"min_salinity":    {},
	"max_salinity":    {},
	"max_pressure":    {},
}

var conditionOps = map[string]struct{}{
	"=": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

// Validate checks the filter against the allow-list and bounds. It
// returns ErrQueryRejected-coded errors so the adapter can refuse the
// request before any query construction.
func (f *ProfileFilter) Validate(structuredLimit, exportLimit int) error {
	for _, c := range f.Conditions {
		if _, ok := profileFilterFields[c.Field]; !ok {
			return errors.New(errors.CodeQueryRejected, "field not allowed in filter").WithDetail(c.Field)
		}
		if _, ok := conditionOps[c.Op]; !ok {
			return errors.New(errors.CodeQueryRejected, "operator not allowed in filter").WithDetail(c.Op)
		}
	}
	if f.Limit <= 0 {
		f.Limit = structuredLimit
	}
	if f.Limit > structuredLimit && !f.ConfirmedExport {
		return errors.New(errors.CodeQueryRejected, "limit exceeds maximum without export confirmation")
	}
	if f.Limit > exportLimit {
		return errors.New(errors.CodeQueryRejected, "limit exceeds export ceiling")
	}
	switch f.Order {
	case "":
		f.Order = SortOrderAsc
	case SortOrderAsc, SortOrderDesc:
	default:
		return errors.New(errors.CodeQueryRejected, "sort order not allowed").WithDetail(string(f.Order))
	}
	return nil
}

// TimePeriod is a year or year+month bucket used for nearest-alternative
// reporting.
type TimePeriod struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month,omitempty"` // zero when whole-year
	Count int64      `json:"count"`
}

// ProfileRepository is the read-only structured store port. There is no
// mutation capability by construction.
type ProfileRepository interface {
	// Find returns profiles matching filter, capped at the validated limit.
	Find(ctx context.Context, filter ProfileFilter) ([]*entity.ProfileRecord, error)
	// NearestPeriod returns the populated period closest to the given
	// year/month, or nil when the store is empty.
	NearestPeriod(ctx context.Context, year int, month time.Month) (*TimePeriod, error)
	// CoverageSummary returns corpus-wide aggregates for dashboards.
	CoverageSummary(ctx context.Context) (*CoverageSummary, error)
}

// FloatRepository is the read-only float store port.
type FloatRepository interface {
	List(ctx context.Context, limit int) ([]*entity.Float, error)
	GetByWMOID(ctx context.Context, wmoID string) (*entity.Float, error)
}

// CoverageSummary describes the extent of the ingested corpus.
type CoverageSummary struct {
	ProfileCount int64      `json:"profile_count"`
	FloatCount   int64      `json:"float_count"`
	EarliestDate *time.Time `json:"earliest_date,omitempty"`
	LatestDate   *time.Time `json:"latest_date,omitempty"`
	MinLatitude  *float64   `json:"min_latitude,omitempty"`
	MaxLatitude  *float64   `json:"max_latitude,omitempty"`
	MinLongitude *float64   `json:"min_longitude,omitempty"`
	MaxLongitude *float64   `json:"max_longitude,omitempty"`
}
