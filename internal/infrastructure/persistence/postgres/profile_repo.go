package postgres

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/pkg/errors"
)

var tracer = otel.Tracer("infrastructure/postgres")

// ProfileRepo is the read-only structured store over argo_profiles.
// Every predicate is built from the validated filter with bound
// parameters; no caller-supplied SQL ever reaches the database.
type ProfileRepo struct {
	db  *gorm.DB
	cfg config.RetrievalConfig
}

// NewProfileRepo builds the profile repository.
func NewProfileRepo(db *gorm.DB, cfg config.RetrievalConfig) *ProfileRepo {
	return &ProfileRepo{db: db, cfg: cfg}
}

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// Find returns profiles matching the filter, ordered by profile date.
func (r *ProfileRepo) Find(ctx context.Context, filter repository.ProfileFilter) ([]*entity.ProfileRecord, error) {
	ctx, span := tracer.Start(ctx, "ProfileRepo.Find")
	defer span.End()

	if err := filter.Validate(r.cfg.StructuredLimit, r.cfg.ExportLimit); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("filter.limit", filter.Limit))

	q := r.db.WithContext(ctx).Model(&entity.ProfileRecord{})
	if filter.StartTime != nil {
		q = q.Where("profile_date >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		q = q.Where("profile_date < ?", *filter.EndTime)
	}
	if filter.BBox != nil {
		q = q.Where("latitude BETWEEN ? AND ?", filter.BBox.MinLat, filter.BBox.MaxLat).
			Where("longitude BETWEEN ? AND ?", filter.BBox.MinLon, filter.BBox.MaxLon)
	}
	if filter.WMOID != "" {
		q = q.Where("wmo_id = ?", filter.WMOID)
	}
	for _, c := range filter.Conditions {
		q = q.Where(fmt.Sprintf("%s %s ?", c.Field, c.Op), c.Value)
	}

	var records []*entity.ProfileRecord
	err := q.Order("profile_date " + string(filter.Order)).
		Limit(filter.Limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query profiles")
	}
	return records, nil
}

// periodRow is the grouped year/month count used by NearestPeriod.
type periodRow struct {
	Year  int
	Month int
	Count int64
}

// NearestPeriod returns the populated year/month bucket closest to the
// requested one, or nil when the table is empty.
func (r *ProfileRepo) NearestPeriod(ctx context.Context, year int, month time.Month) (*repository.TimePeriod, error) {
	ctx, span := tracer.Start(ctx, "ProfileRepo.NearestPeriod")
	defer span.End()

	var rows []periodRow
	err := r.db.WithContext(ctx).Model(&entity.ProfileRecord{}).
		Select("EXTRACT(YEAR FROM profile_date)::int AS year, EXTRACT(MONTH FROM profile_date)::int AS month, COUNT(*) AS count").
		Group("year, month").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to aggregate periods")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if month == 0 {
		month = time.June // midpoint when only a year was asked for
	}
	target := year*12 + int(month) - 1

	best := rows[0]
	bestDist := absInt(best.Year*12 + best.Month - 1 - target)
	for _, row := range rows[1:] {
		d := absInt(row.Year*12 + row.Month - 1 - target)
		if d < bestDist || (d == bestDist && row.Count > best.Count) {
			best, bestDist = row, d
		}
	}

	return &repository.TimePeriod{Year: best.Year, Month: time.Month(best.Month), Count: best.Count}, nil
}

// CoverageSummary aggregates the whole corpus for dashboard use.
func (r *ProfileRepo) CoverageSummary(ctx context.Context) (*repository.CoverageSummary, error) {
	ctx, span := tracer.Start(ctx, "ProfileRepo.CoverageSummary")
	defer span.End()

	var out repository.CoverageSummary
	err := r.db.WithContext(ctx).Model(&entity.ProfileRecord{}).
		Select("COUNT(*) AS profile_count, COUNT(DISTINCT wmo_id) AS float_count, MIN(profile_date) AS earliest_date, MAX(profile_date) AS latest_date, MIN(latitude) AS min_latitude, MAX(latitude) AS max_latitude, MIN(longitude) AS min_longitude, MAX(longitude) AS max_longitude").
		Scan(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to summarize coverage")
	}
	return &out, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
