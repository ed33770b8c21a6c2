package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/pkg/errors"
)

// FloatRepo is the read-only store over argo_floats.
type FloatRepo struct {
	db *gorm.DB
}

// NewFloatRepo builds the float repository.
func NewFloatRepo(db *gorm.DB) *FloatRepo {
	return &FloatRepo{db: db}
}

var _ repository.FloatRepository = (*FloatRepo)(nil)

// List returns floats ordered by WMO id.
func (r *FloatRepo) List(ctx context.Context, limit int) ([]*entity.Float, error) {
	ctx, span := tracer.Start(ctx, "FloatRepo.List")
	defer span.End()

	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var floats []*entity.Float
	err := r.db.WithContext(ctx).
		Order("wmo_id ASC").
		Limit(limit).
		Find(&floats).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list floats")
	}
	return floats, nil
}

// GetByWMOID returns one float by its WMO identifier.
func (r *FloatRepo) GetByWMOID(ctx context.Context, wmoID string) (*entity.Float, error) {
	ctx, span := tracer.Start(ctx, "FloatRepo.GetByWMOID")
	defer span.End()

	var f entity.Float
	err := r.db.WithContext(ctx).Where("wmo_id = ?", wmoID).First(&f).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "float not found").WithDetail(wmoID)
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load float")
	}
	return &f, nil
}
