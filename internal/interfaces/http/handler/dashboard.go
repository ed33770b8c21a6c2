package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/redis"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/dto"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 5 * time.Minute
)

// DashboardHandler serves aggregated corpus views.
type DashboardHandler struct {
	profiles repository.ProfileRepository
	cache    *redis.Cache
}

// NewDashboardHandler builds the dashboard handler.
func NewDashboardHandler(profiles repository.ProfileRepository, cache *redis.Cache) *DashboardHandler {
	return &DashboardHandler{profiles: profiles, cache: cache}
}

// Summary handles GET /v1/dashboard/summary.
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	coverage, err := redis.GetOrLoad(ctx, h.cache, dashboardCacheKey, dashboardCacheTTL,
		func(ctx context.Context) (*repository.CoverageSummary, error) {
			return h.profiles.CoverageSummary(ctx)
		})
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.DashboardSummaryResponse{Coverage: coverage})
}
