package dto

import (
	"github.com/ahermangesh/floatchat/internal/domain/repository"
)

// DashboardSummaryResponse is the corpus coverage summary.
type DashboardSummaryResponse struct {
	Coverage *repository.CoverageSummary `json:"coverage"`
}
