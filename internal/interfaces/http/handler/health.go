package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/milvus"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/postgres"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db      *gorm.DB
	rdb     *goredis.Client
	vectors *milvus.Client
	version string
}

// NewHealthHandler builds the health handler.
func NewHealthHandler(db *gorm.DB, rdb *goredis.Client, vectors *milvus.Client, version string) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, vectors: vectors, version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Live handles GET /live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready handles GET /ready. Postgres and Redis are required; a Milvus
// outage degrades semantic search but leaves the service answerable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true

	if err := postgres.Ping(ctx, h.db); err != nil {
		checks["postgres"] = err.Error()
		ready = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		ready = false
	} else {
		checks["redis"] = "ok"
	}

	if err := h.vectors.HealthCheck(ctx); err != nil {
		checks["milvus"] = "degraded: " + err.Error()
	} else {
		checks["milvus"] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ready":  ready,
		"checks": checks,
	})
}
