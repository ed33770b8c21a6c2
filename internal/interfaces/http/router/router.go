// Package router configures the HTTP routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/handler"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/middleware"
)

// Handlers bundles the route handlers.
type Handlers struct {
	Chat      *handler.ChatHandler
	Float     *handler.FloatHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Router is the HTTP router.
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	rdb      *redis.Client
}

// New builds the router with middleware and routes installed.
func New(cfg *config.Config, handlers Handlers, rdb *redis.Client) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		rdb:      rdb,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine returns the gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.NewRateLimitMiddleware(r.cfg.Security.RateLimit, r.rdb))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	{
		chat := v1.Group("/chat")
		{
			chat.POST("/query", r.handlers.Chat.Query)
		}

		floats := v1.Group("/floats")
		{
			floats.GET("", r.handlers.Float.List)
			floats.GET("/:wmo_id", r.handlers.Float.Get)
			floats.GET("/:wmo_id/profiles", r.handlers.Float.Profiles)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", r.handlers.Dashboard.Summary)
		}
	}
}
