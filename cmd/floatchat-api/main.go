// Package main is the FloatChat API entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahermangesh/floatchat/internal/application/query"
	"github.com/ahermangesh/floatchat/internal/application/response"
	"github.com/ahermangesh/floatchat/internal/application/retrieval"
	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/internal/infrastructure/embedding"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/milvus"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/postgres"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/redis"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/handler"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/router"
	"github.com/ahermangesh/floatchat/pkg/logger"
	"github.com/ahermangesh/floatchat/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() {
		_ = shutdown(ctx)
	}()

	db, err := postgres.NewClient(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to init postgres", err)
	}

	rdb, err := redis.NewClient(ctx, cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", err)
	}
	defer func() { _ = rdb.Close() }()

	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Fatal(ctx, "failed to init milvus", err)
	}
	defer func() { _ = milvusClient.Close() }()

	embedder, err := embedding.New(ctx, cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}

	profileRepo := postgres.NewProfileRepo(db, cfg.Retrieval)
	floatRepo := postgres.NewFloatRepo(db)
	vectorRepo := milvus.NewRepository(milvusClient, embedder, cfg.Retrieval)
	cache := redis.NewCache(rdb)

	if err := vectorRepo.EnsureCollection(ctx); err != nil {
		// Semantic search degrades until Milvus recovers; structured
		// queries keep working.
		logger.Warn(ctx, "failed to ensure vector collection", "error", err)
	}

	classifier := query.NewClassifier(query.NewTemporalExtractor(cfg.Retrieval.MinYear, cfg.Retrieval.MaxYear))
	orchestrator := retrieval.NewOrchestrator(classifier, profileRepo, vectorRepo, cfg.Retrieval)
	assembler := response.NewAssembler()

	r := router.New(cfg, router.Handlers{
		Chat:      handler.NewChatHandler(orchestrator, assembler),
		Float:     handler.NewFloatHandler(floatRepo, profileRepo),
		Dashboard: handler.NewDashboardHandler(profileRepo, cache),
		Health:    handler.NewHealthHandler(db, rdb, milvusClient, cfg.App.Version),
	}, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "http server exited", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", err)
	}
}
