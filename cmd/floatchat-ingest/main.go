// Package main backfills the vector store from the relational corpus.
// It reads profiles already loaded by the ETL, renders a one-line
// summary for each, embeds it, and inserts the result into Milvus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ahermangesh/floatchat/internal/config"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
	"github.com/ahermangesh/floatchat/internal/domain/repository"
	"github.com/ahermangesh/floatchat/internal/infrastructure/embedding"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/milvus"
	"github.com/ahermangesh/floatchat/internal/infrastructure/persistence/postgres"
	"github.com/ahermangesh/floatchat/pkg/logger"
)

func main() {
	batchSize := flag.Int("batch", 100, "profiles per insert batch")
	year := flag.Int("year", 0, "restrict backfill to one year (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	db, err := postgres.NewClient(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to init postgres", err)
	}

	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Fatal(ctx, "failed to init milvus", err)
	}
	defer func() { _ = milvusClient.Close() }()

	embedder, err := embedding.New(ctx, cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}

	// Export-sized reads are intentional here.
	ingestCfg := cfg.Retrieval
	ingestCfg.StructuredLimit = ingestCfg.ExportLimit
	profileRepo := postgres.NewProfileRepo(db, ingestCfg)
	vectorRepo := milvus.NewRepository(milvusClient, embedder, cfg.Retrieval)

	if err := vectorRepo.EnsureCollection(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure collection", err)
	}

	filter := repository.ProfileFilter{Limit: ingestCfg.ExportLimit, ConfirmedExport: true}
	if *year != 0 {
		start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		filter.StartTime = &start
		filter.EndTime = &end
	}

	records, err := profileRepo.Find(ctx, filter)
	if err != nil {
		logger.Fatal(ctx, "failed to read profiles", err)
	}
	logger.Info(ctx, "backfill started", "profiles", len(records), "batch", *batchSize)

	var batch []*milvus.ProfileSummary
	inserted := 0
	for _, rec := range records {
		text := summarize(rec)
		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			logger.Error(ctx, "embedding failed, skipping profile", err, "source", rec.SourceID())
			continue
		}
		batch = append(batch, toSummary(rec, text, vector))

		if len(batch) >= *batchSize {
			if err := vectorRepo.Insert(ctx, batch); err != nil {
				logger.Fatal(ctx, "insert failed", err)
			}
			inserted += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := vectorRepo.Insert(ctx, batch); err != nil {
			logger.Fatal(ctx, "insert failed", err)
		}
		inserted += len(batch)
	}

	logger.Info(ctx, "backfill finished", "inserted", inserted)
}

// summarize renders the embedded description of one profile.
func summarize(rec *entity.ProfileRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ARGO float %s cycle %d profiled on %s at %.2f, %.2f.",
		rec.WMOID, rec.CycleNumber, rec.ProfileDate.UTC().Format("2006-01-02"),
		rec.Latitude, rec.Longitude)
	if rec.MinTemperature != nil && rec.MaxTemperature != nil {
		fmt.Fprintf(&b, " Temperature %.1f to %.1f C.", *rec.MinTemperature, *rec.MaxTemperature)
	}
	if rec.MinSalinity != nil && rec.MaxSalinity != nil {
		fmt.Fprintf(&b, " Salinity %.1f to %.1f PSU.", *rec.MinSalinity, *rec.MaxSalinity)
	}
	if rec.MaxPressure != nil {
		fmt.Fprintf(&b, " Maximum pressure %.0f dbar.", *rec.MaxPressure)
	}
	return b.String()
}

func toSummary(rec *entity.ProfileRecord, text string, vector []float32) *milvus.ProfileSummary {
	s := &milvus.ProfileSummary{
		ID:          rec.ID,
		Vector:      vector,
		WMOID:       rec.WMOID,
		CycleNumber: int64(rec.CycleNumber),
		ProfileDate: rec.ProfileDate.UTC().Unix(),
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Summary:     text,
	}
	if rec.MinTemperature != nil {
		s.MinTemperature = *rec.MinTemperature
	}
	if rec.MaxTemperature != nil {
		s.MaxTemperature = *rec.MaxTemperature
	}
	if rec.MinSalinity != nil {
		s.MinSalinity = *rec.MinSalinity
	}
	if rec.MaxSalinity != nil {
		s.MaxSalinity = *rec.MaxSalinity
	}
	return s
}
