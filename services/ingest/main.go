package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
	"github.com/nycaq/air-quality-viewer/services/ingest/internal/config"
	"github.com/nycaq/air-quality-viewer/services/ingest/internal/socrata"
	"github.com/nycaq/air-quality-viewer/services/ingest/internal/transform"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := &socrata.Client{
		Domain:     cfg.Domain,
		AppToken:   cfg.AppToken,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
	}

	records, err := client.FetchAll(ctx, cfg.DatasetID, cfg.PageLimit, cfg.MaxRecords)
	if err != nil {
		return err
	}
	log.Printf("fetched %d records (dataset=%s)", len(records), cfg.DatasetID)

	rows := transform.BuildMeasurements(records)
	transform.MarkOutliers(rows)

	outliers := 0
	for _, m := range rows {
		if m.IsOutlier != nil && *m.IsOutlier {
			outliers++
		}
	}
	log.Printf("prepared %d rows (%d flagged as outliers)", len(rows), outliers)

	if cfg.DryRun {
		log.Printf("dry-run: skipping write to %s", cfg.OutputPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return err
	}
	if err := dataset.Write(cfg.OutputPath, rows); err != nil {
		return err
	}
	log.Printf("wrote %s", cfg.OutputPath)
	return nil
}
