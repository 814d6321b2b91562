package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings for one ingestion run.
type Config struct {
	Domain         string
	DatasetID      string
	AppToken       string
	PageLimit      int
	MaxRecords     int
	OutputPath     string
	RequestTimeout time.Duration
	DryRun         bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Domain:         "data.cityofnewyork.us",
		DatasetID:      "c3uy-2p5r",
		PageLimit:      1000,
		MaxRecords:     50000,
		OutputPath:     "data/processed/measurements.parquet",
		RequestTimeout: 30 * time.Second,
	}

	if domain := os.Getenv("SOCRATA_DOMAIN"); domain != "" {
		cfg.Domain = domain
	}
	if id := os.Getenv("SOCRATA_DATASET_ID"); id != "" {
		cfg.DatasetID = id
	}
	cfg.AppToken = os.Getenv("SOCRATA_APP_TOKEN")

	if limitStr := os.Getenv("SOCRATA_PAGE_LIMIT"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return cfg, fmt.Errorf("invalid SOCRATA_PAGE_LIMIT: %s", limitStr)
		}
		cfg.PageLimit = limit
	}
	if maxStr := os.Getenv("SOCRATA_MAX_RECORDS"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil || max <= 0 {
			return cfg, fmt.Errorf("invalid SOCRATA_MAX_RECORDS: %s", maxStr)
		}
		cfg.MaxRecords = max
	}
	if out := os.Getenv("INGEST_OUTPUT_PATH"); out != "" {
		cfg.OutputPath = out
	}
	if timeoutStr := os.Getenv("INGEST_REQUEST_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return cfg, fmt.Errorf("invalid INGEST_REQUEST_TIMEOUT: %s", timeoutStr)
		}
		cfg.RequestTimeout = timeout
	}
	if dryStr := os.Getenv("INGEST_DRY_RUN"); dryStr != "" {
		dry, err := strconv.ParseBool(dryStr)
		if err != nil {
			return cfg, fmt.Errorf("invalid INGEST_DRY_RUN: %s", dryStr)
		}
		cfg.DryRun = dry
	}

	return cfg, nil
}
