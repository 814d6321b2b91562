package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/nycaq/air-quality-viewer/services/api/config"
	"github.com/nycaq/air-quality-viewer/services/api/dataset"
	"github.com/nycaq/air-quality-viewer/services/api/geo"
	httpserver "github.com/nycaq/air-quality-viewer/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	data, err := dataset.Load(cfg.DataPaths...)
	if err != nil {
		log.Fatalf("dataset error: %v", err)
	}
	log.Printf("loaded %d measurements", len(data.Rows))

	geoData, err := geo.Load(cfg.GeoPaths...)
	if err != nil {
		if !errors.Is(err, geo.ErrGeoNotFound) {
			log.Fatalf("geojson error: %v", err)
		}
		// Map endpoints degrade to "unavailable" without geography.
		log.Printf("geojson unavailable: %v", err)
		geoData = nil
	}

	srv := httpserver.New(cfg, data, geoData)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
