package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	Port        int
	DataPaths   []string
	GeoPaths    []string
	BearerToken string
	AllowOrigin string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port: 8000,
		DataPaths: []string{
			"data/processed/measurements.parquet",
			"../data/processed/measurements.parquet",
		},
		GeoPaths: []string{
			"new-york-city-boroughs.geojson",
			"../new-york-city-boroughs.geojson",
		},
		AllowOrigin: "*",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if paths := os.Getenv("DATA_PATHS"); paths != "" {
		cfg.DataPaths = splitPaths(paths)
	}
	if paths := os.Getenv("GEOJSON_PATHS"); paths != "" {
		cfg.GeoPaths = splitPaths(paths)
	}
	if origin := os.Getenv("CORS_ALLOW_ORIGIN"); origin != "" {
		cfg.AllowOrigin = origin
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
