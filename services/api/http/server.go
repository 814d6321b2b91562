package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"

	"github.com/nycaq/air-quality-viewer/services/api/config"
	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// Server bundles router and dependencies for the REST API. The dataset and
// geography handles are loaded once at startup and shared read-only by
// every handler.
type Server struct {
	cfg    config.Config
	data   *dataset.Dataset
	geo    *geojson.FeatureCollection
	engine *gin.Engine
}

// New constructs a server with routes and middleware. geoData may be nil;
// map endpoints then report the geography as unavailable.
func New(cfg config.Config, data *dataset.Dataset, geoData *geojson.FeatureCollection) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware(cfg.AllowOrigin))

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, data: data, geo: geoData, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "NYC Air Quality API"})
	})
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")

	data := api.Group("/data")
	{
		data.GET("/metadata", s.handleMetadata)
		data.POST("/filtered", s.handleFilteredData)
		data.POST("/kpis", s.handleKPIs)
	}

	api.GET("/map/geojson", s.handleGeoJSON)
	api.POST("/map/data", s.handleMapData)
	api.POST("/heatmap/data", s.handleHeatmapData)
	api.POST("/timeseries/data", s.handleTimeSeries)
	api.POST("/comparison/data", s.handleComparison)

	analytics := api.Group("/analytics")
	{
		analytics.POST("/aqi", s.handleAQI)
		analytics.POST("/trends", s.handleTrends)
		analytics.POST("/seasonal", s.handleSeasonal)
		analytics.POST("/correlation", s.handleCorrelation)
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
