package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
	"github.com/nycaq/air-quality-viewer/services/api/geo"
	"github.com/nycaq/air-quality-viewer/services/api/views"
)

// handleGeoJSON serves the borough geography. A missing geography file is a
// degraded state, not a server failure.
// GET /api/map/geojson
func (s *Server) handleGeoJSON(c *gin.Context) {
	if s.geo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "GeoJSON file not found"})
		return
	}
	c.JSON(http.StatusOK, s.geo)
}

// handleMapData returns per-borough averages for the choropleth.
// POST /api/map/data
func (s *Server) handleMapData(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	q, err := req.toQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filtered := dataset.Filter(s.data.Rows, q)

	choro, ok := views.Choropleth(filtered, req.Pollutants)
	if !ok {
		message := "No data available for map"
		if choro.Pollutant != dataset.BoroughAll {
			message = fmt.Sprintf("No data available for %s", choro.Pollutant)
		}
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}, "message": message})
		return
	}

	// Flag boroughs missing from the geography so the UI can grey them out.
	rows := make([]gin.H, 0, len(choro.Rows))
	for _, row := range choro.Rows {
		entry := gin.H{
			"borough":   row.Borough,
			"avg_value": floatJSON(row.AvgValue),
		}
		if s.geo != nil {
			entry["has_geometry"] = geo.HasFeature(s.geo, row.Borough)
		}
		rows = append(rows, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":            rows,
		"pollutant":       choro.Pollutant,
		"unit":            choro.Unit,
		"geo_unavailable": s.geo == nil,
	})
}

// handleHeatmapData returns the borough x pollutant pivot.
// POST /api/heatmap/data
func (s *Server) handleHeatmapData(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	q, err := req.toQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filtered := dataset.Filter(s.data.Rows, q)

	hm, ok := views.BuildHeatmap(filtered)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}, "message": "No data available for heatmap"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       hm.Values,
		"boroughs":   hm.Boroughs,
		"pollutants": hm.Pollutants,
		"unit":       hm.Unit,
	})
}
