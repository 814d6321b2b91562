package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nycaq/air-quality-viewer/services/api/analytics"
	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// AQIRequest scores a single raw concentration.
type AQIRequest struct {
	Pollutant string  `json:"pollutant" binding:"required"`
	Value     float64 `json:"value"`
}

// handleAQI scores one pollutant concentration on the EPA index.
// POST /api/analytics/aqi
func (s *Server) handleAQI(c *gin.Context) {
	var req AQIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics.CalculateAQI(req.Pollutant, req.Value))
}

// filteredRows applies only the filter engine; the analytics views work on
// unaggregated measurements.
func (s *Server) filteredRows(c *gin.Context, req FilterRequest) ([]dataset.Measurement, bool) {
	q, err := req.toQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return dataset.Filter(s.data.Rows, q), true
}

// handleTrends returns year-over-year regressions per pollutant.
// POST /api/analytics/trends
func (s *Server) handleTrends(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	rows, ok := s.filteredRows(c, req)
	if !ok {
		return
	}

	trends := analytics.Trends(rows)
	if len(trends) == 0 {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}, "message": "Not enough yearly data for trend analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trends})
}

// handleSeasonal returns best/worst season detection per pollutant.
// POST /api/analytics/seasonal
func (s *Server) handleSeasonal(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	rows, ok := s.filteredRows(c, req)
	if !ok {
		return
	}

	patterns := analytics.SeasonalPatterns(rows)
	if len(patterns) == 0 {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}, "message": "No seasonal data available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": patterns})
}

// handleCorrelation returns the pairwise Pearson analysis.
// POST /api/analytics/correlation
func (s *Server) handleCorrelation(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	rows, ok := s.filteredRows(c, req)
	if !ok {
		return
	}

	result, ok := analytics.Correlations(rows)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{}, "message": "Not enough overlapping data for correlation"})
		return
	}
	c.JSON(http.StatusOK, result)
}
