package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
	"github.com/nycaq/air-quality-viewer/services/api/views"
)

// handleTimeSeries returns chronologically ordered chart points.
// POST /api/timeseries/data
func (s *Server) handleTimeSeries(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	recs, ok := s.display(c, req)
	if !ok {
		return
	}

	level := req.level()
	ts, ok := views.BuildTimeSeries(recs, level)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}, "message": "No data available for time series"})
		return
	}

	rows := make([]gin.H, 0, len(ts.Points))
	for _, p := range ts.Points {
		row := gin.H{
			"pollutant_short": p.PollutantShort,
			ts.ValueCol:       floatJSON(p.Value),
		}
		switch level {
		case dataset.LevelSeason:
			row["date_str"] = p.Label
			row["sort_key"] = p.SortKey
		case dataset.LevelYear:
			row["year"] = p.Year
		default:
			row["date"] = dateJSON(p.Date)
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rows,
		"x_col":     ts.XCol,
		"value_col": ts.ValueCol,
		"unit":      ts.Unit,
	})
}

// ComparisonRequest wraps the base filters with comparison parameters.
type ComparisonRequest struct {
	Filters        FilterRequest `json:"filters"`
	ComparisonType string        `json:"comparison_type"`
	SelectedItems  []string      `json:"selected_items"`
	SingleFilter   string        `json:"single_filter"`
}

// handleComparison returns side-by-side statistics for boroughs or
// pollutants.
// POST /api/comparison/data
func (s *Server) handleComparison(c *gin.Context) {
	var req ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ComparisonType != views.CompareBoroughs && req.ComparisonType != views.ComparePollutants {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comparison_type must be boroughs or pollutants"})
		return
	}

	recs, ok := s.display(c, req.Filters)
	if !ok {
		return
	}
	if len(recs) == 0 {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}, "message": "No data available for comparison"})
		return
	}

	rows := views.Compare(recs, req.ComparisonType, req.SelectedItems, req.SingleFilter)
	if len(rows) == 0 {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}, "message": "No data available for comparison"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rows,
		"value_col": req.Filters.level().ValueColumn(),
		"unit":      rows[0].Unit,
	})
}
