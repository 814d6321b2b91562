package http

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
	"github.com/nycaq/air-quality-viewer/services/api/views"
)

const dateLayout = "2006-01-02"

// FilterRequest is the shared query body of the data endpoints.
type FilterRequest struct {
	DateRange       []string `json:"date_range"`
	Pollutants      []string `json:"pollutants"`
	Boroughs        []string `json:"boroughs"`
	ExcludeOutliers *bool    `json:"exclude_outliers"`
	AggLevel        string   `json:"agg_level"`
}

// toQuery converts the request body to a typed filter query. Outlier
// exclusion defaults to true, the aggregation level to Season.
func (r FilterRequest) toQuery() (dataset.Query, error) {
	q := dataset.Query{
		Pollutants:      r.Pollutants,
		Boroughs:        r.Boroughs,
		ExcludeOutliers: true,
	}
	if r.ExcludeOutliers != nil {
		q.ExcludeOutliers = *r.ExcludeOutliers
	}

	// Both bounds are required for the date filter to apply.
	if len(r.DateRange) == 2 {
		start, err := parseDate(r.DateRange[0])
		if err != nil {
			return q, fmt.Errorf("invalid date_range start: %w", err)
		}
		end, err := parseDate(r.DateRange[1])
		if err != nil {
			return q, fmt.Errorf("invalid date_range end: %w", err)
		}
		q.DateStart = &start
		q.DateEnd = &end
	}
	return q, nil
}

func (r FilterRequest) level() dataset.Level {
	return dataset.ParseLevel(r.AggLevel)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// bindFilter decodes the request body, tolerating an empty body as an
// all-defaults request.
func bindFilter(c *gin.Context) (FilterRequest, bool) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// display runs the filter and aggregation engines for a request.
func (s *Server) display(c *gin.Context, req FilterRequest) ([]dataset.Record, bool) {
	q, err := req.toQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	filtered := dataset.Filter(s.data.Rows, q)
	return dataset.Aggregate(filtered, req.level()), true
}

// handleMetadata returns dataset-wide metadata for populating selectors.
// GET /api/data/metadata
func (s *Server) handleMetadata(c *gin.Context) {
	minDate, maxDate := s.data.DateRange()

	pollutants := s.data.Pollutants()
	shortNames := make(map[string]string, len(pollutants))
	for _, p := range pollutants {
		shortNames[p] = dataset.ShortPollutantName(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_records": len(s.data.Rows),
		"date_range": gin.H{
			"min": dateJSON(minDate),
			"max": dateJSON(maxDate),
		},
		"pollutants":  pollutants,
		"short_names": shortNames,
		"boroughs":    s.data.Boroughs(),
	})
}

// handleFilteredData returns filtered and aggregated rows.
// POST /api/data/filtered
func (s *Server) handleFilteredData(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	recs, ok := s.display(c, req)
	if !ok {
		return
	}

	if len(recs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"data":    []gin.H{},
			"message": "No data matches the selected filters",
		})
		return
	}

	rows := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, recordJSON(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rows,
		"value_col": req.level().ValueColumn(),
		"unit":      recs[0].Unit,
	})
}

// handleKPIs returns summary metrics for the filtered view.
// POST /api/data/kpis
func (s *Server) handleKPIs(c *gin.Context) {
	req, ok := bindFilter(c)
	if !ok {
		return
	}
	recs, ok := s.display(c, req)
	if !ok {
		return
	}

	if len(recs) == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "No data matches the selected filters"})
		return
	}

	c.JSON(http.StatusOK, views.KPI(recs))
}

// recordJSON serializes a display record into the row shape the dashboard
// consumes: raw rows expose "value", aggregated rows the value_* summary
// columns.
func recordJSON(rec dataset.Record) gin.H {
	row := gin.H{
		"pollutant": rec.Pollutant,
		"unit":      rec.Unit,
	}
	if rec.Borough != "" {
		row["borough"] = rec.Borough
	}
	if d := dateJSON(rec.Date); d != nil {
		row["date"] = d
	}

	if !rec.Aggregated {
		row["year"] = rec.Year
		row["month"] = rec.Month
		row["season"] = rec.Season
		row["value"] = floatJSON(rec.Value)
		if rec.StationName != "" {
			row["station_name"] = rec.StationName
		}
		if rec.Timestamp != nil {
			row["timestamp"] = rec.Timestamp.Format(time.RFC3339)
		}
		return row
	}

	if rec.Year != 0 {
		row["year"] = rec.Year
	}
	if rec.Month != 0 {
		row["month"] = rec.Month
	}
	if rec.Season != "" {
		row["season"] = rec.Season
	}
	row["value_mean"] = floatJSON(rec.Value)
	row["value_median"] = floatJSON(rec.Median)
	row["value_min"] = floatJSON(rec.Min)
	row["value_max"] = floatJSON(rec.Max)
	row["value_count"] = rec.Count
	return row
}

// floatJSON keeps the response strictly valid JSON: NaN becomes null.
func floatJSON(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func dateJSON(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}
