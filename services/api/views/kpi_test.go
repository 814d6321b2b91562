package views

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

func mrow(pollutant, borough, season string, year int, value float64) dataset.Measurement {
	return dataset.Measurement{
		Date:      time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		Year:      year,
		Month:     1,
		Season:    season,
		Pollutant: pollutant,
		Value:     value,
		Unit:      "ppb",
		Borough:   borough,
	}
}

func rrec(pollutant, borough, season string, year int, value float64) dataset.Record {
	return dataset.Record{
		Date:      time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		Year:      year,
		Month:     1,
		Season:    season,
		Pollutant: pollutant,
		Value:     value,
		Unit:      "ppb",
		Borough:   borough,
	}
}

func TestKPISummary(t *testing.T) {
	recs := []dataset.Record{
		rrec("PM2.5", "Manhattan", "Winter", 2019, 1),
		rrec("PM2.5", "Manhattan", "Winter", 2019, 2),
		rrec("PM2.5", "Manhattan", "Winter", 2019, 3),
		rrec("PM2.5", "Manhattan", "Winter", 2019, 4),
	}

	summary := KPI(recs)
	assert.InDelta(t, 2.5, summary.Mean, 1e-9)
	assert.InDelta(t, 2.5, summary.Median, 1e-9)
	assert.InDelta(t, 1.75, summary.P25, 1e-9)
	assert.InDelta(t, 3.25, summary.P75, 1e-9)
	assert.InDelta(t, 3.85, summary.P95, 1e-9)
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, "ppb", summary.Unit)
}

func TestKPIZeroRows(t *testing.T) {
	summary := KPI(nil)
	assert.Equal(t, KPISummary{}, summary)
}

func TestKPIAllNaN(t *testing.T) {
	recs := []dataset.Record{rrec("PM2.5", "Manhattan", "Winter", 2019, math.NaN())}

	summary := KPI(recs)
	assert.Equal(t, 1, summary.Count)
	assert.Zero(t, summary.Mean)
}
