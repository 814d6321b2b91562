package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

func TestTimeSeriesSeasonChronologicalOrder(t *testing.T) {
	// Summer listed first on purpose: the sort key must win over input
	// order and over lexicographic season names.
	recs := []dataset.Record{
		rrec("PM2.5", "Manhattan", "Summer", 2020, 20),
		rrec("PM2.5", "Manhattan", "Winter", 2020, 10),
	}

	ts, ok := BuildTimeSeries(recs, dataset.LevelSeason)
	require.True(t, ok)
	require.Len(t, ts.Points, 2)

	assert.Equal(t, "Winter 2020", ts.Points[0].Label)
	assert.Equal(t, 202001, ts.Points[0].SortKey)
	assert.Equal(t, "Summer 2020", ts.Points[1].Label)
	assert.Equal(t, 202006, ts.Points[1].SortKey)
	assert.Equal(t, "date_str", ts.XCol)
}

func TestTimeSeriesMergesNormalizedSeries(t *testing.T) {
	recs := []dataset.Record{
		rrec("Annual vehicle miles traveled (cars)", "Manhattan", "Winter", 2020, 10),
		rrec("Annual vehicle miles traveled (trucks)", "Manhattan", "Winter", 2020, 30),
	}

	ts, ok := BuildTimeSeries(recs, dataset.LevelSeason)
	require.True(t, ok)
	require.Len(t, ts.Points, 1)
	assert.Equal(t, "Vehicle Miles", ts.Points[0].PollutantShort)
	assert.InDelta(t, 20.0, ts.Points[0].Value, 1e-9)
}

func TestTimeSeriesBoroughCoverageDoesNotWeightMergedBucket(t *testing.T) {
	// Cars are observed in two boroughs, trucks in one. Each pollutant's
	// boroughs collapse to a single mean first, so the merged bucket is
	// mean(mean(10, 20), 60) and not the count-weighted mean(10, 20, 60).
	recs := []dataset.Record{
		rrec("Annual vehicle miles traveled (cars)", "Manhattan", "Winter", 2020, 10),
		rrec("Annual vehicle miles traveled (cars)", "Brooklyn", "Winter", 2020, 20),
		rrec("Annual vehicle miles traveled (trucks)", "Manhattan", "Winter", 2020, 60),
	}

	ts, ok := BuildTimeSeries(recs, dataset.LevelSeason)
	require.True(t, ok)
	require.Len(t, ts.Points, 1)
	assert.InDelta(t, 37.5, ts.Points[0].Value, 1e-9)
}

func TestTimeSeriesYearLevelCollapsesBoroughs(t *testing.T) {
	recs := []dataset.Record{
		rrec("Annual vehicle miles traveled (cars)", "Manhattan", "Annual", 2020, 10),
		rrec("Annual vehicle miles traveled (cars)", "Brooklyn", "Annual", 2020, 30),
		rrec("Annual vehicle miles traveled (trucks)", "Manhattan", "Annual", 2020, 40),
	}

	ts, ok := BuildTimeSeries(recs, dataset.LevelYear)
	require.True(t, ok)
	require.Len(t, ts.Points, 1)
	assert.InDelta(t, 30.0, ts.Points[0].Value, 1e-9)
}

func TestTimeSeriesYearLevel(t *testing.T) {
	recs := []dataset.Record{
		rrec("PM2.5", "Manhattan", "Annual", 2021, 2),
		rrec("PM2.5", "Manhattan", "Annual", 2019, 1),
	}

	ts, ok := BuildTimeSeries(recs, dataset.LevelYear)
	require.True(t, ok)
	assert.Equal(t, "year", ts.XCol)
	assert.Equal(t, "value_mean", ts.ValueCol)
	assert.Equal(t, 2019, ts.Points[0].Year)
	assert.Equal(t, 2021, ts.Points[1].Year)
}

func TestTimeSeriesMonthLevelSynthesizesDate(t *testing.T) {
	recA := rrec("PM2.5", "Manhattan", "", 2020, 1)
	recA.Month = 6
	recB := rrec("PM2.5", "Manhattan", "", 2020, 2)
	recB.Month = 2

	ts, ok := BuildTimeSeries([]dataset.Record{recA, recB}, dataset.LevelMonth)
	require.True(t, ok)
	require.Len(t, ts.Points, 2)
	assert.Equal(t, time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), ts.Points[0].Date)
	assert.Equal(t, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), ts.Points[1].Date)
}

func TestTimeSeriesEmpty(t *testing.T) {
	_, ok := BuildTimeSeries(nil, dataset.LevelSeason)
	assert.False(t, ok)
}
