package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func row(pollutant, borough, season string, year int, value float64) Measurement {
	return Measurement{
		Date:      date(year, 1, 1),
		Year:      year,
		Month:     1,
		Season:    season,
		Pollutant: pollutant,
		Value:     value,
		Unit:      "ppb",
		Borough:   borough,
	}
}

func TestFilterIdempotent(t *testing.T) {
	rows := []Measurement{
		row("PM2.5", "Manhattan", "Winter", 2019, 10),
		row("PM2.5", "Brooklyn", "Summer", 2020, 12),
		row("NO2", "Queens", "Winter", 2020, 20),
	}
	q := Query{Pollutants: []string{"PM2.5"}, Boroughs: []string{"Manhattan", "Brooklyn"}}

	once := Filter(rows, q)
	twice := Filter(once, q)

	assert.Len(t, once, 2)
	assert.Equal(t, once, twice)
}

func TestFilterBoroughAllSentinel(t *testing.T) {
	rows := []Measurement{
		row("PM2.5", "Manhattan", "Winter", 2019, 10),
		row("PM2.5", "Unknown", "Winter", 2019, 11),
	}

	got := Filter(rows, Query{Boroughs: []string{"All", "Manhattan"}})
	assert.Len(t, got, 2, "All anywhere in the set disables the borough filter")

	got = Filter(rows, Query{Boroughs: []string{"Manhattan"}})
	assert.Len(t, got, 1)
}

func TestFilterDateRangeInclusive(t *testing.T) {
	rows := []Measurement{
		row("PM2.5", "Manhattan", "Winter", 2018, 1),
		row("PM2.5", "Manhattan", "Winter", 2019, 2),
		row("PM2.5", "Manhattan", "Winter", 2020, 3),
	}

	start := date(2018, 1, 1)
	end := date(2019, 1, 1)
	got := Filter(rows, Query{DateStart: &start, DateEnd: &end})
	assert.Len(t, got, 2, "both bounds are inclusive")

	// One bound alone applies no date filter.
	got = Filter(rows, Query{DateStart: &start})
	assert.Len(t, got, 3)
}

func TestFilterOutliers(t *testing.T) {
	flagged := true
	clean := false
	rows := []Measurement{
		row("PM2.5", "Manhattan", "Winter", 2019, 10),
		row("PM2.5", "Manhattan", "Winter", 2019, 999),
	}
	rows[0].IsOutlier = &clean
	rows[1].IsOutlier = &flagged

	got := Filter(rows, Query{ExcludeOutliers: true})
	assert.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].Value)

	got = Filter(rows, Query{ExcludeOutliers: false})
	assert.Len(t, got, 2)
}

func TestFilterOutliersNoFlagColumn(t *testing.T) {
	rows := []Measurement{
		row("PM2.5", "Manhattan", "Winter", 2019, 10),
	}

	got := Filter(rows, Query{ExcludeOutliers: true})
	assert.Len(t, got, 1, "rows without a flag are always kept")
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	rows := []Measurement{row("PM2.5", "Manhattan", "Winter", 2019, 10)}

	got := Filter(rows, Query{Pollutants: []string{"SO2"}})
	assert.Empty(t, got)
}
