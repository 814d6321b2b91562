package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

func TestHeatmapCanonicalBoroughOrder(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("PM2.5", "Bronx", "Winter", 2019, 10),
		mrow("PM2.5", "Manhattan", "Winter", 2019, 20),
	}

	hm, ok := BuildHeatmap(rows)
	require.True(t, ok)
	assert.Equal(t, []string{"Manhattan", "Bronx"}, hm.Boroughs,
		"canonical order, never alphabetical")
}

func TestHeatmapMergesVehicleSeries(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("Annual vehicle miles traveled (cars)", "Manhattan", "Winter", 2019, 10),
		mrow("Annual vehicle miles traveled (trucks)", "Manhattan", "Winter", 2019, 30),
	}

	hm, ok := BuildHeatmap(rows)
	require.True(t, ok)
	assert.Equal(t, []string{"Vehicle Miles"}, hm.Pollutants)
	assert.InDelta(t, 20.0, hm.Values["Manhattan"]["Vehicle Miles"], 1e-9)
}

func TestHeatmapRoundsToTwoDecimals(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("PM2.5", "Queens", "Winter", 2019, 10.0/3.0),
	}

	hm, ok := BuildHeatmap(rows)
	require.True(t, ok)
	assert.Equal(t, 3.33, hm.Values["Queens"]["PM2.5"])
}

func TestHeatmapDedupesTruncationCollisions(t *testing.T) {
	// Two distinct labels sharing the same 25-char prefix must stay
	// addressable as separate columns.
	a := strings.Repeat("z", 25) + " first"
	b := strings.Repeat("z", 25) + " second"
	rows := []dataset.Measurement{
		mrow(a, "Manhattan", "Winter", 2019, 1),
		mrow(b, "Manhattan", "Winter", 2019, 2),
	}

	hm, ok := BuildHeatmap(rows)
	require.True(t, ok)
	require.Len(t, hm.Pollutants, 2)
	assert.Contains(t, hm.Pollutants, strings.Repeat("z", 25))
	assert.Contains(t, hm.Pollutants, strings.Repeat("z", 25)+" (2)")
}

func TestHeatmapUnitFromFirstFilteredRow(t *testing.T) {
	first := mrow("Annual vehicle miles traveled", "Unknown", "Winter", 2019, 5)
	first.Unit = "million miles"
	rows := []dataset.Measurement{
		first,
		mrow("PM2.5", "Manhattan", "Winter", 2019, 10),
	}

	hm, ok := BuildHeatmap(rows)
	require.True(t, ok)
	assert.Equal(t, "million miles", hm.Unit,
		"the unit precedes the spatial row drop")
}

func TestHeatmapDropsUnknownBorough(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("PM2.5", "Unknown", "Winter", 2019, 10),
	}

	_, ok := BuildHeatmap(rows)
	assert.False(t, ok)
}
