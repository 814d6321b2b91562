package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

func seasonRow(pollutant, season string, value float64) dataset.Measurement {
	return mrow(pollutant, "Manhattan", season, 2020, value)
}

func TestSeasonalPatternsWorstAndBest(t *testing.T) {
	rows := []dataset.Measurement{
		seasonRow("PM2.5", "Winter", 30),
		seasonRow("PM2.5", "Winter", 34),
		seasonRow("PM2.5", "Spring", 20),
		seasonRow("PM2.5", "Summer", 10),
		seasonRow("PM2.5", "Summer", 12),
		seasonRow("PM2.5", "Fall", 25),
	}

	patterns := SeasonalPatterns(rows)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, "PM2.5", p.Pollutant)
	assert.Equal(t, "Winter", p.Worst, "highest mean is the worst season")
	assert.Equal(t, "Summer", p.Best, "lowest mean is the best season")
	require.Len(t, p.Seasons, 4)
	assert.Equal(t, "Winter", p.Seasons[0].Season, "seasons iterate in calendar order")
	assert.Equal(t, 2, p.Seasons[0].Count)
	assert.InDelta(t, 32.0, p.Seasons[0].Mean, 1e-9)
}

func TestSeasonalPatternsTieBreaksToEarlierSeason(t *testing.T) {
	rows := []dataset.Measurement{
		seasonRow("PM2.5", "Winter", 10),
		seasonRow("PM2.5", "Summer", 10),
	}

	patterns := SeasonalPatterns(rows)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Winter", patterns[0].Best)
	assert.Equal(t, "Winter", patterns[0].Worst)
}

func TestSeasonalPatternsSkipsPollutantsWithoutSeasons(t *testing.T) {
	noSeason := mrow("NO2", "Manhattan", "", 2020, 5)
	rows := []dataset.Measurement{
		noSeason,
		seasonRow("PM2.5", "Winter", 10),
	}

	patterns := SeasonalPatterns(rows)
	require.Len(t, patterns, 1)
	assert.Equal(t, "PM2.5", patterns[0].Pollutant)
}
