package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

func TestChoroplethCrossPollutantAverage(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("PM2.5", "Manhattan", "Winter", 2019, 10),
		mrow("NO2", "Manhattan", "Winter", 2019, 30),
		mrow("PM2.5", "Unknown", "Winter", 2019, 99),
	}

	choro, ok := Choropleth(rows, nil)
	require.True(t, ok)
	assert.Equal(t, dataset.BoroughAll, choro.Pollutant)
	require.Len(t, choro.Rows, 1, "Unknown borough is dropped")
	assert.Equal(t, "Manhattan", choro.Rows[0].Borough)
	assert.InDelta(t, 20.0, choro.Rows[0].AvgValue, 1e-9)
}

func TestChoroplethFirstPollutantWins(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("PM2.5", "Manhattan", "Winter", 2019, 10),
		mrow("NO2", "Manhattan", "Winter", 2019, 30),
	}

	choro, ok := Choropleth(rows, []string{"NO2", "PM2.5"})
	require.True(t, ok)
	assert.Equal(t, "NO2", choro.Pollutant)
	require.Len(t, choro.Rows, 1)
	assert.InDelta(t, 30.0, choro.Rows[0].AvgValue, 1e-9)
}

func TestChoroplethNoDataForPollutant(t *testing.T) {
	rows := []dataset.Measurement{
		mrow("PM2.5", "Manhattan", "Winter", 2019, 10),
	}

	choro, ok := Choropleth(rows, []string{"SO2"})
	assert.False(t, ok)
	assert.Equal(t, "SO2", choro.Pollutant, "caller needs the label for its message")
}

func TestChoroplethEmpty(t *testing.T) {
	_, ok := Choropleth(nil, nil)
	assert.False(t, ok)
}
