package views

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// BoroughAverage is one choropleth row.
type BoroughAverage struct {
	Borough  string  `json:"borough"`
	AvgValue float64 `json:"avg_value"`
}

// ChoroplethData is the map view payload.
type ChoroplethData struct {
	Rows      []BoroughAverage
	Pollutant string
	Unit      string
}

// Choropleth averages values per borough over the filtered rows. Unknown
// boroughs are dropped. With no pollutant selected the average spans all
// pollutants (coarse but well-defined, labeled "All"); otherwise only the
// first requested pollutant contributes. The second return is false when no
// rows survive.
func Choropleth(rows []dataset.Measurement, pollutants []string) (ChoroplethData, bool) {
	data := ChoroplethData{Pollutant: dataset.BoroughAll}

	kept := make([]dataset.Measurement, 0, len(rows))
	for _, m := range rows {
		if m.Borough == "" || m.Borough == "Unknown" {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return data, false
	}
	data.Unit = kept[0].Unit

	if len(pollutants) > 0 {
		data.Pollutant = pollutants[0]
		subset := make([]dataset.Measurement, 0, len(kept))
		for _, m := range kept {
			if m.Pollutant == data.Pollutant {
				subset = append(subset, m)
			}
		}
		if len(subset) == 0 {
			return data, false
		}
		kept = subset
	}

	byBorough := make(map[string][]float64)
	for _, m := range kept {
		if math.IsNaN(m.Value) {
			continue
		}
		byBorough[m.Borough] = append(byBorough[m.Borough], m.Value)
	}

	names := make([]string, 0, len(byBorough))
	for name := range byBorough {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data.Rows = append(data.Rows, BoroughAverage{
			Borough:  name,
			AvgValue: stat.Mean(byBorough[name], nil),
		})
	}
	return data, len(data.Rows) > 0
}
