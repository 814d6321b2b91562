package views

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// Comparison modes.
const (
	CompareBoroughs   = "boroughs"
	ComparePollutants = "pollutants"
)

// ComparisonRow carries the summary statistics for one compared item. Unit
// is per-row because compared pollutants may use different units.
type ComparisonRow struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
	Unit   string  `json:"unit"`
}

// Compare builds side-by-side statistics. In borough mode singleFilter
// fixes one pollutant and each selected borough becomes a row. In pollutant
// mode singleFilter optionally fixes one borough ("All" or empty means no
// restriction) and each selected pollutant becomes a row. Selected items
// without data are omitted; rows keep the caller's selection order.
func Compare(recs []dataset.Record, compType string, selected []string, singleFilter string) []ComparisonRow {
	byName := make(map[string][]float64)
	units := make(map[string]string)

	for _, rec := range recs {
		var name string
		if compType == CompareBoroughs {
			if rec.Pollutant != singleFilter {
				continue
			}
			name = rec.Borough
		} else {
			if singleFilter != "" && singleFilter != dataset.BoroughAll && rec.Borough != singleFilter {
				continue
			}
			name = rec.Pollutant
		}
		if !contains(selected, name) {
			continue
		}
		if _, ok := units[name]; !ok {
			units[name] = rec.Unit
		}
		if !math.IsNaN(rec.Value) {
			byName[name] = append(byName[name], rec.Value)
		}
	}

	rows := make([]ComparisonRow, 0, len(selected))
	for _, name := range selected {
		vals, ok := byName[name]
		if !ok || len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		row := ComparisonRow{
			Name:   name,
			Mean:   stat.Mean(vals, nil),
			Median: dataset.Quantile(vals, 0.5),
			Min:    vals[0],
			Max:    vals[len(vals)-1],
			Count:  len(vals),
			Unit:   units[name],
		}
		if len(vals) > 1 {
			row.Std = stat.StdDev(vals, nil)
		}
		rows = append(rows, row)
	}
	return rows
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
