package views

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// BoroughOrder is the canonical row ordering for spatial views.
var BoroughOrder = []string{"Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"}

// Heatmap is a borough x pollutant pivot of mean values.
type Heatmap struct {
	Boroughs   []string
	Pollutants []string
	// Values maps borough -> short pollutant name -> mean rounded to two
	// decimals. Combinations without data are absent.
	Values map[string]map[string]float64
	Unit   string
}

// BuildHeatmap pivots filtered rows to borough x pollutant means. Unknown
// boroughs are dropped, pollutant labels go through the heatmap
// normalization variant (vehicle/truck series merge into one column,
// truncation collisions between distinct labels are suffixed to stay
// addressable), and borough rows follow BoroughOrder with absent boroughs
// omitted. The second return is false when no rows survive.
func BuildHeatmap(rows []dataset.Measurement) (Heatmap, bool) {
	hm := Heatmap{Values: make(map[string]map[string]float64)}
	if len(rows) == 0 {
		return hm, false
	}
	// The unit comes from the first filtered row, before spatial rows are
	// dropped, matching the other views.
	hm.Unit = rows[0].Unit

	kept := make([]dataset.Measurement, 0, len(rows))
	for _, m := range rows {
		if m.Borough == "" || m.Borough == "Unknown" {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return hm, false
	}

	columns := heatmapColumns(kept)

	type cellKey struct{ borough, column string }
	cells := make(map[cellKey][]float64)
	present := make(map[string]bool)
	for _, m := range kept {
		present[m.Borough] = true
		if math.IsNaN(m.Value) {
			continue
		}
		key := cellKey{m.Borough, columns[m.Pollutant]}
		cells[key] = append(cells[key], m.Value)
	}

	for _, b := range BoroughOrder {
		if present[b] {
			hm.Boroughs = append(hm.Boroughs, b)
		}
	}

	colSet := make(map[string]struct{})
	for _, col := range columns {
		if _, ok := colSet[col]; !ok {
			colSet[col] = struct{}{}
			hm.Pollutants = append(hm.Pollutants, col)
		}
	}
	sort.Strings(hm.Pollutants)

	for _, b := range hm.Boroughs {
		row := make(map[string]float64)
		for _, col := range hm.Pollutants {
			vals, ok := cells[cellKey{b, col}]
			if !ok || len(vals) == 0 {
				continue
			}
			row[col] = math.Round(stat.Mean(vals, nil)*100) / 100
		}
		hm.Values[b] = row
	}
	return hm, true
}

// heatmapColumns assigns each raw pollutant label a display column. All
// vehicle/truck labels share the Vehicle Miles column; other labels keep
// their normalized name, de-duplicated in first-appearance order.
func heatmapColumns(rows []dataset.Measurement) map[string]string {
	rawOrder := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range rows {
		if _, ok := seen[m.Pollutant]; !ok {
			seen[m.Pollutant] = struct{}{}
			rawOrder = append(rawOrder, m.Pollutant)
		}
	}

	columns := make(map[string]string, len(rawOrder))
	plain := make([]string, 0, len(rawOrder))
	plainRaws := make([]string, 0, len(rawOrder))
	for _, raw := range rawOrder {
		norm := dataset.NormalizeHeatmapName(raw)
		if norm == dataset.VehicleMilesBucket {
			columns[raw] = norm
			continue
		}
		plain = append(plain, norm)
		plainRaws = append(plainRaws, raw)
	}

	for i, col := range dataset.DedupeShortNames(plain) {
		columns[plainRaws[i]] = col
	}
	return columns
}
