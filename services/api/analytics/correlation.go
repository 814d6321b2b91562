package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// Correlation strength labels.
const (
	CorrStrong   = "strong"
	CorrModerate = "moderate"
	CorrWeak     = "weak"
)

// CorrelationPair is one upper-triangle entry of the correlation matrix.
type CorrelationPair struct {
	PollutantA string  `json:"pollutant_a"`
	PollutantB string  `json:"pollutant_b"`
	R          float64 `json:"correlation"`
	Strength   string  `json:"strength"`
}

// CorrelationResult holds pairwise Pearson correlations across pollutants.
// Matrix is the full symmetric matrix with NaN filled to 0 for display;
// a 0 there does not imply a true zero correlation. Pairs carries the
// upper triangle, strongest first.
type CorrelationResult struct {
	Pollutants []string          `json:"pollutants"`
	Matrix     [][]float64       `json:"matrix"`
	Pairs      []CorrelationPair `json:"pairs"`
}

// Correlations pivots rows into a wide table keyed by a composite time key
// (date when present, otherwise year+season, suffixed with borough when
// several boroughs contribute) against pollutant mean values, then computes
// pairwise Pearson correlation with pairwise deletion: each pair uses only
// the keys where both pollutants are observed. Rows and columns with fewer
// than two observations are dropped, results are clamped to [-1, 1]. The
// second return is false when fewer than two pollutants survive.
func Correlations(rows []dataset.Measurement) (CorrelationResult, bool) {
	res := CorrelationResult{}

	boroughs := make(map[string]struct{})
	for _, m := range rows {
		if m.Borough != "" {
			boroughs[m.Borough] = struct{}{}
		}
	}
	suffixBorough := len(boroughs) > 1

	// wide[timeKey][pollutant] = accumulated values for the cell mean
	wide := make(map[string]map[string][]float64)
	for _, m := range rows {
		if math.IsNaN(m.Value) {
			continue
		}
		key := timeKey(m, suffixBorough)
		cells, ok := wide[key]
		if !ok {
			cells = make(map[string][]float64)
			wide[key] = cells
		}
		cells[m.Pollutant] = append(cells[m.Pollutant], m.Value)
	}

	// Collapse cells to means and count observations per column.
	colCount := make(map[string]int)
	table := make(map[string]map[string]float64, len(wide))
	for key, cells := range wide {
		row := make(map[string]float64, len(cells))
		for pollutant, vals := range cells {
			row[pollutant] = stat.Mean(vals, nil)
			colCount[pollutant]++
		}
		table[key] = row
	}

	// Drop columns with fewer than two observations.
	cols := make([]string, 0, len(colCount))
	for pollutant, n := range colCount {
		if n >= 2 {
			cols = append(cols, pollutant)
		}
	}
	sort.Strings(cols)
	if len(cols) < 2 {
		return res, false
	}

	// Drop rows with fewer than two observations over the kept columns.
	keys := make([]string, 0, len(table))
	for key, row := range table {
		n := 0
		for _, pollutant := range cols {
			if _, ok := row[pollutant]; ok {
				n++
			}
		}
		if n >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	res.Pollutants = cols
	res.Matrix = make([][]float64, len(cols))
	for i := range res.Matrix {
		res.Matrix[i] = make([]float64, len(cols))
		res.Matrix[i][i] = 1
	}

	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := pairwiseCorrelation(table, keys, cols[i], cols[j])
			if math.IsNaN(r) {
				continue
			}
			res.Matrix[i][j] = r
			res.Matrix[j][i] = r
			res.Pairs = append(res.Pairs, CorrelationPair{
				PollutantA: cols[i],
				PollutantB: cols[j],
				R:          r,
				Strength:   strength(r),
			})
		}
	}

	sort.SliceStable(res.Pairs, func(i, j int) bool {
		return math.Abs(res.Pairs[i].R) > math.Abs(res.Pairs[j].R)
	})
	return res, true
}

// pairwiseCorrelation computes Pearson r over the keys where both columns
// are present, clamped to [-1, 1] to absorb floating-point overshoot.
// Returns NaN with fewer than two shared observations or zero variance.
func pairwiseCorrelation(table map[string]map[string]float64, keys []string, a, b string) float64 {
	var xs, ys []float64
	for _, key := range keys {
		row := table[key]
		va, okA := row[a]
		vb, okB := row[b]
		if okA && okB {
			xs = append(xs, va)
			ys = append(ys, vb)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}

func strength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs > 0.7:
		return CorrStrong
	case abs > 0.4:
		return CorrModerate
	default:
		return CorrWeak
	}
}

func timeKey(m dataset.Measurement, suffixBorough bool) string {
	var key string
	if !m.Date.IsZero() {
		key = m.Date.Format("2006-01-02")
	} else {
		key = fmt.Sprintf("%d-%s", m.Year, m.Season)
	}
	if suffixBorough {
		key += "|" + m.Borough
	}
	return key
}
