package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// significanceLevel is the p-value threshold below which a slope counts as
// a real trend.
const significanceLevel = 0.05

// Trend is the year-over-year regression result for one pollutant.
type Trend struct {
	Pollutant string  `json:"pollutant"`
	Slope     float64 `json:"slope"`
	R2        float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
	PctChange float64 `json:"pct_change"`
	Direction string  `json:"direction"`
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
	Years     int     `json:"years"`
}

// Trends fits an ordinary least squares line of yearly mean value on year
// for every pollutant with at least two distinct years of finite data.
// Pollutants with insufficient data are skipped silently, so one thin
// series never aborts the batch. Results are sorted by pollutant label.
func Trends(rows []dataset.Measurement) []Trend {
	byPollutant := make(map[string]map[int][]float64)
	for _, m := range rows {
		if math.IsNaN(m.Value) {
			continue
		}
		years, ok := byPollutant[m.Pollutant]
		if !ok {
			years = make(map[int][]float64)
			byPollutant[m.Pollutant] = years
		}
		years[m.Year] = append(years[m.Year], m.Value)
	}

	out := make([]Trend, 0, len(byPollutant))
	for pollutant, byYear := range byPollutant {
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Ints(years)

		xs := make([]float64, 0, len(years))
		ys := make([]float64, 0, len(years))
		for _, y := range years {
			mean := stat.Mean(byYear[y], nil)
			if !isFinite(mean) {
				continue
			}
			xs = append(xs, float64(y))
			ys = append(ys, mean)
		}
		if len(xs) < 2 {
			continue
		}

		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		r2 := stat.RSquared(xs, ys, nil, alpha, beta)
		pval := slopePValue(xs, ys, alpha, beta)

		direction := TrendStable
		if pval < significanceLevel {
			if beta > 0 {
				direction = TrendIncreasing
			} else if beta < 0 {
				direction = TrendDecreasing
			}
		}

		pct := 0.0
		if first := ys[0]; first != 0 {
			pct = (ys[len(ys)-1] - first) / first * 100
		}

		out = append(out, Trend{
			Pollutant: pollutant,
			Slope:     beta,
			R2:        r2,
			PValue:    pval,
			PctChange: pct,
			Direction: direction,
			FirstYear: int(xs[0]),
			LastYear:  int(xs[len(xs)-1]),
			Years:     len(xs),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Pollutant < out[j].Pollutant })
	return out
}

// slopePValue is the two-sided t-test p-value for the regression slope.
// With only two points there are no residual degrees of freedom, so the
// slope is reported as never significant.
func slopePValue(xs, ys []float64, alpha, beta float64) float64 {
	n := len(xs)
	if n <= 2 {
		return 1
	}

	meanX := stat.Mean(xs, nil)
	var sse, sxx float64
	for i := range xs {
		resid := ys[i] - (alpha + beta*xs[i])
		sse += resid * resid
		dx := xs[i] - meanX
		sxx += dx * dx
	}
	if sxx == 0 {
		return 1
	}

	se := math.Sqrt(sse / float64(n-2) / sxx)
	if se == 0 {
		// Perfect fit: the slope is exact.
		return 0
	}

	t := math.Abs(beta / se)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.Survival(t)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
