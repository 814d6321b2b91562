package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// seasonOrder fixes the iteration order for seasonal grouping so that
// best/worst ties resolve deterministically to the earlier season.
var seasonOrder = []string{"Winter", "Spring", "Summer", "Fall", "Annual"}

// SeasonStat is the per-season summary for one pollutant.
type SeasonStat struct {
	Season string  `json:"season"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}

// SeasonalPattern identifies the best and worst season for a pollutant.
type SeasonalPattern struct {
	Pollutant string       `json:"pollutant"`
	Seasons   []SeasonStat `json:"seasons"`
	Best      string       `json:"best_season"`
	Worst     string       `json:"worst_season"`
}

// SeasonalPatterns groups each pollutant's finite values by season and
// marks the season with the lowest mean as best and the highest as worst.
// Pollutants without any finite seasonal data are skipped.
func SeasonalPatterns(rows []dataset.Measurement) []SeasonalPattern {
	byPollutant := make(map[string]map[string][]float64)
	for _, m := range rows {
		if math.IsNaN(m.Value) || m.Season == "" {
			continue
		}
		seasons, ok := byPollutant[m.Pollutant]
		if !ok {
			seasons = make(map[string][]float64)
			byPollutant[m.Pollutant] = seasons
		}
		seasons[m.Season] = append(seasons[m.Season], m.Value)
	}

	out := make([]SeasonalPattern, 0, len(byPollutant))
	for pollutant, bySeason := range byPollutant {
		pattern := SeasonalPattern{Pollutant: pollutant}
		best := math.Inf(1)
		worst := math.Inf(-1)

		for _, season := range orderedSeasons(bySeason) {
			vals := bySeason[season]
			mean := stat.Mean(vals, nil)
			s := SeasonStat{Season: season, Mean: mean, Count: len(vals)}
			if len(vals) > 1 {
				s.Std = stat.StdDev(vals, nil)
			}
			pattern.Seasons = append(pattern.Seasons, s)

			if mean < best {
				best = mean
				pattern.Best = season
			}
			if mean > worst {
				worst = mean
				pattern.Worst = season
			}
		}
		if len(pattern.Seasons) == 0 {
			continue
		}
		out = append(out, pattern)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Pollutant < out[j].Pollutant })
	return out
}

// orderedSeasons yields the seasons present in bySeason, known seasons
// first in calendar order, any others sorted after.
func orderedSeasons(bySeason map[string][]float64) []string {
	out := make([]string, 0, len(bySeason))
	known := make(map[string]struct{})
	for _, s := range seasonOrder {
		known[s] = struct{}{}
		if _, ok := bySeason[s]; ok {
			out = append(out, s)
		}
	}
	extra := make([]string, 0)
	for s := range bySeason {
		if _, ok := known[s]; !ok {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
