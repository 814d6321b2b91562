package dataset

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Level is the temporal granularity used when collapsing raw rows.
type Level string

const (
	LevelRaw    Level = "Raw"
	LevelMonth  Level = "Month"
	LevelSeason Level = "Season"
	LevelYear   Level = "Year"
)

// ParseLevel maps a request string to a Level, defaulting to Season.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelRaw, LevelMonth, LevelSeason, LevelYear:
		return Level(s)
	default:
		return LevelSeason
	}
}

// ValueColumn names the numeric column a display view should read, matching
// the wire format consumed by the dashboard.
func (l Level) ValueColumn() string {
	if l == LevelRaw {
		return "value"
	}
	return "value_mean"
}

// Record is one row of a display view: either a raw measurement or one
// aggregated group. Value holds the raw value at LevelRaw and the group
// mean otherwise.
type Record struct {
	Date        time.Time
	Timestamp   *time.Time
	Year        int
	Month       int
	Season      string
	Pollutant   string
	Borough     string
	StationName string
	Unit        string
	Value       float64
	Median      float64
	Min         float64
	Max         float64
	Count       int
	Aggregated  bool
}

type groupKey struct {
	year      int
	month     int
	season    string
	pollutant string
	borough   string
}

type groupAcc struct {
	key     groupKey
	values  []float64 // finite values only
	minDate time.Time
	unit    string
}

// Aggregate collapses rows at the given level. LevelRaw is the identity.
// Groups are keyed by the level's calendar fields plus pollutant, plus
// borough when any row carries one. Missing keys (empty season, zero year)
// form their own groups rather than being dropped. Statistics skip NaN
// values; Count is the number of finite values per group. Each group keeps
// the earliest row time (the timestamp when set, the date otherwise) and
// the first-seen unit. Aggregated records lose station-level fields.
func Aggregate(rows []Measurement, level Level) []Record {
	if level == LevelRaw {
		out := make([]Record, 0, len(rows))
		for _, m := range rows {
			out = append(out, Record{
				Date:        m.Date,
				Timestamp:   m.Timestamp,
				Year:        m.Year,
				Month:       m.Month,
				Season:      m.Season,
				Pollutant:   m.Pollutant,
				Borough:     m.Borough,
				StationName: m.StationName,
				Unit:        m.Unit,
				Value:       m.Value,
				Count:       1,
			})
		}
		return out
	}

	withBorough := false
	for _, m := range rows {
		if m.Borough != "" {
			withBorough = true
			break
		}
	}

	groups := make(map[groupKey]*groupAcc)
	order := make([]groupKey, 0)
	for _, m := range rows {
		key := groupKey{pollutant: m.Pollutant}
		switch level {
		case LevelYear:
			key.year = m.Year
		case LevelMonth:
			key.year = m.Year
			key.month = m.Month
		case LevelSeason:
			key.season = m.Season
			key.year = m.Year
		}
		if withBorough {
			key.borough = m.Borough
		}

		acc, ok := groups[key]
		if !ok {
			acc = &groupAcc{key: key, unit: m.Unit}
			groups[key] = acc
			order = append(order, key)
		}
		if !math.IsNaN(m.Value) {
			acc.values = append(acc.values, m.Value)
		}
		// The timestamp, when present, is the finer-grained time column.
		when := m.Date
		if m.Timestamp != nil {
			when = *m.Timestamp
		}
		if !when.IsZero() && (acc.minDate.IsZero() || when.Before(acc.minDate)) {
			acc.minDate = when
		}
	}

	sortKeys(order, level)

	out := make([]Record, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		rec := Record{
			Date:       acc.minDate,
			Year:       key.year,
			Month:      key.month,
			Season:     key.season,
			Pollutant:  key.pollutant,
			Borough:    key.borough,
			Unit:       acc.unit,
			Count:      len(acc.values),
			Aggregated: true,
		}
		if len(acc.values) == 0 {
			rec.Value = math.NaN()
			rec.Median = math.NaN()
			rec.Min = math.NaN()
			rec.Max = math.NaN()
		} else {
			sorted := append([]float64(nil), acc.values...)
			sort.Float64s(sorted)
			rec.Value = stat.Mean(sorted, nil)
			rec.Median = Quantile(sorted, 0.5)
			rec.Min = sorted[0]
			rec.Max = sorted[len(sorted)-1]
		}
		out = append(out, rec)
	}
	return out
}

// sortKeys orders groups by the grouping columns in their natural order for
// the level, so output is deterministic.
func sortKeys(keys []groupKey, level Level) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if level == LevelSeason && a.season != b.season {
			return a.season < b.season
		}
		if a.year != b.year {
			return a.year < b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		if a.pollutant != b.pollutant {
			return a.pollutant < b.pollutant
		}
		return a.borough < b.borough
	})
}

// Quantile computes the p-quantile of an ascending-sorted slice using
// linear interpolation between closest ranks, the rule the processed
// dataset's reference statistics were produced with.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FiniteValues extracts the non-NaN values of recs, ascending-sorted.
func FiniteValues(recs []Record) []float64 {
	vals := make([]float64, 0, len(recs))
	for _, r := range recs {
		if !math.IsNaN(r.Value) {
			vals = append(vals, r.Value)
		}
	}
	sort.Float64s(vals)
	return vals
}
