package views

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// seasonMonth orders seasons within a year for chart sorting. Winter and
// Annual share month 1; the collision is a documented property of the
// dataset's period labels and is kept as-is.
var seasonMonth = map[string]int{
	"Winter": 1,
	"Spring": 3,
	"Summer": 6,
	"Fall":   9,
	"Annual": 1,
}

// TSPoint is one chart point. Which x field is meaningful depends on the
// aggregation level; XCol on the enclosing TimeSeries names it.
type TSPoint struct {
	Label          string
	Year           int
	Date           time.Time
	PollutantShort string
	Value          float64
	SortKey        int
}

// TimeSeries is the line-chart payload.
type TimeSeries struct {
	Points   []TSPoint
	XCol     string
	ValueCol string
	Unit     string
}

type tsKey struct {
	label   string
	year    int
	date    time.Time
	short   string
	sortKey int
}

// BuildTimeSeries turns display records into chronologically ordered chart
// points. The x axis and sort key depend on the level: Season uses a
// synthetic year*100+month key and a "<Season> <Year>" label, Year sorts by
// year, Month by a first-of-month date, Raw by the row date. At the Season
// and Year levels per-borough group means are first collapsed to one mean
// per pollutant, so a later bucket merge weighs each pollutant equally
// instead of by its borough coverage. Pollutant labels are normalized with
// the series variant and series that collapse to the same bucket are merged
// by mean. The second return is false when recs is empty.
func BuildTimeSeries(recs []dataset.Record, level dataset.Level) (TimeSeries, bool) {
	ts := TimeSeries{ValueCol: level.ValueColumn()}
	if len(recs) == 0 {
		return ts, false
	}
	ts.Unit = recs[0].Unit

	if level == dataset.LevelSeason || level == dataset.LevelYear {
		recs = collapseBoroughs(recs, level)
	}

	switch level {
	case dataset.LevelSeason:
		ts.XCol = "date_str"
	case dataset.LevelYear:
		ts.XCol = "year"
	default:
		ts.XCol = "date"
	}

	groups := make(map[tsKey][]float64)
	order := make([]tsKey, 0)
	for _, rec := range recs {
		key := tsKey{short: dataset.NormalizeSeriesName(rec.Pollutant)}
		switch level {
		case dataset.LevelSeason:
			month, ok := seasonMonth[rec.Season]
			if !ok {
				month = 1
			}
			key.sortKey = rec.Year*100 + month
			key.label = fmt.Sprintf("%s %d", rec.Season, rec.Year)
			key.year = rec.Year
		case dataset.LevelYear:
			key.year = rec.Year
			key.sortKey = rec.Year
		case dataset.LevelMonth:
			key.date = time.Date(rec.Year, time.Month(rec.Month), 1, 0, 0, 0, 0, time.UTC)
			key.year = rec.Year
		default:
			key.date = rec.Date
			if key.date.IsZero() && rec.Timestamp != nil {
				key.date = *rec.Timestamp
			}
		}

		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		if !math.IsNaN(rec.Value) {
			groups[key] = append(groups[key], rec.Value)
		} else if _, ok := groups[key]; !ok {
			groups[key] = nil
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.sortKey != b.sortKey {
			return a.sortKey < b.sortKey
		}
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.short < b.short
	})

	for _, key := range order {
		vals := groups[key]
		value := math.NaN()
		if len(vals) > 0 {
			value = stat.Mean(vals, nil)
		}
		ts.Points = append(ts.Points, TSPoint{
			Label:          key.label,
			Year:           key.year,
			Date:           key.date,
			PollutantShort: key.short,
			Value:          value,
			SortKey:        key.sortKey,
		})
	}
	return ts, true
}

// collapseBoroughs averages the per-borough group means of each pollutant
// into a single record per (period, pollutant).
func collapseBoroughs(recs []dataset.Record, level dataset.Level) []dataset.Record {
	type periodKey struct {
		year      int
		season    string
		pollutant string
	}

	groups := make(map[periodKey][]float64)
	units := make(map[periodKey]string)
	order := make([]periodKey, 0)
	for _, rec := range recs {
		key := periodKey{year: rec.Year, pollutant: rec.Pollutant}
		if level == dataset.LevelSeason {
			key.season = rec.Season
		}
		if _, ok := groups[key]; !ok {
			groups[key] = nil
			units[key] = rec.Unit
			order = append(order, key)
		}
		if !math.IsNaN(rec.Value) {
			groups[key] = append(groups[key], rec.Value)
		}
	}

	out := make([]dataset.Record, 0, len(order))
	for _, key := range order {
		value := math.NaN()
		if vals := groups[key]; len(vals) > 0 {
			value = stat.Mean(vals, nil)
		}
		out = append(out, dataset.Record{
			Year:       key.year,
			Season:     key.season,
			Pollutant:  key.pollutant,
			Unit:       units[key],
			Value:      value,
			Aggregated: true,
		})
	}
	return out
}
