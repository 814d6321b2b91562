package transform

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
	"github.com/nycaq/air-quality-viewer/services/ingest/internal/socrata"
)

var boroughs = map[string]struct{}{
	"Manhattan":     {},
	"Brooklyn":      {},
	"Queens":        {},
	"Bronx":         {},
	"Staten Island": {},
}

var startDateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// BuildMeasurements converts raw open-data records into dataset rows.
// Records without a parseable value stay in the table with a NaN value;
// the serving layer's statistics skip them.
func BuildMeasurements(records []socrata.Record) []dataset.Measurement {
	rows := make([]dataset.Measurement, 0, len(records))
	for _, rec := range records {
		m := dataset.Measurement{
			Pollutant:   rec.Name,
			Unit:        rec.MeasureInfo,
			Borough:     normalizeBorough(rec.GeoPlace),
			StationName: rec.GeoPlace,
			Value:       parseValue(rec.DataValue),
		}

		m.Season, m.Year = parsePeriod(rec.TimePeriod)

		if date, ok := parseStartDate(rec.StartDate); ok {
			m.Date = date
			m.Month = int(date.Month())
			if m.Year == 0 {
				m.Year = date.Year()
			}
		}

		rows = append(rows, m)
	}
	return rows
}

// MarkOutliers flags values outside the 1.5 IQR fences, computed per
// pollutant. Every row receives a flag so the serving layer sees the
// column as present.
func MarkOutliers(rows []dataset.Measurement) {
	byPollutant := make(map[string][]float64)
	for _, m := range rows {
		if !math.IsNaN(m.Value) {
			byPollutant[m.Pollutant] = append(byPollutant[m.Pollutant], m.Value)
		}
	}

	type fence struct{ lo, hi float64 }
	fences := make(map[string]fence, len(byPollutant))
	for pollutant, vals := range byPollutant {
		sort.Float64s(vals)
		q1 := dataset.Quantile(vals, 0.25)
		q3 := dataset.Quantile(vals, 0.75)
		iqr := q3 - q1
		fences[pollutant] = fence{lo: q1 - 1.5*iqr, hi: q3 + 1.5*iqr}
	}

	for i := range rows {
		flag := false
		if f, ok := fences[rows[i].Pollutant]; ok && !math.IsNaN(rows[i].Value) {
			flag = rows[i].Value < f.lo || rows[i].Value > f.hi
		}
		rows[i].IsOutlier = &flag
	}
}

// parsePeriod derives (season, year) from labels like "Summer 2022",
// "Winter 2020-21" or "Annual Average 2019". Multi-year ranges and
// unrecognized labels fall back to the Annual season with the first year
// found.
func parsePeriod(period string) (string, int) {
	season := "Annual"
	for _, s := range []string{"Winter", "Spring", "Summer", "Fall"} {
		if strings.HasPrefix(period, s) {
			season = s
			break
		}
	}
	return season, firstYear(period)
}

func firstYear(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if !isDigit(s[i]) {
			continue
		}
		if i+4 < len(s) && isDigit(s[i+4]) {
			continue
		}
		year, err := strconv.Atoi(s[i : i+4])
		if err == nil && year >= 1900 && year <= 2100 {
			return year
		}
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func parseStartDate(s string) (time.Time, bool) {
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func normalizeBorough(place string) string {
	if _, ok := boroughs[place]; ok {
		return place
	}
	return "Unknown"
}
