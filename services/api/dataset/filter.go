package dataset

import "time"

// BoroughAll is the sentinel that disables borough filtering entirely.
const BoroughAll = "All"

// Query holds the filter parameters of one request. A zero Query matches
// every row.
type Query struct {
	// DateStart and DateEnd form an inclusive range. Both must be set for
	// the date filter to apply.
	DateStart *time.Time
	DateEnd   *time.Time

	// Pollutants restricts rows to the given raw labels. Empty means all.
	Pollutants []string

	// Boroughs restricts rows to the given labels. Empty, or any entry
	// equal to BoroughAll, means all.
	Boroughs []string

	// ExcludeOutliers drops rows flagged as outliers. Rows without a flag
	// are always kept.
	ExcludeOutliers bool
}

// Filter returns the rows matching every predicate of q. The predicates
// compose as a pure intersection, so filtering twice with the same query
// yields the same result. An empty result is valid.
func Filter(rows []Measurement, q Query) []Measurement {
	pollutantSet := toSet(q.Pollutants)

	boroughSet := toSet(q.Boroughs)
	if _, ok := boroughSet[BoroughAll]; ok {
		boroughSet = nil
	}

	dateBounded := q.DateStart != nil && q.DateEnd != nil

	out := make([]Measurement, 0, len(rows))
	for _, m := range rows {
		if dateBounded {
			if m.Date.Before(*q.DateStart) || m.Date.After(*q.DateEnd) {
				continue
			}
		}
		if len(pollutantSet) > 0 {
			if _, ok := pollutantSet[m.Pollutant]; !ok {
				continue
			}
		}
		if len(boroughSet) > 0 {
			if _, ok := boroughSet[m.Borough]; !ok {
				continue
			}
		}
		if q.ExcludeOutliers && m.IsOutlier != nil && *m.IsOutlier {
			continue
		}
		out = append(out, m)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
