package views

import (
	"gonum.org/v1/gonum/stat"

	"github.com/nycaq/air-quality-viewer/services/api/dataset"
)

// KPISummary holds the headline metrics for a filtered view.
type KPISummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	Count  int     `json:"count"`
	Unit   string  `json:"unit"`
}

// KPI summarizes the value column of recs. Zero rows (or rows with no
// finite values) produce an all-zero summary rather than an error, so the
// dashboard can render an empty state.
func KPI(recs []dataset.Record) KPISummary {
	summary := KPISummary{Count: len(recs)}
	if len(recs) > 0 {
		summary.Unit = recs[0].Unit
	}

	vals := dataset.FiniteValues(recs)
	if len(vals) == 0 {
		return summary
	}

	summary.Mean = stat.Mean(vals, nil)
	summary.Median = dataset.Quantile(vals, 0.5)
	summary.P25 = dataset.Quantile(vals, 0.25)
	summary.P75 = dataset.Quantile(vals, 0.75)
	summary.P95 = dataset.Quantile(vals, 0.95)
	return summary
}
