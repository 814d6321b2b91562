package dataset

import (
	"fmt"
	"strings"
)

// VehicleMilesBucket is the canonical bucket all vehicle/truck series merge
// into before plotting.
const VehicleMilesBucket = "Vehicle Miles"

// shortNames maps the dataset's long indicator labels to the short names
// shown on filter chips and selectors.
var shortNames = map[string]string{
	"PM2.5": "PM2.5",
	"NO2":   "NO2",
	"O3":    "O3",
	"Annual vehicle miles traveled":                          "Vehicle Miles",
	"Annual vehicle miles traveled (cars)":                   "Car Miles",
	"Annual vehicle miles traveled (trucks)":                 "Truck Miles",
	"Asthma emergency department visits due to PM2.5":        "Asthma ED (PM2.5)",
	"Asthma emergency departments visits due to Ozone":       "Asthma ED (O3)",
	"Asthma hospitalizations due to Ozone":                   "Asthma Hosp (O3)",
	"Boiler Emissions- Total NOx Emissions":                  "Boiler NOx",
	"Boiler Emissions- Total PM2.5 Emissions":                "Boiler PM2.5",
	"Boiler Emissions- Total SO2 Emissions":                  "Boiler SO2",
	"Cardiac and respiratory deaths due to Ozone":            "Deaths (O3)",
	"Cardiovascular hospitalizations due to PM2.5 (age 40+)": "Cardio Hosp (PM2.5)",
	"Deaths due to PM2.5":                                    "Deaths (PM2.5)",
	"Outdoor Air Toxics - Benzene":                           "Benzene",
	"Outdoor Air Toxics - Formaldehyde":                      "Formaldehyde",
	"Respiratory hospitalizations due to PM2.5 (age 20+)":    "Resp Hosp (PM2.5)",
}

// seriesNames are exact matches checked before the vehicle/truck pattern
// when normalizing for time-series grouping.
var seriesNames = map[string]string{
	"PM2.5":                                  "PM2.5",
	"NO2":                                    "NO2",
	"O3":                                     "O3",
	"Fine particles (PM 2.5)":                "PM2.5",
	"Nitrogen dioxide (NO2)":                 "NO2",
	"Ozone (O3)":                             "O3",
	"Annual vehicle miles traveled":          "Vehicle Miles",
	"Annual vehicle miles traveled (cars)":   "Vehicle Miles",
	"Annual vehicle miles traveled (trucks)": "Vehicle Miles",
}

// ShortPollutantName returns the selector display name for a raw label:
// exact lookup first, then a 30-character truncation. The raw label itself
// is never modified anywhere; normalized names live in derived fields only.
func ShortPollutantName(raw string) string {
	if s, ok := shortNames[raw]; ok {
		return s
	}
	return truncate(raw, 30)
}

// NormalizeSeriesName buckets a raw label for time-series grouping. Any
// label containing "vehicle" or "truck" (case-insensitive) merges into the
// Vehicle Miles bucket; other unmapped labels truncate to 15 characters.
func NormalizeSeriesName(raw string) string {
	if s, ok := seriesNames[raw]; ok {
		return s
	}
	if isVehicleLabel(raw) {
		return VehicleMilesBucket
	}
	return truncate(raw, 15)
}

// NormalizeHeatmapName buckets a raw label for heatmap columns: same
// vehicle/truck pattern, 25-character truncation otherwise.
func NormalizeHeatmapName(raw string) string {
	if isVehicleLabel(raw) {
		return VehicleMilesBucket
	}
	return truncate(raw, 25)
}

func isVehicleLabel(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "vehicle") || strings.Contains(lower, "truck")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// DedupeShortNames keeps normalized column names addressable after a pivot:
// when truncation collapses two distinct raw labels onto the same short
// name, later occurrences get a numeric suffix while the first keeps the
// bare name. Names are processed in input order.
func DedupeShortNames(names []string) []string {
	counts := make(map[string]int, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		counts[name]++
		if counts[name] > 1 {
			out = append(out, fmt.Sprintf("%s (%d)", name, counts[name]))
			continue
		}
		out = append(out, name)
	}
	return out
}
