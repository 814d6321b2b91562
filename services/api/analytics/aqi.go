package analytics

import (
	"math"
	"strings"
)

// AQIResult is the scored air quality index for a single measurement. AQI
// is nil when the pollutant has no breakpoint table; that is a sentinel,
// not an error.
type AQIResult struct {
	AQI      *int   `json:"aqi"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// breakpoint is one segment of the EPA piecewise-linear concentration to
// AQI mapping.
type breakpoint struct {
	cLo, cHi     float64
	aqiLo, aqiHi float64
}

var breakpoints = map[string][]breakpoint{
	"PM2.5": {
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	},
	"PM10": {
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	},
	"O3": {
		{0, 54, 0, 50},
		{55, 70, 51, 100},
		{71, 85, 101, 150},
		{86, 105, 151, 200},
		{106, 200, 201, 300},
	},
	"NO2": {
		{0, 53, 0, 50},
		{54, 100, 51, 100},
		{101, 360, 101, 150},
		{361, 649, 151, 200},
		{650, 1249, 201, 300},
		{1250, 1649, 301, 400},
		{1650, 2049, 401, 500},
	},
}

var categoryColors = map[string]string{
	"Good":                           "#00e400",
	"Moderate":                       "#ffff00",
	"Unhealthy for Sensitive Groups": "#ff7e00",
	"Unhealthy":                      "#ff0000",
	"Very Unhealthy":                 "#8f3f97",
	"Hazardous":                      "#7e0023",
	"Not Available":                  "#808080",
}

// CalculateAQI classifies the raw pollutant label, interpolates the EPA
// breakpoint segment containing value, and rounds to the nearest integer.
// Values above the highest segment saturate at 500 / Hazardous. Labels that
// match no table return a nil AQI with category "Not Available".
func CalculateAQI(pollutant string, value float64) AQIResult {
	kind := classifyPollutant(pollutant)
	bps, ok := breakpoints[kind]
	if !ok || math.IsNaN(value) {
		return AQIResult{Category: "Not Available", Color: categoryColors["Not Available"]}
	}

	for _, bp := range bps {
		if value <= bp.cHi {
			ratio := 0.0
			if bp.cHi > bp.cLo {
				ratio = (bp.aqiHi - bp.aqiLo) / (bp.cHi - bp.cLo)
			}
			aqi := int(math.Round(ratio*(value-bp.cLo) + bp.aqiLo))
			if aqi < 0 {
				aqi = 0
			}
			return result(aqi)
		}
	}
	return result(500)
}

func result(aqi int) AQIResult {
	category := categorize(aqi)
	return AQIResult{AQI: &aqi, Category: category, Color: categoryColors[category]}
}

func categorize(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// classifyPollutant resolves a free-text label to a breakpoint table key by
// case-insensitive substring match. PM2.5 patterns run before PM10 because
// of the substring overlap between the two families.
func classifyPollutant(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "pm2.5"),
		strings.Contains(lower, "pm 2.5"),
		strings.Contains(lower, "pm25"),
		strings.Contains(lower, "fine particles"):
		return "PM2.5"
	case strings.Contains(lower, "pm10"), strings.Contains(lower, "pm 10"):
		return "PM10"
	case strings.Contains(lower, "o3"), strings.Contains(lower, "ozone"):
		return "O3"
	case strings.Contains(lower, "no2"), strings.Contains(lower, "nitrogen dioxide"):
		return "NO2"
	default:
		return ""
	}
}
