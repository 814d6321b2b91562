package dataset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// ErrDataNotFound indicates that none of the candidate dataset paths exist.
var ErrDataNotFound = errors.New("dataset file not found")

// Measurement is one row of the processed air quality dataset.
type Measurement struct {
	Timestamp   *time.Time
	Date        time.Time
	Year        int
	Month       int
	Season      string
	Pollutant   string
	Value       float64 // NaN when the source value is missing
	Unit        string
	Borough     string
	StationName string
	IsOutlier   *bool // nil when the source has no outlier flag
}

// Dataset is the immutable in-memory measurement table shared by all
// request handlers. It is constructed once at process start and never
// mutated; every transform produces new slices.
type Dataset struct {
	Rows           []Measurement
	HasOutlierFlag bool
}

// FileRow mirrors the parquet schema of the processed artifact. The ingest
// service writes this exact schema, so reader and writer stay in sync.
type FileRow struct {
	Timestamp   *time.Time `parquet:"timestamp,optional"`
	Date        *time.Time `parquet:"date,optional"`
	Year        *int32     `parquet:"year,optional"`
	Month       *int32     `parquet:"month,optional"`
	Season      *string    `parquet:"season,optional"`
	Pollutant   string     `parquet:"pollutant"`
	Value       *float64   `parquet:"value,optional"`
	Unit        *string    `parquet:"unit,optional"`
	Borough     *string    `parquet:"borough,optional"`
	StationName *string    `parquet:"station_name,optional"`
	IsOutlier   *bool      `parquet:"is_outlier,optional"`
}

// Load reads the first existing candidate path into a Dataset.
func Load(paths ...string) (*Dataset, error) {
	var file string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			file = p
			break
		}
	}
	if file == "" {
		return nil, fmt.Errorf("%w (tried %v)", ErrDataNotFound, paths)
	}

	fileRows, err := parquet.ReadFile[FileRow](file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	ds := &Dataset{Rows: make([]Measurement, 0, len(fileRows))}
	for _, fr := range fileRows {
		m := fr.toMeasurement()
		if m.IsOutlier != nil {
			ds.HasOutlierFlag = true
		}
		ds.Rows = append(ds.Rows, m)
	}
	return ds, nil
}

// Write stores measurements at path using the FileRow schema.
func Write(path string, rows []Measurement) error {
	fileRows := make([]FileRow, 0, len(rows))
	for _, m := range rows {
		fileRows = append(fileRows, m.toFileRow())
	}
	return parquet.WriteFile(path, fileRows)
}

func (fr FileRow) toMeasurement() Measurement {
	m := Measurement{
		Timestamp: fr.Timestamp,
		Pollutant: fr.Pollutant,
		Value:     math.NaN(),
		IsOutlier: fr.IsOutlier,
	}
	if fr.Date != nil {
		m.Date = *fr.Date
	}
	if fr.Year != nil {
		m.Year = int(*fr.Year)
	}
	if fr.Month != nil {
		m.Month = int(*fr.Month)
	}
	if fr.Season != nil {
		m.Season = *fr.Season
	}
	if fr.Value != nil {
		m.Value = *fr.Value
	}
	if fr.Unit != nil {
		m.Unit = *fr.Unit
	}
	if fr.Borough != nil {
		m.Borough = *fr.Borough
	}
	if fr.StationName != nil {
		m.StationName = *fr.StationName
	}
	return m
}

func (m Measurement) toFileRow() FileRow {
	fr := FileRow{
		Timestamp: m.Timestamp,
		Pollutant: m.Pollutant,
		IsOutlier: m.IsOutlier,
	}
	if !m.Date.IsZero() {
		d := m.Date
		fr.Date = &d
	}
	if m.Year != 0 {
		y := int32(m.Year)
		fr.Year = &y
	}
	if m.Month != 0 {
		mo := int32(m.Month)
		fr.Month = &mo
	}
	if m.Season != "" {
		s := m.Season
		fr.Season = &s
	}
	if !math.IsNaN(m.Value) {
		v := m.Value
		fr.Value = &v
	}
	if m.Unit != "" {
		u := m.Unit
		fr.Unit = &u
	}
	if m.Borough != "" {
		b := m.Borough
		fr.Borough = &b
	}
	if m.StationName != "" {
		n := m.StationName
		fr.StationName = &n
	}
	return fr
}

// Pollutants returns the sorted distinct pollutant labels.
func (d *Dataset) Pollutants() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, m := range d.Rows {
		if _, ok := seen[m.Pollutant]; !ok {
			seen[m.Pollutant] = struct{}{}
			out = append(out, m.Pollutant)
		}
	}
	sort.Strings(out)
	return out
}

// Boroughs returns the sorted distinct borough labels, excluding Unknown.
func (d *Dataset) Boroughs() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, m := range d.Rows {
		if m.Borough == "" || m.Borough == "Unknown" {
			continue
		}
		if _, ok := seen[m.Borough]; !ok {
			seen[m.Borough] = struct{}{}
			out = append(out, m.Borough)
		}
	}
	sort.Strings(out)
	return out
}

// DateRange returns the earliest and latest dates in the dataset.
func (d *Dataset) DateRange() (time.Time, time.Time) {
	var min, max time.Time
	for _, m := range d.Rows {
		if m.Date.IsZero() {
			continue
		}
		if min.IsZero() || m.Date.Before(min) {
			min = m.Date
		}
		if max.IsZero() || m.Date.After(max) {
			max = m.Date
		}
	}
	return min, max
}
