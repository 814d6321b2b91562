package geo

import (
	"errors"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// ErrGeoNotFound indicates that no candidate GeoJSON path exists. Callers
// degrade gracefully: the choropleth view reports "unavailable" instead of
// failing the process.
var ErrGeoNotFound = errors.New("geojson file not found")

// Load reads the first existing candidate path into a feature collection.
func Load(paths ...string) (*geojson.FeatureCollection, error) {
	var file string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			file = p
			break
		}
	}
	if file == "" {
		return nil, fmt.Errorf("%w (tried %v)", ErrGeoNotFound, paths)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return fc, nil
}

// FeatureNames lists the "name" property of every feature, in file order.
func FeatureNames(fc *geojson.FeatureCollection) []string {
	if fc == nil {
		return nil
	}
	names := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if name, err := f.PropertyString("name"); err == nil {
			names = append(names, name)
		}
	}
	return names
}

// HasFeature reports whether a feature's "name" property equals name.
// Matching is case-sensitive and exact; borough labels in the dataset are
// expected to match the geography file verbatim.
func HasFeature(fc *geojson.FeatureCollection, name string) bool {
	if fc == nil {
		return false
	}
	for _, f := range fc.Features {
		if n, err := f.PropertyString("name"); err == nil && n == name {
			return true
		}
	}
	return false
}
