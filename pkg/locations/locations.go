// Package locations holds the tide pool locations the report covers, either
// the built-in Default list or one loaded from a YAML file.
package locations

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Point is a lat/long coordinate in decimal degrees.
type Point struct {
	Lat, Long float64
}

func (p Point) String() string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Long)
}

// Location is a tide pool with its NOAA station and the coordinates used for
// the weather lookup.
type Location struct {
	Name, City, State string
	Point             Point
	Station           string
	// Fallback is a nearby coordinate to try when the weather service has no
	// forecast for Point. Optional.
	Fallback *Point
	// TimeZone is the station's IANA zone. Optional; when empty the zone the
	// weather service reports for Point is used.
	TimeZone string
}

// Candidates returns the coordinates to try for weather, primary first.
func (l Location) Candidates() []Point {
	if l.Fallback == nil {
		return []Point{l.Point}
	}
	return []Point{l.Point, *l.Fallback}
}

// Zone loads TimeZone, returning nil if it is unset.
func (l Location) Zone() (*time.Location, error) {
	if l.TimeZone == "" {
		return nil, nil
	}
	return time.LoadLocation(l.TimeZone)
}

// Validate checks the location is usable.
func (l Location) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Station == "" {
		return fmt.Errorf("%s: station is required", l.Name)
	}
	if err := l.Point.validate(); err != nil {
		return fmt.Errorf("%s: %w", l.Name, err)
	}
	if l.Fallback != nil {
		if err := l.Fallback.validate(); err != nil {
			return fmt.Errorf("%s: fallback: %w", l.Name, err)
		}
	}
	if _, err := l.Zone(); err != nil {
		return fmt.Errorf("%s: %w", l.Name, err)
	}
	return nil
}

func (p Point) validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Long) {
		return errors.New("coordinate is not a number")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", p.Lat)
	}
	if p.Long < -180 || p.Long > 180 {
		return fmt.Errorf("longitude %f out of range", p.Long)
	}
	return nil
}

// entry is the YAML form of a Location.
type entry struct {
	Name         string   `yaml:"name"`
	City         string   `yaml:"city"`
	State        string   `yaml:"state"`
	Lat          float64  `yaml:"lat"`
	Long         float64  `yaml:"long"`
	Station      string   `yaml:"station"`
	FallbackLat  *float64 `yaml:"fallback_lat"`
	FallbackLong *float64 `yaml:"fallback_long"`
	TimeZone     string   `yaml:"time_zone"`
}

func (e entry) location() (Location, error) {
	loc := Location{
		Name:     e.Name,
		City:     e.City,
		State:    e.State,
		Point:    Point{e.Lat, e.Long},
		Station:  e.Station,
		TimeZone: e.TimeZone,
	}
	switch {
	case e.FallbackLat != nil && e.FallbackLong != nil:
		loc.Fallback = &Point{*e.FallbackLat, *e.FallbackLong}
	case e.FallbackLat != nil || e.FallbackLong != nil:
		return loc, fmt.Errorf("%s: fallback_lat and fallback_long must be set together", e.Name)
	}
	return loc, nil
}

// Parse reads a YAML list of locations and validates each one.
func Parse(r io.Reader) ([]Location, error) {
	var entries []entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no locations")
		}
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("no locations")
	}

	locs := make([]Location, 0, len(entries))
	for i, e := range entries {
		loc, err := e.location()
		if err == nil {
			err = loc.Validate()
		}
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// Load reads locations from a YAML file.
func Load(path string) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	locs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return locs, nil
}
