package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// MarkerConfig overrides the tokens that label route and driver fields
type MarkerConfig struct {
	Route  string `yaml:"route" validate:"omitempty,min=2"`
	Driver string `yaml:"driver" validate:"omitempty,min=2"`
}

// CoordinateEntry geocodes one stop name
type CoordinateEntry struct {
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `yaml:"lng" validate:"gte=-180,lte=180"`
}

// Overrides is the optional hand-maintained timetable.yml
type Overrides struct {
	Markers     MarkerConfig      `yaml:"markers"`
	Coordinates []CoordinateEntry `yaml:"coordinates" validate:"dive"`
	Drivers     map[string]string `yaml:"drivers" validate:"dive,keys,numeric,endkeys,required"`

	// Raw is the file content, used for change detection
	Raw []byte `yaml:"-"`
}

// LoadOverrides reads and validates an overrides file. A missing file is
// not an error and yields empty overrides.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Overrides{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides %s: %w", path, err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse overrides %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(o); err != nil {
		return nil, fmt.Errorf("invalid overrides %s: %w", path, err)
	}

	o.Raw = data
	return &o, nil
}

// ParserMarkers returns the markers to parse with
func (o *Overrides) ParserMarkers() timetable.Markers {
	return timetable.Markers{
		Route:  o.Markers.Route,
		Driver: o.Markers.Driver,
	}
}

// CoordinateTable merges the configured coordinates over the defaults
func (o *Overrides) CoordinateTable() timetable.CoordinateTable {
	extra := make(map[string]timetable.LatLng, len(o.Coordinates))
	for _, c := range o.Coordinates {
		extra[c.Name] = timetable.LatLng{Lat: c.Lat, Lng: c.Lng}
	}
	return timetable.DefaultCoordinates.Merge(extra)
}
