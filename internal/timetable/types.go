package timetable

import (
	"sort"
	"strings"
)

// Stop is one scheduled boarding point of a route
type Stop struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Time string   `json:"time"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// Route is a closed record: the driver and the stops in travel order
type Route struct {
	ID     string `json:"id"`
	Driver string `json:"driver"`
	Stops  []Stop `json:"stops"`
}

// Routes maps route identifiers to their records. A later record with the
// same identifier replaces the earlier one.
type Routes map[string]Route

// Keys returns the route identifiers in ascending numeric order
func (r Routes) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return numericLess(keys[i], keys[j])
	})
	return keys
}

// Sorted returns the routes in ascending numeric key order
func (r Routes) Sorted() []Route {
	keys := r.Keys()
	out := make([]Route, 0, len(keys))
	for _, k := range keys {
		out = append(out, r[k])
	}
	return out
}

// StopCount returns the total number of stops across all routes
func (r Routes) StopCount() int {
	n := 0
	for _, route := range r {
		n += len(route.Stops)
	}
	return n
}

// numericLess compares two digit strings by value without overflowing.
// Leading zeros are ignored; ties fall back to the raw string.
func numericLess(a, b string) bool {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) < len(tb)
	}
	if ta != tb {
		return ta < tb
	}
	return a < b
}

// LatLng is a geographic coordinate pair
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Markers are the tokens that label route and driver fields in the source text
type Markers struct {
	Route  string
	Driver string
}

// DefaultMarkers are the tokens used by the printed timetable
var DefaultMarkers = Markers{
	Route:  "ROUTE:",
	Driver: "DRIVER NAME:",
}
