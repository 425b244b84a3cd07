package timetable

import "sort"

// CoordinateTable maps exact stop names to coordinates
type CoordinateTable map[string]LatLng

// DefaultCoordinates are the stops geocoded by hand so far. Keys are matched
// byte for byte, including the doubled spaces the PDF text carries.
var DefaultCoordinates = CoordinateTable{
	"B.B. Kulam - Uzhavar Santhai":          {Lat: 9.9388, Lng: 78.1345},
	"BB Kulam Bus Stop":                     {Lat: 9.9380, Lng: 78.1340},
	"KV School - Lady Doak College":         {Lat: 9.9360, Lng: 78.1320},
	"OCPM Back Gate (Narimedu)":             {Lat: 9.9340, Lng: 78.1300},
	"OCPM School - Front Gate":              {Lat: 9.9320, Lng: 78.1280},
	"Goripalayam":                           {Lat: 9.9280, Lng: 78.1250},
	"Govt Medical  C ollege (Shenoy Nagar)": {Lat: 9.9270, Lng: 78.1350},
	"Anna  B us Stand":                      {Lat: 9.9250, Lng: 78.1400},
	"Paalpannai Signal - Aavin":             {Lat: 9.9200, Lng: 78.1450},
}

// Merge returns a copy of t with the entries of other added or replaced
func (t CoordinateTable) Merge(other map[string]LatLng) CoordinateTable {
	out := make(CoordinateTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Enrich sets the coordinates of every stop whose name is a key of the
// table and returns how many stops matched. Stops with no entry keep nil
// coordinates.
func Enrich(routes Routes, table CoordinateTable) int {
	matched := 0
	for id, route := range routes {
		for i := range route.Stops {
			c, ok := table[route.Stops[i].Name]
			if !ok {
				continue
			}
			lat, lng := c.Lat, c.Lng
			route.Stops[i].Lat = &lat
			route.Stops[i].Lng = &lng
			matched++
		}
		routes[id] = route
	}
	return matched
}

// ApplyDriverOverrides replaces the driver of routes named in overrides.
// It returns the override ids that matched no parsed route.
func ApplyDriverOverrides(routes Routes, overrides map[string]string) []string {
	var unknown []string
	for id, driver := range overrides {
		route, ok := routes[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		route.Driver = driver
		routes[id] = route
	}
	sortNumeric(unknown)
	return unknown
}

func sortNumeric(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return numericLess(ids[i], ids[j])
	})
}
