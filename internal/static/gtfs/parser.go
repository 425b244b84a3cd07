package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
)

// Parse reads a GTFS zip file and returns parsed data
func Parse(zipPath string) (*Data, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	data := &Data{}

	// Build file map for easy lookup
	files := make(map[string]*zip.File)
	for _, f := range r.File {
		files[f.Name] = f
	}

	readers := []struct {
		name string
		row  func(record []string, idx map[string]int)
	}{
		{"agency.txt", func(rec []string, idx map[string]int) {
			data.Agency = append(data.Agency, Agency{
				AgencyID:       getField(rec, idx, "agency_id"),
				AgencyName:     getField(rec, idx, "agency_name"),
				AgencyURL:      getField(rec, idx, "agency_url"),
				AgencyTimezone: getField(rec, idx, "agency_timezone"),
			})
		}},
		{"calendar.txt", func(rec []string, idx map[string]int) {
			c := Calendar{
				ServiceID: getField(rec, idx, "service_id"),
				StartDate: getField(rec, idx, "start_date"),
				EndDate:   getField(rec, idx, "end_date"),
			}
			for i, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
				c.Weekdays[i] = getField(rec, idx, day) == "1"
			}
			data.Calendar = append(data.Calendar, c)
		}},
		{"routes.txt", func(rec []string, idx map[string]int) {
			routeType, _ := strconv.Atoi(getField(rec, idx, "route_type"))
			data.Routes = append(data.Routes, Route{
				RouteID:        getField(rec, idx, "route_id"),
				AgencyID:       getField(rec, idx, "agency_id"),
				RouteShortName: getField(rec, idx, "route_short_name"),
				RouteLongName:  getField(rec, idx, "route_long_name"),
				RouteType:      routeType,
			})
		}},
		{"stops.txt", func(rec []string, idx map[string]int) {
			lat, _ := strconv.ParseFloat(getField(rec, idx, "stop_lat"), 64)
			lon, _ := strconv.ParseFloat(getField(rec, idx, "stop_lon"), 64)
			data.Stops = append(data.Stops, Stop{
				StopID:   getField(rec, idx, "stop_id"),
				StopName: getField(rec, idx, "stop_name"),
				StopLat:  lat,
				StopLon:  lon,
			})
		}},
		{"trips.txt", func(rec []string, idx map[string]int) {
			data.Trips = append(data.Trips, Trip{
				RouteID:      getField(rec, idx, "route_id"),
				ServiceID:    getField(rec, idx, "service_id"),
				TripID:       getField(rec, idx, "trip_id"),
				TripHeadsign: getField(rec, idx, "trip_headsign"),
			})
		}},
		{"stop_times.txt", func(rec []string, idx map[string]int) {
			seq, _ := strconv.Atoi(getField(rec, idx, "stop_sequence"))
			data.StopTimes = append(data.StopTimes, StopTime{
				TripID:        getField(rec, idx, "trip_id"),
				ArrivalTime:   getField(rec, idx, "arrival_time"),
				DepartureTime: getField(rec, idx, "departure_time"),
				StopID:        getField(rec, idx, "stop_id"),
				StopSequence:  seq,
			})
		}},
	}

	for _, rd := range readers {
		f, ok := files[rd.name]
		if !ok {
			continue
		}
		if err := readTable(f, rd.row); err != nil {
			log.Printf("Warning: failed to parse %s: %v", rd.name, err)
		}
	}

	sort.SliceStable(data.StopTimes, func(i, j int) bool {
		if data.StopTimes[i].TripID != data.StopTimes[j].TripID {
			return data.StopTimes[i].TripID < data.StopTimes[j].TripID
		}
		return data.StopTimes[i].StopSequence < data.StopTimes[j].StopSequence
	})

	log.Printf("GTFS parsed: %d routes, %d stops, %d trips, %d stop times",
		len(data.Routes), len(data.Stops), len(data.Trips), len(data.StopTimes))

	return data, nil
}

func readTable(f *zip.File, row func(record []string, idx map[string]int)) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	header, err := reader.Read()
	if err != nil {
		return err
	}

	idx := makeIndex(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		row(record, idx)
	}
	return nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
