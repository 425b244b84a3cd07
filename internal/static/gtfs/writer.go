package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// WriteZip writes the feed as a GTFS zip archive
func WriteZip(path string, data *Data) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create zip: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close zip: %w", cerr)
		}
	}()

	zw := zip.NewWriter(f)

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"agency.txt", []string{"agency_id", "agency_name", "agency_url", "agency_timezone"}, agencyRows(data.Agency)},
		{"calendar.txt", []string{"service_id", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "start_date", "end_date"}, calendarRows(data.Calendar)},
		{"routes.txt", []string{"route_id", "agency_id", "route_short_name", "route_long_name", "route_type"}, routeRows(data.Routes)},
		{"stops.txt", []string{"stop_id", "stop_name", "stop_lat", "stop_lon"}, stopRows(data.Stops)},
		{"trips.txt", []string{"route_id", "service_id", "trip_id", "trip_headsign"}, tripRows(data.Trips)},
		{"stop_times.txt", []string{"trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence"}, stopTimeRows(data.StopTimes)},
	}

	for _, table := range tables {
		if err := writeTable(zw, table.name, table.header, table.rows); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s: %w", table.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}

	log.Printf("GTFS written: %d routes, %d stops, %d stop times -> %s",
		len(data.Routes), len(data.Stops), len(data.StopTimes), path)
	return nil
}

func writeTable(zw *zip.Writer, name string, header []string, rows [][]string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func agencyRows(agencies []Agency) [][]string {
	rows := make([][]string, 0, len(agencies))
	for _, a := range agencies {
		rows = append(rows, []string{a.AgencyID, a.AgencyName, a.AgencyURL, a.AgencyTimezone})
	}
	return rows
}

func calendarRows(calendars []Calendar) [][]string {
	rows := make([][]string, 0, len(calendars))
	for _, c := range calendars {
		row := []string{c.ServiceID}
		for _, on := range c.Weekdays {
			if on {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		rows = append(rows, append(row, c.StartDate, c.EndDate))
	}
	return rows
}

func routeRows(routes []Route) [][]string {
	rows := make([][]string, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, []string{r.RouteID, r.AgencyID, r.RouteShortName, r.RouteLongName, strconv.Itoa(r.RouteType)})
	}
	return rows
}

func stopRows(stops []Stop) [][]string {
	rows := make([][]string, 0, len(stops))
	for _, s := range stops {
		rows = append(rows, []string{
			s.StopID,
			s.StopName,
			strconv.FormatFloat(s.StopLat, 'f', -1, 64),
			strconv.FormatFloat(s.StopLon, 'f', -1, 64),
		})
	}
	return rows
}

func tripRows(trips []Trip) [][]string {
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, []string{t.RouteID, t.ServiceID, t.TripID, t.TripHeadsign})
	}
	return rows
}

func stopTimeRows(stopTimes []StopTime) [][]string {
	rows := make([][]string, 0, len(stopTimes))
	for _, st := range stopTimes {
		rows = append(rows, []string{st.TripID, st.ArrivalTime, st.DepartureTime, st.StopID, strconv.Itoa(st.StopSequence)})
	}
	return rows
}
