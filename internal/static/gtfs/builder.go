package gtfs

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// FeedOptions describe the agency and service window of an exported feed
type FeedOptions struct {
	AgencyName string
	AgencyURL  string
	Timezone   string
	ServiceID  string
	StartDate  time.Time
	Days       int
}

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// FromRoutes converts parsed routes into a feed with one trip per route.
// Stops are deduplicated by name. Stops without coordinates cannot be placed
// in stops.txt, so they are left out of the trip; the number left out is
// returned.
func FromRoutes(routes timetable.Routes, opts FeedOptions) (*Data, int) {
	if opts.ServiceID == "" {
		opts.ServiceID = "WEEKDAY"
	}
	if opts.Days <= 0 {
		opts.Days = 365
	}
	if opts.StartDate.IsZero() {
		opts.StartDate = time.Now()
	}

	const agencyID = "1"
	data := &Data{
		Agency: []Agency{{
			AgencyID:       agencyID,
			AgencyName:     opts.AgencyName,
			AgencyURL:      opts.AgencyURL,
			AgencyTimezone: opts.Timezone,
		}},
		Calendar: []Calendar{{
			ServiceID: opts.ServiceID,
			Weekdays:  [7]bool{true, true, true, true, true, true, false},
			StartDate: opts.StartDate.Format("20060102"),
			EndDate:   opts.StartDate.AddDate(0, 0, opts.Days).Format("20060102"),
		}},
	}

	stopIDs := make(map[string]string)
	skipped := 0

	for _, route := range routes.Sorted() {
		tripID := route.ID + "-1"
		data.Routes = append(data.Routes, Route{
			RouteID:        route.ID,
			AgencyID:       agencyID,
			RouteShortName: route.ID,
			RouteLongName:  longName(route),
			RouteType:      RouteTypeBus,
		})

		var headsign string
		if n := len(route.Stops); n > 0 {
			headsign = route.Stops[n-1].Name
		}
		data.Trips = append(data.Trips, Trip{
			RouteID:      route.ID,
			ServiceID:    opts.ServiceID,
			TripID:       tripID,
			TripHeadsign: headsign,
		})

		seq := 0
		for _, s := range route.Stops {
			if s.Lat == nil || s.Lng == nil {
				skipped++
				continue
			}
			id, ok := stopIDs[s.Name]
			if !ok {
				id = fmt.Sprintf("S%03d", len(stopIDs)+1)
				stopIDs[s.Name] = id
				data.Stops = append(data.Stops, Stop{
					StopID:   id,
					StopName: s.Name,
					StopLat:  *s.Lat,
					StopLon:  *s.Lng,
				})
			}
			seq++
			t := FormatTime(s.Time)
			data.StopTimes = append(data.StopTimes, StopTime{
				TripID:        tripID,
				ArrivalTime:   t,
				DepartureTime: t,
				StopID:        id,
				StopSequence:  seq,
			})
		}
	}

	return data, skipped
}

func longName(route timetable.Route) string {
	if len(route.Stops) == 0 {
		return "Route " + route.ID
	}
	first := route.Stops[0].Name
	last := route.Stops[len(route.Stops)-1].Name
	if first == last {
		return first
	}
	return first + " - " + last
}

// FormatTime turns "7:20" into the GTFS form "07:20:00". Anything that is
// not a clock time yields "".
func FormatTime(t string) string {
	m := clockRe.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s:00", h, m[2])
}
