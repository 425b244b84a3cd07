package gtfs

// Data holds a static GTFS feed
type Data struct {
	Agency    []Agency
	Calendar  []Calendar
	Routes    []Route
	Stops     []Stop
	Trips     []Trip
	StopTimes []StopTime
}

// Agency represents an agency from agency.txt
type Agency struct {
	AgencyID       string
	AgencyName     string
	AgencyURL      string
	AgencyTimezone string
}

// Calendar represents a weekly service from calendar.txt
type Calendar struct {
	ServiceID string
	Weekdays  [7]bool // Monday first
	StartDate string  // YYYYMMDD
	EndDate   string  // YYYYMMDD
}

// Route represents a route from routes.txt
type Route struct {
	RouteID        string
	AgencyID       string
	RouteShortName string
	RouteLongName  string
	RouteType      int
}

// Stop represents a stop from stops.txt
type Stop struct {
	StopID   string
	StopName string
	StopLat  float64
	StopLon  float64
}

// Trip represents a trip from trips.txt
type Trip struct {
	RouteID      string
	ServiceID    string
	TripID       string
	TripHeadsign string
}

// StopTime represents a stop time from stop_times.txt
type StopTime struct {
	TripID        string
	ArrivalTime   string
	DepartureTime string
	StopID        string
	StopSequence  int
}

// RouteTypeBus is the GTFS route_type for buses
const RouteTypeBus = 3
