package timetable

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

const maxLineBytes = 1024 * 1024

// ws matches one whitespace character, including Unicode spaces such as
// the no-break spaces PDF text layers emit
const ws = `[\s\p{Z}]`

type lineKind int

const (
	lineBlank lineKind = iota
	lineStop
	lineDriver
	lineRoute
	lineUnmatched
)

type action int

const (
	actionNone action = iota
	actionAppend
	actionClose
)

// lineEvent is what a single line contributes to the parse state
type lineEvent struct {
	kind      lineKind
	stop      Stop
	route     string // route id to adopt, empty if none
	routeText string // raw route field, kept for diagnostics
	driver    string
	rules     []string
}

// state is the accumulator carried across lines
type state struct {
	stops  []Stop
	route  string
	driver string
}

// close returns the open record and resets the accumulator
func (s *state) close() Route {
	r := Route{
		ID:     s.route,
		Driver: s.driver,
		Stops:  s.stops,
	}
	if r.Stops == nil {
		r.Stops = []Stop{}
	}
	*s = state{}
	return r
}

// Result is the outcome of a parse
type Result struct {
	Routes      Routes
	Diagnostics []Diagnostic
	Lines       int
}

// Parser reconstructs route records from extracted timetable text
type Parser struct {
	markers  Markers
	stopRe   *regexp.Regexp
	driverRe *regexp.Regexp
	routeRe  *regexp.Regexp
}

// NewParser builds a parser for the given markers. Empty markers fall back
// to DefaultMarkers.
func NewParser(m Markers) *Parser {
	if m.Route == "" {
		m.Route = DefaultMarkers.Route
	}
	if m.Driver == "" {
		m.Driver = DefaultMarkers.Driver
	}
	route := regexp.QuoteMeta(m.Route)
	driver := regexp.QuoteMeta(m.Driver)

	return &Parser{
		markers:  m,
		stopRe:   regexp.MustCompile(`^(\d{2})` + ws + `+(.*?)(?:` + ws + `+(\d{1,2}[:.]\d{2}))?(?:` + ws + `+` + route + ws + `*(.*?))?$`),
		driverRe: regexp.MustCompile(driver + ws + `*(.*?)(?:` + ws + `+` + route + ws + `*(\d+.*))?$`),
		routeRe:  regexp.MustCompile(route + ws + `*(\d+)`),
	}
}

// Parse scans the text line by line and returns the routes it closed
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	res := &Result{Routes: make(Routes)}
	var st state
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		ev := p.classify(line)

		switch ev.kind {
		case lineUnmatched:
			res.addDiagnostic(DiagDroppedLine, lineNo, "", line)
			continue
		case lineBlank:
			continue
		}

		if ev.routeText != "" && ev.route == "" {
			res.addDiagnostic(DiagRouteWithoutDigits, lineNo, "", line)
		}

		if step(&st, ev) == actionClose {
			res.store(st.close(), lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timetable text: %w", err)
	}
	res.Lines = lineNo

	if st.route != "" && len(st.stops) > 0 {
		res.store(st.close(), lineNo)
	} else if len(st.stops) > 0 {
		res.addDiagnostic(DiagOrphanStops, lineNo, "",
			fmt.Sprintf("%d stops pending without a route id", len(st.stops)))
	}

	return res, nil
}

// ParseString is a convenience wrapper around Parse
func (p *Parser) ParseString(text string) (*Result, error) {
	return p.Parse(strings.NewReader(text))
}

// classify decides what a trimmed line is, in priority order: blank, stop,
// driver, standalone route, unmatched.
func (p *Parser) classify(line string) lineEvent {
	if line == "" {
		return lineEvent{kind: lineBlank}
	}

	if m := p.stopRe.FindStringSubmatch(line); m != nil {
		return p.stopEvent(m)
	}

	if strings.Contains(line, p.markers.Driver) {
		ev := lineEvent{kind: lineDriver}
		if m := p.driverRe.FindStringSubmatch(line); m != nil {
			ev.driver = normalizeText(m[1])
			if m[2] != "" {
				ev.routeText = m[2]
				ev.route = RouteNumber(m[2])
			}
		}
		return ev
	}

	if strings.Contains(line, p.markers.Route) {
		ev := lineEvent{kind: lineRoute}
		if m := p.routeRe.FindStringSubmatch(line); m != nil {
			ev.route = m[1]
		} else {
			ev.routeText = line
		}
		return ev
	}

	return lineEvent{kind: lineUnmatched}
}

func (p *Parser) stopEvent(m []string) lineEvent {
	// The pattern guarantees two digits
	id, _ := strconv.Atoi(m[1])

	f := stopFields{
		name:  strings.TrimSpace(m[2]),
		time:  m[3],
		route: m[4],
	}
	fired := applyStopRules(&f, p.markers)

	ev := lineEvent{
		kind: lineStop,
		stop: Stop{
			ID:   id,
			Name: normalizeText(f.name),
			Time: f.time,
		},
		rules: fired,
	}
	if f.route != "" {
		ev.routeText = f.route
		ev.route = RouteNumber(f.route)
	}
	return ev
}

// step applies one event to the accumulator and reports whether the open
// record must be closed.
func step(st *state, ev lineEvent) action {
	switch ev.kind {
	case lineStop:
		st.stops = append(st.stops, ev.stop)
		if ev.route != "" {
			st.route = ev.route
		}
		return actionAppend

	case lineDriver:
		st.driver = ev.driver
		if ev.route != "" {
			st.route = ev.route
		}
		if st.route != "" {
			return actionClose
		}
		return actionNone

	case lineRoute:
		if ev.route == "" {
			return actionNone
		}
		st.route = ev.route
		if st.driver != "" {
			return actionClose
		}
		return actionNone
	}
	return actionNone
}

func (r *Result) store(route Route, lineNo int) {
	if prev, ok := r.Routes[route.ID]; ok {
		r.addDiagnostic(DiagOverwrittenRoute, lineNo, route.ID,
			fmt.Sprintf("route %s replaced: %d stops -> %d stops", route.ID, len(prev.Stops), len(route.Stops)))
	}
	r.Routes[route.ID] = route
}

func (r *Result) addDiagnostic(kind DiagnosticKind, lineNo int, routeID, text string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:    kind,
		Line:    lineNo,
		RouteID: routeID,
		Text:    text,
	})
}
