package timetable

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	timeTokenRe = regexp.MustCompile(`^\d{1,2}[:.]\d{2}`)
	digitsRe    = regexp.MustCompile(`\d+`)
)

// stopFields holds the raw fields captured from a stop line while the
// corrective rules move tokens between them.
type stopFields struct {
	name  string
	time  string
	route string
}

// stopRule is one corrective extraction step. apply reports whether the rule
// fired; a rule that does not fire leaves the fields untouched.
type stopRule struct {
	name  string
	apply func(f *stopFields, m Markers) bool
}

// stopRules run in order against every matched stop line.
var stopRules = []stopRule{
	// Precondition: no time captured and the name ends in a word starting
	// with a time token. Effect: that word moves into the time field.
	{name: "trailing-time", apply: trailingTime},
	// Precondition: the name contains the route marker. Effect: the text
	// after the marker becomes the route field, then trailing-time reruns on
	// the shortened name.
	{name: "name-route", apply: splitNameRoute},
	// Precondition: the time field contains the route marker. Effect: the
	// text after the marker becomes the route field.
	{name: "time-route", apply: splitTimeRoute},
	// Precondition: the time uses a period separator. Effect: it becomes a
	// colon.
	{name: "normalize-time", apply: normalizeTime},
}

func applyStopRules(f *stopFields, m Markers) []string {
	var fired []string
	for _, rule := range stopRules {
		if rule.apply(f, m) {
			fired = append(fired, rule.name)
		}
	}
	return fired
}

func trailingTime(f *stopFields, _ Markers) bool {
	if f.time != "" {
		return false
	}
	idx := strings.LastIndexFunc(f.name, unicode.IsSpace)
	if idx < 0 {
		return false
	}
	_, size := utf8.DecodeRuneInString(f.name[idx:])
	word := f.name[idx+size:]
	if !timeTokenRe.MatchString(word) {
		return false
	}
	f.name = strings.TrimSpace(f.name[:idx])
	f.time = strings.TrimSpace(word)
	return true
}

func splitNameRoute(f *stopFields, m Markers) bool {
	before, after, ok := splitMarker(f.name, m.Route)
	if !ok {
		return false
	}
	f.name = before
	f.route = after
	trailingTime(f, m)
	return true
}

func splitTimeRoute(f *stopFields, m Markers) bool {
	before, after, ok := splitMarker(f.time, m.Route)
	if !ok {
		return false
	}
	f.time = before
	f.route = after
	return true
}

func normalizeTime(f *stopFields, _ Markers) bool {
	if !strings.Contains(f.time, ".") {
		return false
	}
	f.time = strings.ReplaceAll(f.time, ".", ":")
	return true
}

// splitMarker returns the trimmed text before the first marker and between
// the first and second marker. Anything after a second marker is discarded.
func splitMarker(s, marker string) (string, string, bool) {
	if marker == "" || !strings.Contains(s, marker) {
		return "", "", false
	}
	parts := strings.Split(s, marker)
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// RouteNumber returns the first run of digits in a route field,
// e.g. "101 - KULAMANGALAM" yields "101".
func RouteNumber(field string) string {
	return digitsRe.FindString(field)
}

// NormalizeTime converts a period separator into a colon ("7.45" -> "7:45")
func NormalizeTime(t string) string {
	return strings.ReplaceAll(t, ".", ":")
}

// normalizeText trims surrounding whitespace and applies Unicode NFC so
// visually identical names compare equal. Interior spacing is kept as is.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
