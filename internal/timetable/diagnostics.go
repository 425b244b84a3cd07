package timetable

import "fmt"

// DiagnosticKind names a condition the parser tolerated silently
type DiagnosticKind string

const (
	// DiagDroppedLine is a non-blank line that matched no rule
	DiagDroppedLine DiagnosticKind = "dropped-line"
	// DiagOverwrittenRoute is a close under an id that was already stored
	DiagOverwrittenRoute DiagnosticKind = "overwritten-route"
	// DiagOrphanStops are stops left pending at end of input with no route id
	DiagOrphanStops DiagnosticKind = "orphan-stops"
	// DiagRouteWithoutDigits is a route marker whose field has no number
	DiagRouteWithoutDigits DiagnosticKind = "route-without-digits"
	// DiagUnknownDriverOverride is a driver correction for a route not parsed
	DiagUnknownDriverOverride DiagnosticKind = "unknown-driver-override"
)

// Diagnostic reports one tolerated condition. Diagnostics never change the
// generated data.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Line    int            `json:"line"`
	RouteID string         `json:"routeId,omitempty"`
	Text    string         `json:"text"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Text)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Text)
}

// CountByKind tallies diagnostics per kind
func CountByKind(diags []Diagnostic) map[DiagnosticKind]int {
	counts := make(map[DiagnosticKind]int)
	for _, d := range diags {
		counts[d.Kind]++
	}
	return counts
}
