package static

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// DefaultConstName is the export the student app imports
const DefaultConstName = "BUS_ROUTES"

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// RenderModule writes routes as a JavaScript module exporting one constant.
// Routes are emitted in ascending numeric order and stops in captured order.
func RenderModule(w io.Writer, routes timetable.Routes, constName string) error {
	if constName == "" {
		constName = DefaultConstName
	}
	if !identRe.MatchString(constName) {
		return fmt.Errorf("invalid constant name %q", constName)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "export const %s = {\n", constName)

	for _, id := range routes.Keys() {
		route := routes[id]
		fmt.Fprintf(bw, "    %s: {\n", jsString(id))
		fmt.Fprintf(bw, "        driver: %s,\n", jsString(route.Driver))
		bw.WriteString("        stops: [\n")
		for _, s := range route.Stops {
			fmt.Fprintf(bw, "            { id: %d, name: %s, time: %s, lat: %s, lng: %s },\n",
				s.ID, jsString(s.Name), jsString(s.Time), jsNumber(s.Lat), jsNumber(s.Lng))
		}
		bw.WriteString("        ]\n")
		bw.WriteString("    },\n")
	}

	bw.WriteString("};\n")
	return bw.Flush()
}

// RenderModuleString renders the module into a string
func RenderModuleString(routes timetable.Routes, constName string) (string, error) {
	var buf bytes.Buffer
	if err := RenderModule(&buf, routes, constName); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// jsString quotes s as a JSON string literal, which is also a valid
// JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func jsNumber(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
