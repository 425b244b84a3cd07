package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TEXT_PATH", "OUTPUT_PATH", "KEEP_RUNS", "FORCE_REGENERATE", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.TextPath != "extracted_pdf.txt" {
		t.Errorf("TextPath = %q", cfg.TextPath)
	}
	if cfg.OutputPath != "apps/student/data/busRoutes.js" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
	if cfg.KeepRuns != 10 {
		t.Errorf("KeepRuns = %d, want 10", cfg.KeepRuns)
	}
	if cfg.ForceRegenerate {
		t.Error("ForceRegenerate should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEXT_PATH", "/tmp/in.txt")
	t.Setenv("KEEP_RUNS", "3")
	t.Setenv("FORCE_REGENERATE", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.TextPath != "/tmp/in.txt" {
		t.Errorf("TextPath = %q", cfg.TextPath)
	}
	if cfg.KeepRuns != 3 {
		t.Errorf("KeepRuns = %d, want 3", cfg.KeepRuns)
	}
	if !cfg.ForceRegenerate {
		t.Error("ForceRegenerate should be true")
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("KEEP_RUNS", "many")
	t.Setenv("LOG_DIAGNOSTICS", "maybe")

	cfg := Load()
	if cfg.KeepRuns != 10 {
		t.Errorf("KeepRuns = %d, want default 10", cfg.KeepRuns)
	}
	if !cfg.LogDiagnostics {
		t.Error("LogDiagnostics should keep its default")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timetable.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write overrides: %v", err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
markers:
  route: "ROUTE NO:"
coordinates:
  - name: Simmakkal
    lat: 9.9262
    lng: 78.1157
  - name: Goripalayam
    lat: 9.93
    lng: 78.13
drivers:
  "103": "SELVAM – 8807923848"
  "124": RAJASEKARAN
`)

	o, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}

	m := o.ParserMarkers()
	if m.Route != "ROUTE NO:" || m.Driver != "" {
		t.Errorf("markers = %+v", m)
	}
	if o.Drivers["103"] != "SELVAM – 8807923848" {
		t.Errorf("driver 103 = %q", o.Drivers["103"])
	}

	table := o.CoordinateTable()
	if table["Simmakkal"].Lat != 9.9262 {
		t.Errorf("Simmakkal = %+v", table["Simmakkal"])
	}
	if table["Goripalayam"].Lat != 9.93 {
		t.Errorf("configured coordinates should override defaults, got %+v", table["Goripalayam"])
	}
	if _, ok := table["BB Kulam Bus Stop"]; !ok {
		t.Error("default coordinates should be kept")
	}
	if len(o.Raw) == 0 {
		t.Error("Raw should hold the file content")
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	o, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing overrides should not be an error: %v", err)
	}
	if len(o.Drivers) != 0 || len(o.Coordinates) != 0 {
		t.Errorf("expected empty overrides, got %+v", o)
	}
}

func TestLoadOverridesInvalid(t *testing.T) {
	tests := []struct {
		label   string
		content string
	}{
		{"invalid yaml", "invalid: yaml: content: [[["},
		{"latitude out of range", "coordinates:\n  - name: X\n    lat: 120\n    lng: 78\n"},
		{"missing stop name", "coordinates:\n  - lat: 9.9\n    lng: 78\n"},
		{"non-numeric route id", "drivers:\n  R101: KARMEGAM\n"},
		{"empty driver", "drivers:\n  \"101\": \"\"\n"},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			if _, err := LoadOverrides(writeFile(t, tc.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
