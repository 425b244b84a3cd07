package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/config"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/db"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/static/gtfs"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

const sampleText = `Page 1
01 Goripalayam 7:20
02 Thirunagar 7.45
DRIVER NAME: KARMEGAM ROUTE: 101 - KULAMANGALAM
DRIVER NAME: SELVAM
01 Simmakkal 7:25
ROUTE: 9
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	textPath := filepath.Join(dir, "extracted_pdf.txt")
	if err := os.WriteFile(textPath, []byte(sampleText), 0644); err != nil {
		t.Fatalf("failed to write text: %v", err)
	}

	return &config.Config{
		TextPath:       textPath,
		OutputPath:     filepath.Join(dir, "out", "busRoutes.js"),
		OverridesPath:  filepath.Join(dir, "timetable.yml"),
		LogDiagnostics: true,
		DatabasePath:   filepath.Join(dir, "data", "routes.db"),
		KeepRuns:       5,
		AgencyName:     "TRANS-IT",
		AgencyURL:      "https://trans-it.example.org",
		AgencyTimezone: "Asia/Kolkata",
	}
}

func TestGenerateWritesAllOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.GTFSOutput = filepath.Join(filepath.Dir(cfg.OutputPath), "gtfs.zip")
	ctx := context.Background()

	summary, err := Generate(ctx, cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if summary.Skipped {
		t.Fatal("first run should not be skipped")
	}
	if summary.Routes != 2 || summary.Stops != 3 {
		t.Errorf("routes/stops = %d/%d, want 2/3", summary.Routes, summary.Stops)
	}
	if summary.Enriched != 1 {
		t.Errorf("enriched = %d, want 1 (Goripalayam)", summary.Enriched)
	}
	if summary.RunID == "" || summary.Manifest.RunID != summary.RunID {
		t.Errorf("manifest run id = %q, summary run id = %q", summary.Manifest.RunID, summary.RunID)
	}

	module, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("module not written: %v", err)
	}
	if !strings.HasPrefix(string(module), "export const BUS_ROUTES = {\n    \"9\": {") {
		t.Errorf("module should start with route 9, got:\n%s", module)
	}

	store, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer store.Close()

	run, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run.RunID != summary.RunID {
		t.Errorf("stored run = %s, want %s", run.RunID, summary.RunID)
	}
	diags, err := store.GetDiagnostics(ctx, run.RunID)
	if err != nil {
		t.Fatalf("GetDiagnostics failed: %v", err)
	}
	if len(diags) != 1 || diags[0].Kind != timetable.DiagDroppedLine {
		t.Errorf("diagnostics = %+v, want one dropped line", diags)
	}

	if !summary.GTFSWritten || summary.GTFSDropped != 2 {
		t.Errorf("gtfs written/dropped = %v/%d, want true/2", summary.GTFSWritten, summary.GTFSDropped)
	}
	feed, err := gtfs.Parse(cfg.GTFSOutput)
	if err != nil {
		t.Fatalf("gtfs.Parse failed: %v", err)
	}
	if len(feed.Routes) != 2 || len(feed.Stops) != 1 {
		t.Errorf("feed routes/stops = %d/%d, want 2/1", len(feed.Routes), len(feed.Stops))
	}
}

func TestGenerateSkipsUnchangedInput(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	if _, err := Generate(ctx, cfg); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	summary, err := Generate(ctx, cfg)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if !summary.Skipped {
		t.Error("unchanged input should be skipped")
	}

	cfg.ForceRegenerate = true
	summary, err = Generate(ctx, cfg)
	if err != nil {
		t.Fatalf("forced Generate failed: %v", err)
	}
	if summary.Skipped {
		t.Error("forced run should not be skipped")
	}
}

func TestGenerateRerunsWhenOverridesChange(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	if _, err := Generate(ctx, cfg); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	overrides := "drivers:\n  \"9\": SELVAM KUMAR\n  \"404\": NOBODY\n"
	if err := os.WriteFile(cfg.OverridesPath, []byte(overrides), 0644); err != nil {
		t.Fatalf("failed to write overrides: %v", err)
	}

	summary, err := Generate(ctx, cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if summary.Skipped {
		t.Fatal("changed overrides should trigger a run")
	}

	counts := timetable.CountByKind(summary.Diagnostics)
	if counts[timetable.DiagUnknownDriverOverride] != 1 {
		t.Errorf("diagnostics = %+v, want one unknown override", summary.Diagnostics)
	}

	module, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("module not written: %v", err)
	}
	if !strings.Contains(string(module), `driver: "SELVAM KUMAR"`) {
		t.Errorf("driver override missing from module:\n%s", module)
	}
}

func TestGenerateRerunsWhenOutputsChange(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		label  string
		change func(cfg *config.Config)
	}{
		{"module deleted", func(cfg *config.Config) { os.Remove(cfg.OutputPath) }},
		{"gtfs export enabled", func(cfg *config.Config) {
			cfg.GTFSOutput = filepath.Join(filepath.Dir(cfg.OutputPath), "gtfs.zip")
		}},
		{"constant renamed", func(cfg *config.Config) { cfg.ConstName = "ROUTES" }},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			cfg := testConfig(t)
			if _, err := Generate(ctx, cfg); err != nil {
				t.Fatalf("first Generate failed: %v", err)
			}

			tc.change(cfg)
			summary, err := Generate(ctx, cfg)
			if err != nil {
				t.Fatalf("second Generate failed: %v", err)
			}
			if summary.Skipped {
				t.Fatal("run should not be skipped")
			}
			if _, err := os.Stat(cfg.OutputPath); err != nil {
				t.Errorf("module missing after rerun: %v", err)
			}
			if cfg.GTFSOutput != "" {
				if _, err := os.Stat(cfg.GTFSOutput); err != nil {
					t.Errorf("gtfs feed missing after rerun: %v", err)
				}
			}
		})
	}
}

func TestGenerateRerunsWhenGTFSFeedDeleted(t *testing.T) {
	cfg := testConfig(t)
	cfg.GTFSOutput = filepath.Join(filepath.Dir(cfg.OutputPath), "gtfs.zip")
	ctx := context.Background()

	if _, err := Generate(ctx, cfg); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	if err := os.Remove(cfg.GTFSOutput); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	summary, err := Generate(ctx, cfg)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if summary.Skipped || !summary.GTFSWritten {
		t.Errorf("skipped/gtfs written = %v/%v, want false/true", summary.Skipped, summary.GTFSWritten)
	}
}

func TestGenerateFailedModuleLeavesRunHidden(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	// A non-empty directory at the output path makes the module write fail
	if err := os.MkdirAll(filepath.Join(cfg.OutputPath, "blocker"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	if _, err := Generate(ctx, cfg); err == nil {
		t.Fatal("Generate should fail when the module cannot be written")
	}

	store, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer store.Close()

	if _, err := store.LatestRun(ctx); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("LatestRun err = %v, want ErrNotFound", err)
	}

	entries, _ := os.ReadDir(filepath.Dir(cfg.OutputPath))
	for _, e := range entries {
		if e.Name() != "busRoutes.js" {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestGenerateMissingText(t *testing.T) {
	cfg := testConfig(t)
	cfg.TextPath = filepath.Join(t.TempDir(), "missing.txt")

	if _, err := Generate(context.Background(), cfg); err == nil {
		t.Error("expected an error for missing text")
	}
}
