// Package pipeline runs one generation pass: timetable text in, routes
// module, run store and optional GTFS feed out.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/config"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/db"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/static"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/static/gtfs"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// Summary reports what a generation pass did
type Summary struct {
	Skipped     bool
	RunID       string
	Routes      int
	Stops       int
	Enriched    int
	Diagnostics []timetable.Diagnostic
	Manifest    *static.Manifest
	GTFSDropped int
	GTFSWritten bool
}

// Generate parses the extracted text and writes every configured output.
// It does nothing when the manifest shows the inputs are unchanged, unless
// cfg.ForceRegenerate is set.
func Generate(ctx context.Context, cfg *config.Config) (*Summary, error) {
	text, err := os.ReadFile(cfg.TextPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.TextPath, err)
	}

	overrides, err := config.LoadOverrides(cfg.OverridesPath)
	if err != nil {
		return nil, err
	}

	// Output settings are part of the input so changing them regenerates
	settings := fmt.Sprintf("const=%q gtfs=%q", cfg.ConstName, cfg.GTFSOutput)
	checksum := static.Checksum(text, overrides.Raw, []byte(settings))
	if !cfg.ForceRegenerate && !static.IsStale(static.ManifestPath(cfg.OutputPath), checksum) {
		log.Printf("Routes module is up to date: %s", cfg.OutputPath)
		return &Summary{Skipped: true}, nil
	}

	res, err := timetable.NewParser(overrides.ParserMarkers()).Parse(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.TextPath, err)
	}

	for _, id := range timetable.ApplyDriverOverrides(res.Routes, overrides.Drivers) {
		res.Diagnostics = append(res.Diagnostics, timetable.Diagnostic{
			Kind:    timetable.DiagUnknownDriverOverride,
			RouteID: id,
			Text:    fmt.Sprintf("driver override for route %s matches no parsed route", id),
		})
	}

	summary := &Summary{
		Routes:      len(res.Routes),
		Stops:       res.Routes.StopCount(),
		Enriched:    timetable.Enrich(res.Routes, overrides.CoordinateTable()),
		Diagnostics: res.Diagnostics,
	}
	log.Printf("Parsed %d lines: %d routes, %d stops, %d with coordinates",
		res.Lines, summary.Routes, summary.Stops, summary.Enriched)

	if cfg.LogDiagnostics {
		logDiagnostics(res.Diagnostics)
	}

	// The run is stored hidden and only completed once every file is written
	var database *db.DB
	if cfg.DatabasePath != "" {
		database, err = db.Connect(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		defer database.Close()

		summary.RunID, err = storeRun(ctx, database, cfg, res, checksum)
		if err != nil {
			return nil, err
		}
	}

	summary.Manifest, err = static.Generate(res.Routes, static.Options{
		OutputPath:     cfg.OutputPath,
		ConstName:      cfg.ConstName,
		SourcePath:     cfg.TextPath,
		SourceChecksum: checksum,
		RunID:          summary.RunID,
		GTFSPath:       cfg.GTFSOutput,
	})
	if err != nil {
		return nil, err
	}

	if cfg.GTFSOutput != "" {
		feed, dropped := gtfs.FromRoutes(res.Routes, gtfs.FeedOptions{
			AgencyName: cfg.AgencyName,
			AgencyURL:  cfg.AgencyURL,
			Timezone:   cfg.AgencyTimezone,
			StartDate:  time.Now(),
		})
		if err := gtfs.WriteZip(cfg.GTFSOutput, feed); err != nil {
			return nil, fmt.Errorf("failed to write GTFS feed: %w", err)
		}
		if dropped > 0 {
			log.Printf("Warning: GTFS feed left out %d stops without coordinates", dropped)
		}
		summary.GTFSDropped = dropped
		summary.GTFSWritten = true
	}

	if database != nil {
		if err := database.CompleteRun(ctx, summary.RunID); err != nil {
			return nil, err
		}
		if err := database.Cleanup(ctx, cfg.KeepRuns); err != nil {
			log.Printf("Warning: cleanup failed: %v", err)
		}
	}

	return summary, nil
}

func storeRun(ctx context.Context, database *db.DB, cfg *config.Config, res *timetable.Result, checksum string) (string, error) {
	if err := database.EnsureSchema(ctx); err != nil {
		return "", err
	}

	runID, err := database.CreateRun(ctx, db.RunInfo{
		GeneratedAt:    time.Now(),
		SourcePath:     cfg.TextPath,
		SourceChecksum: checksum,
		OutputPath:     cfg.OutputPath,
	})
	if err != nil {
		return "", err
	}
	if err := database.WriteDiagnostics(ctx, runID, res.Diagnostics); err != nil {
		return "", err
	}
	if err := database.WriteRoutes(ctx, runID, res.Routes); err != nil {
		return "", err
	}
	return runID, nil
}

func logDiagnostics(diags []timetable.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	for _, d := range diags {
		log.Printf("Diagnostic: %s", d)
	}
	for kind, n := range timetable.CountByKind(diags) {
		log.Printf("Diagnostics: %d %s", n, kind)
	}
}
