package main

import (
	"context"
	"flag"
	"log"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/config"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/pipeline"
)

func main() {
	cfg := config.Load()
	config.InitLogging()

	flag.StringVar(&cfg.TextPath, "input", cfg.TextPath, "Extracted timetable text")
	flag.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "JavaScript module to write")
	flag.StringVar(&cfg.OverridesPath, "overrides", cfg.OverridesPath, "Optional YAML overrides file")
	flag.StringVar(&cfg.GTFSOutput, "gtfs", cfg.GTFSOutput, "Also write a GTFS zip to this path")
	flag.BoolVar(&cfg.ForceRegenerate, "force", cfg.ForceRegenerate, "Regenerate even if inputs are unchanged")
	flag.Parse()

	summary, err := pipeline.Generate(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	if summary.Skipped {
		return
	}

	log.Printf("Generated %d routes (%d stops, %d diagnostics)",
		summary.Routes, summary.Stops, len(summary.Diagnostics))
	if summary.RunID != "" {
		log.Printf("Stored run %s in %s", summary.RunID, cfg.DatabasePath)
	}
	if summary.GTFSWritten {
		log.Printf("GTFS feed written to %s", cfg.GTFSOutput)
	}
}
