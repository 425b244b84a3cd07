package static

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// GeneratorVersion is bumped whenever the rendered output changes shape,
// forcing a regeneration even if the source text is unchanged.
const GeneratorVersion = "2"

// Manifest describes the last generated module
type Manifest struct {
	UpdatedAt        string `json:"updated_at"`
	GeneratorVersion string `json:"generator_version"`
	SourcePath       string `json:"source_path"`
	SourceChecksum   string `json:"source_checksum"`
	OutputPath       string `json:"output_path"`
	OutputChecksum   string `json:"output_checksum"`
	ConstName        string `json:"const_name"`
	GTFSPath         string `json:"gtfs_path,omitempty"`
	RouteCount       int    `json:"route_count"`
	StopCount        int    `json:"stop_count"`
	RunID            string `json:"run_id,omitempty"`
}

// Options control a generation run
type Options struct {
	OutputPath     string
	ConstName      string
	SourcePath     string
	SourceChecksum string
	RunID          string
	GTFSPath       string // recorded so a missing feed marks the module stale
}

// Generate renders the routes module, writes it and its manifest, and
// returns the manifest
func Generate(routes timetable.Routes, opts Options) (*Manifest, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if opts.ConstName == "" {
		opts.ConstName = DefaultConstName
	}

	var buf bytes.Buffer
	if err := RenderModule(&buf, routes, opts.ConstName); err != nil {
		return nil, fmt.Errorf("failed to render module: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFileAtomic(opts.OutputPath, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", opts.OutputPath, err)
	}

	manifest := &Manifest{
		UpdatedAt:        time.Now().UTC().Format(time.RFC3339),
		GeneratorVersion: GeneratorVersion,
		SourcePath:       opts.SourcePath,
		SourceChecksum:   opts.SourceChecksum,
		OutputPath:       opts.OutputPath,
		OutputChecksum:   sha256Sum(buf.Bytes()),
		ConstName:        opts.ConstName,
		GTFSPath:         opts.GTFSPath,
		RouteCount:       len(routes),
		StopCount:        routes.StopCount(),
		RunID:            opts.RunID,
	}
	if err := writeJSON(ManifestPath(opts.OutputPath), manifest); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	log.Printf("Routes module: generated %d routes, %d stops -> %s",
		manifest.RouteCount, manifest.StopCount, opts.OutputPath)
	return manifest, nil
}

// ManifestPath returns the manifest location for an output module,
// e.g. data/busRoutes.js -> data/busRoutes.manifest.json
func ManifestPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".manifest.json"
}

// Checksum hashes the given inputs in order. Each part is length-prefixed
// so bytes cannot shift between neighbouring parts.
func Checksum(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes through a temp file in the same directory so a
// reader never sees a half-written module
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func sha256Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
