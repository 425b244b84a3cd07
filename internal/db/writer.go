package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// timeLayout is fixed-width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000Z"

// RunInfo describes one generation run
type RunInfo struct {
	RunID          string    `json:"runId"`
	GeneratedAt    time.Time `json:"generatedAt"`
	SourcePath     string    `json:"sourcePath"`
	SourceChecksum string    `json:"sourceChecksum"`
	OutputPath     string    `json:"outputPath"`
	RouteCount     int       `json:"routeCount"`
	StopCount      int       `json:"stopCount"`
}

// CreateRun creates a new run record and returns its ID. The run is not
// visible to readers until CompleteRun marks it completed.
func (db *DB) CreateRun(ctx context.Context, info RunInfo) (string, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	runID := uuid.New().String()
	generatedAt := info.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO runs (run_id, generated_at_utc, source_path, source_checksum, output_path)
		VALUES (?, ?, ?, ?, ?)`,
		runID, generatedAt.UTC().Format(timeLayout), info.SourcePath, info.SourceChecksum, info.OutputPath,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	return runID, nil
}

// WriteRoutes stores every route and stop of a run in one transaction
func (db *DB) WriteRoutes(ctx context.Context, runID string, routes timetable.Routes) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	routeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO routes (run_id, route_id, driver) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare route statement: %w", err)
	}
	defer routeStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stops (run_id, route_id, position, stop_id, name, time, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stop statement: %w", err)
	}
	defer stopStmt.Close()

	for _, id := range routes.Keys() {
		route := routes[id]
		if _, err := routeStmt.ExecContext(ctx, runID, id, route.Driver); err != nil {
			return fmt.Errorf("failed to insert route %s: %w", id, err)
		}
		for i, s := range route.Stops {
			if _, err := stopStmt.ExecContext(ctx, runID, id, i, s.ID, s.Name, s.Time, s.Lat, s.Lng); err != nil {
				return fmt.Errorf("failed to insert stop %d of route %s: %w", i, id, err)
			}
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE runs SET route_count = ?, stop_count = ? WHERE run_id = ?",
		len(routes), routes.StopCount(), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run counts: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}

	return tx.Commit()
}

// CompleteRun makes a run visible to readers. Call it only once every
// output of the run has been written.
func (db *DB) CompleteRun(ctx context.Context, runID string) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	res, err := db.conn.ExecContext(ctx, "UPDATE runs SET completed = 1 WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

// WriteDiagnostics stores the diagnostics reported while parsing a run
func (db *DB) WriteDiagnostics(ctx context.Context, runID string, diags []timetable.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO diagnostics (run_id, seq, kind, line, route_id, text) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare diagnostic statement: %w", err)
	}
	defer stmt.Close()

	for i, d := range diags {
		if _, err := stmt.ExecContext(ctx, runID, i, string(d.Kind), d.Line, d.RouteID, d.Text); err != nil {
			return fmt.Errorf("failed to insert diagnostic %d: %w", i, err)
		}
	}

	return tx.Commit()
}
