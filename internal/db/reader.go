package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// ErrNotFound is returned when a run or route does not exist
var ErrNotFound = errors.New("not found")

// LatestRun returns the most recent completed run
func (db *DB) LatestRun(ctx context.Context) (*RunInfo, error) {
	var info RunInfo
	var generatedAt string

	err := db.conn.QueryRowContext(ctx, `
		SELECT run_id, generated_at_utc, source_path, source_checksum, output_path, route_count, stop_count
		FROM runs
		WHERE completed = 1
		ORDER BY generated_at_utc DESC, rowid DESC
		LIMIT 1`,
	).Scan(&info.RunID, &generatedAt, &info.SourcePath, &info.SourceChecksum, &info.OutputPath, &info.RouteCount, &info.StopCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	if t, err := time.Parse(timeLayout, generatedAt); err == nil {
		info.GeneratedAt = t
	}
	return &info, nil
}

// GetRoutes returns every route of a run with its stops in order
func (db *DB) GetRoutes(ctx context.Context, runID string) (timetable.Routes, error) {
	routes := make(timetable.Routes)

	rows, err := db.conn.QueryContext(ctx,
		"SELECT route_id, driver FROM routes WHERE run_id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	for rows.Next() {
		var id, driver string
		if err := rows.Scan(&id, &driver); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes[id] = timetable.Route{ID: id, Driver: driver, Stops: []timetable.Stop{}}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	stops, err := db.queryStops(ctx,
		"SELECT route_id, stop_id, name, time, latitude, longitude FROM stops WHERE run_id = ? ORDER BY route_id, position",
		runID)
	if err != nil {
		return nil, err
	}
	for _, rs := range stops {
		route := routes[rs.routeID]
		route.Stops = append(route.Stops, rs.stop)
		routes[rs.routeID] = route
	}

	return routes, nil
}

// GetRoute returns one route of a run
func (db *DB) GetRoute(ctx context.Context, runID, routeID string) (*timetable.Route, error) {
	route := timetable.Route{ID: routeID, Stops: []timetable.Stop{}}

	err := db.conn.QueryRowContext(ctx,
		"SELECT driver FROM routes WHERE run_id = ? AND route_id = ?", runID, routeID,
	).Scan(&route.Driver)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query route %s: %w", routeID, err)
	}

	stops, err := db.queryStops(ctx,
		"SELECT route_id, stop_id, name, time, latitude, longitude FROM stops WHERE run_id = ? AND route_id = ? ORDER BY position",
		runID, routeID)
	if err != nil {
		return nil, err
	}
	for _, rs := range stops {
		route.Stops = append(route.Stops, rs.stop)
	}

	return &route, nil
}

// GetDiagnostics returns the diagnostics of a run in the order reported
func (db *DB) GetDiagnostics(ctx context.Context, runID string) ([]timetable.Diagnostic, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT kind, line, route_id, text FROM diagnostics WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []timetable.Diagnostic{}
	for rows.Next() {
		var d timetable.Diagnostic
		var kind string
		if err := rows.Scan(&kind, &d.Line, &d.RouteID, &d.Text); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.Kind = timetable.DiagnosticKind(kind)
		diags = append(diags, d)
	}

	return diags, rows.Err()
}

type routeStop struct {
	routeID string
	stop    timetable.Stop
}

func (db *DB) queryStops(ctx context.Context, query string, args ...interface{}) ([]routeStop, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stops: %w", err)
	}
	defer rows.Close()

	var out []routeStop
	for rows.Next() {
		var rs routeStop
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&rs.routeID, &rs.stop.ID, &rs.stop.Name, &rs.stop.Time, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan stop: %w", err)
		}
		if lat.Valid && lng.Valid {
			rs.stop.Lat = &lat.Float64
			rs.stop.Lng = &lng.Float64
		}
		out = append(out, rs)
	}

	return out, rows.Err()
}
