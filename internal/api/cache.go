package api

import (
	"context"
	"time"

	"github.com/bluele/gcache"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/api/handlers"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/db"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

const latestRunKey = "latest-run"

// CachedRepository serves repeated reads from memory. A completed run never
// changes, so everything keyed by run id is kept until evicted; only the
// latest-run pointer expires.
type CachedRepository struct {
	repo      handlers.RouteRepository
	runs      gcache.Cache
	data      gcache.Cache
	latestTTL time.Duration
}

// NewCachedRepository wraps repo. latestTTL bounds how long a new run can
// stay invisible.
func NewCachedRepository(repo handlers.RouteRepository, latestTTL time.Duration) *CachedRepository {
	return &CachedRepository{
		repo:      repo,
		runs:      gcache.New(1).Simple().Build(),
		data:      gcache.New(256).LRU().Build(),
		latestTTL: latestTTL,
	}
}

type routesKey string
type routeKey struct{ runID, routeID string }
type diagnosticsKey string

// LatestRun returns the cached latest run until it expires
func (c *CachedRepository) LatestRun(ctx context.Context) (*db.RunInfo, error) {
	if v, err := c.runs.Get(latestRunKey); err == nil {
		return v.(*db.RunInfo), nil
	}

	run, err := c.repo.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	_ = c.runs.SetWithExpire(latestRunKey, run, c.latestTTL)
	return run, nil
}

// GetRoutes returns all routes of a run
func (c *CachedRepository) GetRoutes(ctx context.Context, runID string) (timetable.Routes, error) {
	if v, err := c.data.Get(routesKey(runID)); err == nil {
		return v.(timetable.Routes), nil
	}

	routes, err := c.repo.GetRoutes(ctx, runID)
	if err != nil {
		return nil, err
	}
	_ = c.data.Set(routesKey(runID), routes)
	return routes, nil
}

// GetRoute returns one route of a run. Misses are not cached.
func (c *CachedRepository) GetRoute(ctx context.Context, runID, routeID string) (*timetable.Route, error) {
	key := routeKey{runID: runID, routeID: routeID}
	if v, err := c.data.Get(key); err == nil {
		return v.(*timetable.Route), nil
	}

	route, err := c.repo.GetRoute(ctx, runID, routeID)
	if err != nil {
		return nil, err
	}
	_ = c.data.Set(key, route)
	return route, nil
}

// GetDiagnostics returns the diagnostics of a run
func (c *CachedRepository) GetDiagnostics(ctx context.Context, runID string) ([]timetable.Diagnostic, error) {
	if v, err := c.data.Get(diagnosticsKey(runID)); err == nil {
		return v.([]timetable.Diagnostic), nil
	}

	diags, err := c.repo.GetDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	_ = c.data.Set(diagnosticsKey(runID), diags)
	return diags, nil
}
