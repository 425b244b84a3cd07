package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/db"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

type countingRepo struct {
	latest      int
	routes      int
	route       int
	diagnostics int
	runID       string
}

func (r *countingRepo) LatestRun(ctx context.Context) (*db.RunInfo, error) {
	r.latest++
	return &db.RunInfo{RunID: r.runID}, nil
}

func (r *countingRepo) GetRoutes(ctx context.Context, runID string) (timetable.Routes, error) {
	r.routes++
	return timetable.Routes{"101": {ID: "101"}}, nil
}

func (r *countingRepo) GetRoute(ctx context.Context, runID, routeID string) (*timetable.Route, error) {
	r.route++
	if routeID != "101" {
		return nil, db.ErrNotFound
	}
	return &timetable.Route{ID: "101"}, nil
}

func (r *countingRepo) GetDiagnostics(ctx context.Context, runID string) ([]timetable.Diagnostic, error) {
	r.diagnostics++
	return []timetable.Diagnostic{}, nil
}

func TestCachedRepositoryReusesRunData(t *testing.T) {
	repo := &countingRepo{runID: "run-1"}
	c := NewCachedRepository(repo, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.LatestRun(ctx); err != nil {
			t.Fatalf("LatestRun failed: %v", err)
		}
		if _, err := c.GetRoutes(ctx, "run-1"); err != nil {
			t.Fatalf("GetRoutes failed: %v", err)
		}
		if _, err := c.GetRoute(ctx, "run-1", "101"); err != nil {
			t.Fatalf("GetRoute failed: %v", err)
		}
		if _, err := c.GetDiagnostics(ctx, "run-1"); err != nil {
			t.Fatalf("GetDiagnostics failed: %v", err)
		}
	}

	if repo.latest != 1 || repo.routes != 1 || repo.route != 1 || repo.diagnostics != 1 {
		t.Errorf("backing calls = %d/%d/%d/%d, want 1 each",
			repo.latest, repo.routes, repo.route, repo.diagnostics)
	}
}

func TestCachedRepositoryDoesNotCacheMisses(t *testing.T) {
	repo := &countingRepo{runID: "run-1"}
	c := NewCachedRepository(repo, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.GetRoute(ctx, "run-1", "404"); !errors.Is(err, db.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if repo.route != 2 {
		t.Errorf("backing calls = %d, want 2", repo.route)
	}
}

func TestCachedRepositoryLatestRunExpires(t *testing.T) {
	repo := &countingRepo{runID: "run-1"}
	c := NewCachedRepository(repo, 10*time.Millisecond)
	ctx := context.Background()

	if _, err := c.LatestRun(ctx); err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	repo.runID = "run-2"
	time.Sleep(30 * time.Millisecond)

	run, err := c.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if run.RunID != "run-2" {
		t.Errorf("RunID = %s, want run-2 after expiry", run.RunID)
	}
}
