package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/db"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/timetable"
)

// RouteRepository defines the interface for stored timetable runs
type RouteRepository interface {
	LatestRun(ctx context.Context) (*db.RunInfo, error)
	GetRoutes(ctx context.Context, runID string) (timetable.Routes, error)
	GetRoute(ctx context.Context, runID, routeID string) (*timetable.Route, error)
	GetDiagnostics(ctx context.Context, runID string) ([]timetable.Diagnostic, error)
}

// RouteHandler handles HTTP requests for bus route data
type RouteHandler struct {
	repo RouteRepository
}

// NewRouteHandler creates a new handler with the given repository
func NewRouteHandler(repo RouteRepository) *RouteHandler {
	return &RouteHandler{repo: repo}
}

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// GetAllRoutesResponse is the JSON response structure for GET /api/routes
type GetAllRoutesResponse struct {
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Count       int               `json:"count"`
	Routes      []timetable.Route `json:"routes"`
}

// GetDiagnosticsResponse is the JSON response structure for GET /api/diagnostics
type GetDiagnosticsResponse struct {
	RunID       string                           `json:"runId"`
	Count       int                              `json:"count"`
	ByKind      map[timetable.DiagnosticKind]int `json:"byKind"`
	Diagnostics []timetable.Diagnostic           `json:"diagnostics"`
}

// GetAllRoutes handles GET /api/routes
// Returns the latest run's routes in ascending route number order
func (h *RouteHandler) GetAllRoutes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	run, ok := h.latestRun(ctx, w)
	if !ok {
		return
	}

	routes, err := h.repo.GetRoutes(ctx, run.RunID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve routes", map[string]interface{}{
			"runId":    run.RunID,
			"internal": err.Error(),
		})
		return
	}

	// Routes only change when the generator runs
	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, GetAllRoutesResponse{
		RunID:       run.RunID,
		GeneratedAt: run.GeneratedAt,
		Count:       len(routes),
		Routes:      routes.Sorted(),
	})
}

// GetRouteByID handles GET /api/routes/{routeId}
func (h *RouteHandler) GetRouteByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	routeID := chi.URLParam(r, "routeId")

	if routeID == "" {
		writeError(w, http.StatusBadRequest, "routeId parameter is required", nil)
		return
	}

	run, ok := h.latestRun(ctx, w)
	if !ok {
		return
	}

	route, err := h.repo.GetRoute(ctx, run.RunID, routeID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Route not found", map[string]interface{}{
			"routeId": routeID,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve route", map[string]interface{}{
			"routeId":  routeID,
			"internal": err.Error(),
		})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, route)
}

// GetDiagnostics handles GET /api/diagnostics
// Returns what the parser tolerated while building the latest run
func (h *RouteHandler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	run, ok := h.latestRun(ctx, w)
	if !ok {
		return
	}

	diags, err := h.repo.GetDiagnostics(ctx, run.RunID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve diagnostics", map[string]interface{}{
			"runId":    run.RunID,
			"internal": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, GetDiagnosticsResponse{
		RunID:       run.RunID,
		Count:       len(diags),
		ByKind:      timetable.CountByKind(diags),
		Diagnostics: diags,
	})
}

// latestRun writes the error response itself when no run is available
func (h *RouteHandler) latestRun(ctx context.Context, w http.ResponseWriter) (*db.RunInfo, bool) {
	run, err := h.repo.LatestRun(ctx)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No timetable has been generated yet", nil)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve latest run", map[string]interface{}{
			"internal": err.Error(),
		})
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, details map[string]interface{}) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
