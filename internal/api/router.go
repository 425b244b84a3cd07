// Package api wires the routes API handlers into a chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/api/handlers"
)

// Options configures the router
type Options struct {
	AllowedOrigins []string
	StaticDir      string
}

// NewRouter builds the HTTP router for the routes API
func NewRouter(routes *handlers.RouteHandler, health *handlers.HealthHandler, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", health.GetHealth)

	r.Get("/api/routes", routes.GetAllRoutes)
	r.Get("/api/routes/{routeId}", routes.GetRouteByID)
	r.Get("/api/diagnostics", routes.GetDiagnostics)

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}
