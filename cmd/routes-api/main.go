package main

import (
	"context"
	"log"
	"net/http"

	"github.com/Hariharasudhan-29/TRANS-IT/internal/api"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/api/handlers"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/config"
	"github.com/Hariharasudhan-29/TRANS-IT/internal/db"
)

func main() {
	cfg := config.Load()
	config.InitLogging()

	store, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize SQLite database: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	repo := api.NewCachedRepository(store, cfg.LatestRunTTL)
	router := api.NewRouter(handlers.NewRouteHandler(repo), handlers.NewHealthHandler(store), api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})

	log.Printf("API server starting on :%s", cfg.Port)
	log.Println("Route endpoints:")
	log.Println("  GET /api/routes")
	log.Println("  GET /api/routes/{routeId}")
	log.Println("  GET /api/diagnostics")
	log.Println("Health:")
	log.Println("  GET /health (with database check)")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
