package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the timetable tools
type Config struct {
	// Extraction
	PDFPath  string
	TextPath string

	// Generation
	OutputPath      string
	ConstName       string
	OverridesPath   string
	ForceRegenerate bool
	LogDiagnostics  bool

	// GTFS export (disabled when empty)
	GTFSOutput     string
	AgencyName     string
	AgencyURL      string
	AgencyTimezone string

	// Run store
	DatabasePath string
	KeepRuns     int

	// API
	Port           string
	AllowedOrigins []string
	StaticDir      string
	LatestRunTTL   time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file is loaded first and .env.local overrides it.
func Load() *Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	return &Config{
		PDFPath:  getEnv("PDF_PATH", "Daily Bus Routes From 16.02.2026 (1).pdf"),
		TextPath: getEnv("TEXT_PATH", "extracted_pdf.txt"),

		OutputPath:      getEnv("OUTPUT_PATH", "apps/student/data/busRoutes.js"),
		ConstName:       getEnv("CONST_NAME", "BUS_ROUTES"),
		OverridesPath:   getEnv("OVERRIDES_PATH", "timetable.yml"),
		ForceRegenerate: getEnvBool("FORCE_REGENERATE", false),
		LogDiagnostics:  getEnvBool("LOG_DIAGNOSTICS", true),

		GTFSOutput:     getEnv("GTFS_OUTPUT", ""),
		AgencyName:     getEnv("AGENCY_NAME", "TRANS-IT"),
		AgencyURL:      getEnv("AGENCY_URL", "https://trans-it.example.org"),
		AgencyTimezone: getEnv("AGENCY_TIMEZONE", "Asia/Kolkata"),

		DatabasePath: getEnv("SQLITE_DATABASE", "data/routes.db"),
		KeepRuns:     getEnvInt("KEEP_RUNS", 10),

		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3002"}),
		StaticDir:      getEnv("STATIC_DIR", ""),
		LatestRunTTL:   time.Duration(getEnvInt("LATEST_RUN_TTL_SECONDS", 5)) * time.Second,
	}
}

// InitLogging sends log output to stdout with microsecond timestamps
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
