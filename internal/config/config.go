// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Trip Store backends selectable with STORE_BACKEND.
const (
	BackendSheet    = "sheet"
	BackendPostgres = "postgres"
)

// Config holds all configuration values for the server and logbookctl.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend selects the Trip Store: "sheet" (default) or "postgres".
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for the postgres backend.
	DatabaseURL string

	// SheetPath and SheetName locate the spreadsheet-backed store.
	SheetPath string
	SheetName string

	// TemplatePath is the report template workbook, read on every export.
	TemplatePath string

	// LayoutPath optionally points at a YAML cell layout for the template.
	// Empty means the built-in layout for the current official template.
	LayoutPath string

	// Location is the reference time zone for recorded_at and the "now" buttons.
	Location *time.Location

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// All problems are reported together in one error.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendSheet)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SheetPath:    getEnv("SHEET_PATH", "viajes.xlsx"),
		SheetName:    getEnv("SHEET_NAME", "Hoja 1"),
		TemplatePath: getEnv("TEMPLATE_PATH", "plantilla_oficial.xlsx"),
		LayoutPath:   os.Getenv("LAYOUT_PATH"),
	}

	var problems []string

	switch cfg.StoreBackend {
	case BackendSheet:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "required environment variables not set: DATABASE_URL")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND must be %q or %q, got %q", BackendSheet, BackendPostgres, cfg.StoreBackend))
	}

	zone := getEnv("TIME_ZONE", "America/New_York")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("TIME_ZONE %q: %v", zone, err))
	}
	cfg.Location = loc

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
