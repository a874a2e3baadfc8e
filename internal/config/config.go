// Package config loads all environment variables at startup. Every other
// package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config is the fully-parsed client configuration. The client must run with
// zero configuration, so every field has a working default and Load never
// fails on missing variables.
type Config struct {
	// ── Backend ───────────────────────────────────────────────────────────────
	APIBaseURL  string        // base URL of the assessment API, default "http://localhost:8000"
	HTTPTimeout time.Duration // per-request timeout; generous because POST /api/assessments runs the scoring pipeline synchronously

	// ── Local state ───────────────────────────────────────────────────────────
	HistoryFile string // JSON file holding the viewed-assessment history

	// ── Defaults for submissions ──────────────────────────────────────────────
	Lang string // report language sent with new assessments, default "en"

	// ── Local dashboard ───────────────────────────────────────────────────────
	WebAddr string // listen address for `finhealth web`, default "127.0.0.1:7350"

	// ── Environment ───────────────────────────────────────────────────────────
	Env string // "development" | "production" — controls the log handler
}

// Load reads all environment variables and returns a Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/finhealth` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		APIBaseURL:  getEnv("FINHEALTH_API_URL", "http://localhost:8000"),
		HTTPTimeout: getEnvAsDuration("FINHEALTH_HTTP_TIMEOUT", 60*time.Second),
		HistoryFile: getEnv("FINHEALTH_HISTORY_FILE", defaultHistoryFile()),
		Lang:        getEnv("FINHEALTH_LANG", "en"),
		WebAddr:     getEnv("FINHEALTH_WEB_ADDR", "127.0.0.1:7350"),
		Env:         getEnv("ENV", "development"),
	}

	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	return c, nil
}

// defaultHistoryFile resolves the per-user history location. Falls back to a
// dotfile in the working directory when the OS config dir is unavailable
// (minimal containers without HOME set).
func defaultHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".finhealth_history.json"
	}
	return filepath.Join(dir, "finhealth", "history.json")
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the environment,
// but only for keys that are not already set. This means real env vars (e.g.
// from Docker or your shell) always win over the file.
// Missing file, blank lines, and #-comments are all silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // file absent — that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		// Only set if the key isn't already present in the environment.
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is treated as seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
