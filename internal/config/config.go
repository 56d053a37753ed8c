// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Application modes. PUBLIC serves the catalogue read-only.
const (
	ModeAdmin  = "ADMIN"
	ModePublic = "PUBLIC"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Server   ServerConfig
	Lookup   LookupConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	Mode        string // ADMIN or PUBLIC
	ReadOnly    bool   // derived from Mode
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string // default: ~/Shelfkeeper/books.db
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 5000)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 45s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed browser origins (default: none)
}

// LookupConfig holds ISBN metadata lookup configuration.
type LookupConfig struct {
	BaseURL   string        // default: https://openlibrary.org
	Timeout   time.Duration // default: 30s
	RateLimit float64       // lookups per minute per client, 0 disables (default: 30)
	RateBurst int           // default: 5
}

// LoadConfig loads configuration from the process arguments. See Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("shelfkeeper", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	mode := fs.String("mode", "", "Application mode (ADMIN, PUBLIC)")
	dbPath := fs.String("db-path", "", "Path to the SQLite database (default: ~/Shelfkeeper/books.db)")

	serverPort := fs.String("port", "", "Server port (default: 5000)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 45s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated list of allowed origins")

	lookupURL := fs.String("openlibrary-url", "", "OpenLibrary base URL")
	lookupTimeout := fs.String("lookup-timeout", "", "ISBN lookup timeout (default: 30s)")
	lookupRate := fs.String("lookup-rate", "", "ISBN lookups allowed per minute per client, 0 disables (default: 30)")
	lookupBurst := fs.String("lookup-burst", "", "ISBN lookup burst size (default: 5)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists. Real environment variables win.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			Mode:        strings.ToUpper(getConfigValue(*mode, "APP_MODE", ModeAdmin)),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "5000"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
		},
		Lookup: LookupConfig{
			BaseURL: getConfigValue(*lookupURL, "OPENLIBRARY_URL", "https://openlibrary.org"),
		},
	}
	cfg.App.ReadOnly = cfg.App.Mode == ModePublic

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "45s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Lookup.Timeout, *lookupTimeout, "LOOKUP_TIMEOUT", "30s"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	rateRaw := getConfigValue(*lookupRate, "LOOKUP_RATE_LIMIT", "30")
	rate, err := strconv.ParseFloat(rateRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOOKUP_RATE_LIMIT %q: %w", rateRaw, err)
	}
	cfg.Lookup.RateLimit = rate

	burstRaw := getConfigValue(*lookupBurst, "LOOKUP_RATE_BURST", "5")
	burst, err := strconv.Atoi(burstRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid LOOKUP_RATE_BURST %q: %w", burstRaw, err)
	}
	cfg.Lookup.RateBurst = burst

	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.App.Mode != ModeAdmin && c.App.Mode != ModePublic {
		return fmt.Errorf("invalid mode: %s (must be ADMIN or PUBLIC)", c.App.Mode)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty after expansion")
	}

	if c.Lookup.Timeout <= 0 {
		return errors.New("lookup timeout must be positive")
	}

	if c.Lookup.RateLimit < 0 {
		return errors.New("lookup rate limit cannot be negative")
	}

	if c.Lookup.RateBurst < 1 {
		return errors.New("lookup burst must be at least 1")
	}

	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDatabasePath expands ~ and makes the path absolute.
func (c *Config) expandDatabasePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Shelfkeeper", "books.db")

	expanded, err := expandPath(c.Database.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Database.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Variables already present in the environment are not overwritten.
func loadEnvFile(path string) error {
	return godotenv.Load(path)
}
