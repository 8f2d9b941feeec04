package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DraftSource is a named directory of markdown drafts.
type DraftSource struct {
	Name string `validate:"required,excludesall=/\\ "`
	Path string `validate:"required"`
}

// Config holds all configuration for the application.
type Config struct {
	DBPath        string        `validate:"required"`
	APIPort       string        `validate:"required,numeric"`
	AuthSecret    string        `validate:"required,min=16"`
	TokenTTL      time.Duration `validate:"gt=0"`
	DraftSources  []DraftSource `validate:"unique=Name,dive"`
	ImportOnStart bool
	DraftsWatch   bool
	DateFormat    string `validate:"required"`
	TimeFormat    string `validate:"required"`
	TimeZone      string `validate:"required,timezone"`
	LogLevelName  string `validate:"oneof=debug info warn error"`
	LogFormat     string `validate:"oneof=text json"`

	// LogLevel is LogLevelName parsed for slog.
	LogLevel slog.Level `validate:"-"`
	// Location is TimeZone loaded; report times are shown in it.
	Location *time.Location `validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load() // Try current directory

	// Walk up a few levels looking for a project .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "./data/editor-note.db"),
		APIPort:      getEnv("API_PORT", "9000"),
		AuthSecret:   os.Getenv("AUTH_SECRET"),
		DateFormat:   getEnv("DATE_FORMAT", "January 2, 2006"),
		TimeFormat:   getEnv("TIME_FORMAT", "3:04 pm"),
		TimeZone:     getEnv("TIME_ZONE", "UTC"),
		LogLevelName: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL must be a duration: %w", err)
	}
	if cfg.ImportOnStart, err = getBool("IMPORT_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.DraftsWatch, err = getBool("DRAFTS_WATCH", false); err != nil {
		return nil, err
	}
	if cfg.DraftSources, err = ParseDraftSources(os.Getenv("DRAFT_SOURCES")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	_ = cfg.LogLevel.UnmarshalText([]byte(cfg.LogLevelName))
	if cfg.Location, err = time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("TIME_ZONE: %w", err)
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks the struct tags and reports the first failing key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid configuration: %s failed %q", envName(fe.StructNamespace()), fe.Tag())
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

// ParseDraftSources parses a comma separated name=path list.
func ParseDraftSources(raw string) ([]DraftSource, error) {
	var sources []DraftSource
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, path, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("DRAFT_SOURCES entry %q must be name=path", item)
		}
		sources = append(sources, DraftSource{
			Name: strings.TrimSpace(name),
			Path: strings.TrimSpace(path),
		})
	}
	return sources, nil
}

var envNames = map[string]string{
	"DBPath":       "DB_PATH",
	"APIPort":      "API_PORT",
	"AuthSecret":   "AUTH_SECRET",
	"TokenTTL":     "TOKEN_TTL",
	"DraftSources": "DRAFT_SOURCES",
	"DateFormat":   "DATE_FORMAT",
	"TimeFormat":   "TIME_FORMAT",
	"TimeZone":     "TIME_ZONE",
	"LogLevelName": "LOG_LEVEL",
	"LogFormat":    "LOG_FORMAT",
}

// envName maps a validator namespace like Config.DraftSources[0].Name to
// the environment key it came from.
func envName(namespace string) string {
	field := strings.TrimPrefix(namespace, "Config.")
	if i := strings.IndexAny(field, ".["); i >= 0 {
		field = field[:i]
	}
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}
