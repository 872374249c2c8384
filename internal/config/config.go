// ABOUTME: Configuration loader for the cooking codex client
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL is used when no API location is configured
	DefaultAPIURL = "http://localhost:8000/api"
	// DefaultRequestTimeout bounds each API call
	DefaultRequestTimeout = 30 * time.Second
	// DefaultPerPage is the recipe listing page size
	DefaultPerPage = 20

	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

type Config struct {
	// API
	APIURL         string
	MediaURL       string        // defaults to <APIURL>/media
	RequestTimeout time.Duration // 0 disables the timeout
	AllProxy       string        // ssh+socks5://user@host:port?private-key=/path (optional)

	// Local state
	ConfigDir string
	Storage   string // file or sqlite

	// Listing
	PerPage int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration. A .env file in the working directory is
// applied first without overriding variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:         strings.TrimSuffix(getEnv("COOKING_CODEX_API_URL", DefaultAPIURL), "/"),
		MediaURL:       strings.TrimSuffix(os.Getenv("COOKING_CODEX_MEDIA_URL"), "/"),
		RequestTimeout: getEnvDuration("COOKING_CODEX_REQUEST_TIMEOUT", DefaultRequestTimeout),
		AllProxy:       os.Getenv("COOKING_CODEX_ALL_PROXY"),

		ConfigDir: getEnv("COOKING_CODEX_CONFIG_DIR", DefaultConfigDir()),
		Storage:   strings.ToLower(getEnv("COOKING_CODEX_STORAGE", StorageFile)),

		PerPage: getEnvInt("COOKING_CODEX_PER_PAGE", DefaultPerPage),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.MediaURL == "" {
		cfg.MediaURL = DefaultMediaURL(cfg.APIURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	if c.Storage != StorageFile && c.Storage != StorageSQLite {
		return fmt.Errorf("COOKING_CODEX_STORAGE must be %q or %q, got %q", StorageFile, StorageSQLite, c.Storage)
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("COOKING_CODEX_PER_PAGE must be between 1 and 100, got %d", c.PerPage)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("COOKING_CODEX_REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("could not determine config directory; set COOKING_CODEX_CONFIG_DIR")
	}
	return nil
}

// SetAPIURL overrides the API location, keeping a derived media URL in step
func (c *Config) SetAPIURL(apiURL string) {
	apiURL = strings.TrimSuffix(apiURL, "/")
	if c.MediaURL == DefaultMediaURL(c.APIURL) {
		c.MediaURL = DefaultMediaURL(apiURL)
	}
	c.APIURL = apiURL
}

// DefaultMediaURL derives the media location from the API location
func DefaultMediaURL(apiURL string) string {
	return strings.TrimSuffix(apiURL, "/") + "/media"
}

// DefaultConfigDir returns the XDG config directory for cooking codex
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cooking-codex")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cooking-codex")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
