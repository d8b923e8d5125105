// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string

	// BackendURL is the base URL of the shopping backend.
	BackendURL string
	// BackendTimeout bounds each backend call. Zero means no timeout.
	BackendTimeout time.Duration

	DBPath          string
	ReceiptsEnabled bool

	// WidgetTTL is how long an idle widget is kept before eviction.
	WidgetTTL time.Duration
	// CheckoutPlaceholder opens checkout with a stand-in offer when the
	// backend has not supplied one.
	CheckoutPlaceholder bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		FrontendURL:         getEnv("FRONTEND_URL", ""),
		BackendURL:          strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout:      getEnvDuration("BACKEND_TIMEOUT", 0),
		DBPath:              getEnv("DB_PATH", "./data/shopchat.db"),
		ReceiptsEnabled:     getEnvBool("RECEIPTS_ENABLED", true),
		WidgetTTL:           getEnvDuration("WIDGET_TTL", 60*time.Minute),
		CheckoutPlaceholder: getEnvBool("CHECKOUT_PLACEHOLDER", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", c.BackendURL)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be >= 0")
	}
	if c.ReceiptsEnabled && c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty when receipts are enabled")
	}
	if c.WidgetTTL <= 0 {
		return fmt.Errorf("WIDGET_TTL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return time.Duration(n) * time.Second
}
