package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("PORT", "8080")
	t.Setenv("BACKEND_URL", "http://localhost:8000/")
	t.Setenv("BACKEND_TIMEOUT", "0")
	t.Setenv("DB_PATH", "./data/shopchat.db")
	t.Setenv("WIDGET_TTL", "1h")
	t.Setenv("CHECKOUT_PLACEHOLDER", "false")
	t.Setenv("RECEIPTS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("trailing slash must be trimmed, got %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 0 {
		t.Fatalf("expected no backend timeout, got %v", cfg.BackendTimeout)
	}
	if cfg.WidgetTTL != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", cfg.WidgetTTL)
	}
	if cfg.CheckoutPlaceholder {
		t.Fatal("placeholder must be off by default")
	}
	if !cfg.IsDevelopment() {
		t.Fatal("empty FRONTEND_URL must be development")
	}
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "localhost:8000")
	t.Setenv("WIDGET_TTL", "1h")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "BACKEND_URL") {
		t.Fatalf("expected BACKEND_URL error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "8080", BackendURL: "http://x", DBPath: "db", ReceiptsEnabled: true, WidgetTTL: time.Minute}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noDB := valid
	noDB.DBPath = ""
	if err := noDB.Validate(); err == nil {
		t.Fatal("expected DB_PATH error with receipts enabled")
	}
	noDB.ReceiptsEnabled = false
	if err := noDB.Validate(); err != nil {
		t.Fatalf("DB_PATH is optional without receipts: %v", err)
	}

	noTTL := valid
	noTTL.WidgetTTL = 0
	if err := noTTL.Validate(); err == nil {
		t.Fatal("expected WIDGET_TTL error")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DURATION", "30s")
	if got := getEnvDuration("X_DURATION", time.Minute); got != 30*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("X_DURATION", "45")
	if got := getEnvDuration("X_DURATION", time.Minute); got != 45*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("X_DURATION", "soon")
	if got := getEnvDuration("X_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("got %v", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	if !getEnvBool("X_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("X_BOOL", "maybe")
	if getEnvBool("X_BOOL", false) {
		t.Fatal("expected fallback")
	}
}
