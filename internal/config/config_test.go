package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	path := writeConfig(t, "server:\n  port: \":9090\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != ":9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.PurchaseAPI.RequestTimeoutMillis != 10000 {
		t.Errorf("purchase timeout = %d, want 10000", cfg.PurchaseAPI.RequestTimeoutMillis)
	}
	if cfg.PurchaseAPI.AdminPassword != "hunter2" {
		t.Errorf("admin password not read from env")
	}
	if cfg.ReportAPI.RequestTimeoutMillis != 30000 {
		t.Errorf("report timeout = %d, want 30000", cfg.ReportAPI.RequestTimeoutMillis)
	}
	if cfg.ReportAPI.RetryAttempts != 1 || cfg.ReportAPI.RetryDelayMillis != 2000 {
		t.Errorf("report retry = %d/%d, want 1/2000", cfg.ReportAPI.RetryAttempts, cfg.ReportAPI.RetryDelayMillis)
	}
	if cfg.WalletService.SnapshotTTLSeconds != 30 {
		t.Errorf("snapshot ttl = %d, want 30", cfg.WalletService.SnapshotTTLSeconds)
	}
	if cfg.WalletService.MockFallbackEnabled == nil || !*cfg.WalletService.MockFallbackEnabled {
		t.Error("mock fallback should default on")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadConfig_ExplicitValuesKept(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	path := writeConfig(t, `
purchaseApi:
  baseURL: "https://staging.example.com/api/admin"
  requestTimeoutMillis: 2500
walletService:
  mockFallbackEnabled: false
logging:
  level: "debug"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PurchaseAPI.BaseURL != "https://staging.example.com/api/admin" {
		t.Errorf("baseURL = %q", cfg.PurchaseAPI.BaseURL)
	}
	if cfg.PurchaseAPI.RequestTimeoutMillis != 2500 {
		t.Errorf("timeout = %d, want 2500", cfg.PurchaseAPI.RequestTimeoutMillis)
	}
	if cfg.WalletService.MockFallbackEnabled == nil || *cfg.WalletService.MockFallbackEnabled {
		t.Error("explicit mockFallbackEnabled=false overwritten by defaulting")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfig_SecretsNeverFromYAML(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "from-env")
	path := writeConfig(t, `
purchaseApi:
  adminPassword: "from-yaml"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PurchaseAPI.AdminPassword != "from-env" {
		t.Errorf("admin password = %q, must come from the environment", cfg.PurchaseAPI.AdminPassword)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing config file")
	}
}

func TestLoadConfig_ReportBaseURLFallsBackToLeaderboard(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	path := writeConfig(t, `
leaderboardApi:
  baseURL: "https://api.example.com/api"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReportAPI.BaseURL != "https://api.example.com/api" {
		t.Errorf("report baseURL = %q, want the leaderboard base", cfg.ReportAPI.BaseURL)
	}
}
