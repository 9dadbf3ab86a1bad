package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jrycodes/typotrace/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "5m"

[api]
base_path = "/api"
max_upload_size = "10MB"
session_ttl = "15m"

[api.cors]
enabled = true
origins = ["http://localhost:3000"]

[client]
base_url = "https://typo.example.test"
timeout = "90s"
poll_interval = "3s"

[storage]
provider = "local"
root = "results"

[site]
default_locale = "id"
locales = ["en", "id"]
`

const overlayConfig = `
[server]
port = 9090

[client]
poll_interval = "1s"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max upload size: got %d, want 10MB", got)
	}
	if got := cfg.API.SessionTTLDuration(); got != 15*time.Minute {
		t.Errorf("session ttl: got %v, want 15m", got)
	}
	if !cfg.API.CORS.Enabled || !slices.Equal(cfg.API.CORS.Origins, []string{"http://localhost:3000"}) {
		t.Errorf("cors: got %+v", cfg.API.CORS)
	}
	if cfg.Client.BaseURL != "https://typo.example.test" {
		t.Errorf("client base_url: got %s", cfg.Client.BaseURL)
	}
	if got := cfg.Client.PollIntervalDuration(); got != 3*time.Second {
		t.Errorf("poll interval: got %v, want 3s", got)
	}
	if cfg.Storage.Root != "results" {
		t.Errorf("storage root: got %s, want results", cfg.Storage.Root)
	}
	if cfg.Site.DefaultLocale != "id" {
		t.Errorf("default locale: got %s, want id", cfg.Site.DefaultLocale)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Chdir(dir)

	t.Setenv("TYPOTRACE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if got := cfg.Client.PollIntervalDuration(); got != time.Second {
		t.Errorf("poll interval: got %v, want 1s (from overlay)", got)
	}
	if cfg.Client.Timeout != "90s" {
		t.Errorf("client timeout: got %s, want 90s (from base)", cfg.Client.Timeout)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	t.Setenv("TYPOTRACE_VERSION", "2.0.0")
	t.Setenv("TYPOTRACE_SERVER_PORT", "3000")
	t.Setenv("TYPOTRACE_CLIENT_BASE_URL", "http://localhost:8000")
	t.Setenv("TYPOTRACE_SITE_LOCALES", "id, en")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Client.BaseURL != "http://localhost:8000" {
		t.Errorf("client base_url: got %s", cfg.Client.BaseURL)
	}
	if !slices.Equal(cfg.Site.Locales, []string{"id", "en"}) {
		t.Errorf("locales: got %v", cfg.Site.Locales)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".env", "TYPOTRACE_API_SESSION_TTL=45m\n")
	t.Chdir(dir)

	os.Unsetenv("TYPOTRACE_API_SESSION_TTL")
	t.Cleanup(func() { os.Unsetenv("TYPOTRACE_API_SESSION_TTL") })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := cfg.API.SessionTTLDuration(); got != 45*time.Minute {
		t.Errorf("session ttl: got %v, want 45m (from .env)", got)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path default: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.Client.BaseURL != "https://periksa-laporan.jrycodes.me" {
		t.Errorf("client base_url default: got %s", cfg.Client.BaseURL)
	}
	if cfg.Storage.Provider != "local" {
		t.Errorf("storage provider default: got %s", cfg.Storage.Provider)
	}
	if cfg.Site.DefaultLocale != "en" {
		t.Errorf("default locale: got %s, want en", cfg.Site.DefaultLocale)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"TYPOTRACE_SERVER_PORT": "70000"}, "invalid port"},
		{"bad upload size", map[string]string{"TYPOTRACE_API_MAX_UPLOAD_SIZE": "lots"}, "invalid max_upload_size"},
		{"bad session ttl", map[string]string{"TYPOTRACE_API_SESSION_TTL": "-1m"}, "invalid session_ttl"},
		{"bad client url", map[string]string{"TYPOTRACE_CLIENT_BASE_URL": "ftp://x"}, "client: invalid base_url"},
		{"unknown storage", map[string]string{"TYPOTRACE_STORAGE_PROVIDER": "ftp"}, "storage: unknown storage provider"},
		{"default locale missing", map[string]string{"TYPOTRACE_SITE_DEFAULT_LOCALE": "fr"}, "site: default_locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &config.Config{}
			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
