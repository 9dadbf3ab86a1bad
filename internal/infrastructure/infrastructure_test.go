package infrastructure_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/internal/infrastructure"
	"github.com/jrycodes/typotrace/pkg/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.Provider = storage.ProviderLocal
	cfg.Storage.Root = t.TempDir()
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize config: %v", err)
	}
	return cfg
}

func TestNewAndStart(t *testing.T) {
	cfg := testConfig(t)

	infra, err := infrastructure.NewWithLogger(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if infra.Client == nil || infra.Storage == nil {
		t.Fatal("expected client and storage to be initialized")
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	lc := infra.Lifecycle
	lc.WaitForStartup()

	if !lc.Ready() {
		t.Errorf("expected ready, pending: %v", lc.Pending())
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Provider = "ftp"

	if _, err := infrastructure.NewWithLogger(cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
