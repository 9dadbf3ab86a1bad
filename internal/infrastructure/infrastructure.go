// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, storage, the remote service client)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/pkg/lifecycle"
	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Client    *typocheck.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	lc := lifecycle.New()

	store, err := storage.New(lc.Context(), &cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	client, err := typocheck.New(&cfg.Client, logger)
	if err != nil {
		return nil, fmt.Errorf("client init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Client:    client,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Storage readiness gates the readiness probe.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	i.Lifecycle.Check("storage", i.Storage)
	return nil
}
