package api

import (
	"time"

	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	PollInterval time.Duration
	SessionTTL   time.Duration
	MaxSessions  int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
			Client:    infra.Client,
		},
		PollInterval: cfg.Client.PollIntervalDuration(),
		SessionTTL:   cfg.API.SessionTTLDuration(),
		MaxSessions:  cfg.API.MaxSessions,
	}
}
