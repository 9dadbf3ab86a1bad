// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/internal/infrastructure"
	"github.com/jrycodes/typotrace/pkg/middleware"
	"github.com/jrycodes/typotrace/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The session janitor is registered with the lifecycle coordinator.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	domain.Sessions.Start(runtime.Lifecycle, cfg.API.JanitorIntervalDuration())

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
