package main

import (
	"encoding/json"
	"net/http"

	"github.com/jrycodes/typotrace/internal/api"
	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/internal/contact"
	"github.com/jrycodes/typotrace/internal/infrastructure"
	"github.com/jrycodes/typotrace/pkg/middleware"
	"github.com/jrycodes/typotrace/pkg/module"
	"github.com/jrycodes/typotrace/web/site"
)

type Modules struct {
	API    *module.Module
	Static *module.Module
	Site   http.Handler
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	staticModule := site.NewStaticModule(cfg.Site.StaticMaxAgeDuration())
	staticModule.Use(middleware.Logger(infra.Logger))

	pages, err := site.New(site.Options{
		DefaultLocale: cfg.Site.DefaultLocale,
		Locales:       cfg.Site.Locales,
		APIBasePath:   cfg.API.BasePath,
		PollInterval:  cfg.Client.PollIntervalDuration(),
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		Subjects:      contact.Subjects,
	}, infra.Logger)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		Static: staticModule,
		Site:   middleware.Logger(infra.Logger)(pages.Handler()),
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Static)
	router.SetFallback(m.Site)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status":  "not ready",
				"pending": infra.Lifecycle.Pending(),
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
