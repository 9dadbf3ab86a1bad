package api

import (
	"net/http"

	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	groups := []routes.Group{
		domain.Sessions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Contact.Handler().Routes(),
		newResultsHandler(runtime.Storage, runtime.Logger).routes(),
	}

	routes.Register(mux, groups...)

	runtime.Logger.Info("api routes registered", "base_path", cfg.API.BasePath, "patterns", routes.Patterns(groups...))
}
