package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/jrycodes/typotrace/internal/sessions"
	"github.com/jrycodes/typotrace/pkg/handlers"
	"github.com/jrycodes/typotrace/pkg/routes"
	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

type resultsHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newResultsHandler(store storage.System, logger *slog.Logger) *resultsHandler {
	return &resultsHandler{
		store:  store,
		logger: logger.With("handler", "results"),
	}
}

func (h *resultsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/results",
		Routes: []routes.Route{
			routes.Get("/{job}/{name}", h.download),
		},
	}
}

func (h *resultsHandler) download(w http.ResponseWriter, r *http.Request) {
	job, name := r.PathValue("job"), r.PathValue("name")
	if strings.HasPrefix(job, ".") || strings.HasPrefix(name, ".") {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, storage.ErrInvalidKey)
		return
	}
	key := sessions.ResultKey(job, name)

	rc, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", typocheck.ContentTypePDF)
	w.Header().Set(
		"Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}
