package contact

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jrycodes/typotrace/pkg/handlers"
	"github.com/jrycodes/typotrace/pkg/routes"
)

const maxBodySize = 64 << 10

// Handler provides the contact form endpoint.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler for sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "contact"),
	}
}

// Routes returns the route group definition for contact endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/contact",
		Routes: []routes.Route{
			routes.Post("", h.Submit),
		},
	}
}

// Submit accepts a JSON feedback body and responds 202 with the record id.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	fb, err := h.sys.Submit(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, map[string]string{"id": fb.ID.String()})
}
