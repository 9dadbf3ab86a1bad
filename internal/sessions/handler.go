package sessions

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jrycodes/typotrace/pkg/handlers"
	"github.com/jrycodes/typotrace/pkg/routes"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// Handler provides HTTP endpoints for browser submission sessions.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "sessions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/submissions",
		Routes: []routes.Route{
			routes.Post("", h.Create),
			routes.Get("/{id}", h.Find),
			routes.Delete("/{id}", h.Delete),
			routes.Get("/{id}/download", h.Download),
		},
	}
}

// Create accepts a multipart upload with a "file" field and starts analysis.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, ErrFileTooLarge)
			return
		}
		h.fail(w, ErrMissingFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, ErrMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, ErrMissingFile)
		return
	}

	doc := typocheck.NewDocument(header.Filename, header.Header.Get("Content-Type"), data)

	resp, err := h.sys.Create(r.Context(), doc)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Find returns the current view of a session.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	resp, err := h.sys.Find(id)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete resets and removes a session.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(id); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download streams the corrected document of a completed session as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	dl, err := h.sys.Download(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = typocheck.ContentTypePDF
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	http.ServeContent(w, r, dl.Filename, time.Time{}, bytes.NewReader(dl.Data))
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	if status == http.StatusInternalServerError {
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	handlers.RespondMessage(w, h.logger, status, err, typocheck.Message(err))
}
