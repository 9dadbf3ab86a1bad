package sessions

import (
	"errors"
	"net/http"

	"github.com/jrycodes/typotrace/internal/analysis"
	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// Domain errors for session operations.
var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidID    = errors.New("invalid session id")
	ErrMissingFile  = errors.New("file is required")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrCapacity     = errors.New("too many active sessions")

	ErrResultTooLarge = errors.New("corrected document exceeds maximum result size")
)

// MapHTTPStatus maps session, workflow, and transport errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var (
		invalid   *typocheck.ValidationError
		transport *typocheck.TransportError
		remote    *typocheck.RemoteJobError
	)

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrMissingFile), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, analysis.ErrNotCompleted), errors.Is(err, analysis.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrCapacity):
		return http.StatusServiceUnavailable
	case errors.As(err, &remote):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transport), errors.Is(err, ErrResultTooLarge):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
