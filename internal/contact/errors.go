package contact

import (
	"errors"
	"net/http"
)

// Domain errors for contact feedback.
var (
	ErrInvalidBody    = errors.New("invalid request body")
	ErrMissingName    = errors.New("name is required")
	ErrInvalidEmail   = errors.New("a valid email is required")
	ErrInvalidSubject = errors.New("unknown subject")
	ErrMissingMessage = errors.New("message is required")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// MapHTTPStatus maps contact domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrMissingName),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidSubject),
		errors.Is(err, ErrMissingMessage),
		errors.Is(err, ErrInvalidRating):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
