package evidence

import (
	"errors"
	"net/http"
)

// Domain errors for evidence artifact operations.
var (
	ErrNotFound       = errors.New("artifact not found")
	ErrDuplicate      = errors.New("artifact already exists")
	ErrInvalidFile    = errors.New("invalid or missing file")
	ErrFileTooLarge   = errors.New("file exceeds the upload size limit")
	ErrSourceRequired = errors.New("source must not be empty")
)

// MapHTTPStatus maps evidence domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrSourceRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
