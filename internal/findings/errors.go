package findings

import (
	"errors"
	"net/http"
)

// Domain errors for finding operations.
var (
	ErrNotFound          = errors.New("finding not found")
	ErrDuplicate         = errors.New("finding already exists")
	ErrTitleRequired     = errors.New("title must not be empty")
	ErrCodeRequired      = errors.New("code must not be empty")
	ErrNoteTextRequired  = errors.New("note text must not be empty")
	ErrInvalidSeverity   = errors.New("severity must be info, warn, or critical")
	ErrInvalidStatus     = errors.New("status must be Open, Resolved, or Won't Fix")
	ErrInvalidTransition = errors.New("status transition not permitted")
	ErrVersionConflict   = errors.New("finding was modified concurrently")
)

// MapHTTPStatus maps finding domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrCodeRequired),
		errors.Is(err, ErrNoteTextRequired),
		errors.Is(err, ErrInvalidSeverity),
		errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
