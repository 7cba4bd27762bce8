package reviews

import (
	"errors"
	"net/http"
)

// Domain errors for review item operations.
var (
	ErrNotFound          = errors.New("review item not found")
	ErrDuplicate         = errors.New("review item already exists")
	ErrTitleRequired     = errors.New("title must not be empty")
	ErrReasonRequired    = errors.New("return reason must not be empty")
	ErrInvalidType       = errors.New("type must be classification, audit_item, or anomaly")
	ErrInvalidStatus     = errors.New("status is not a recognized queue state")
	ErrInvalidConfidence = errors.New("confidence must be in [0,1]")
	ErrInvalidPackSize   = errors.New("evidence pack size must be non-negative")
	ErrInvalidTransition = errors.New("queue transition not permitted")
)

// MapHTTPStatus maps review domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidConfidence),
		errors.Is(err, ErrInvalidPackSize):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
