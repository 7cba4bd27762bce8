package checklists

import (
	"errors"
	"net/http"
)

// Domain errors for checklist operations.
var (
	ErrNotFound         = errors.New("checklist item not found")
	ErrDuplicate        = errors.New("checklist item already exists")
	ErrTitleRequired    = errors.New("title must not be empty")
	ErrInvalidFramework = errors.New("framework must be APGF-MS, ISO9001, or ISO27001")
	ErrInvalidStatus    = errors.New("status is not a recognized checklist state")
)

// MapHTTPStatus maps checklist domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrInvalidFramework),
		errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
