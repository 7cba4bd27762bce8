package payroll

import (
	"errors"
	"net/http"
)

// Domain errors for payroll reconciliation operations.
var (
	ErrNotFound                = errors.New("employee audit record not found")
	ErrDuplicate               = errors.New("record already exists")
	ErrPairingRequired         = errors.New("employee_id and payrun_id are required")
	ErrExplanationRequired     = errors.New("explanation text must not be empty")
	ErrInvalidEmploymentStatus = errors.New("status must be Active, Terminated, or On Leave")
	ErrInvalidStpStatus        = errors.New("stp_status must be Success, Error, or Pending")
	ErrInvalidReason           = errors.New("reason is not a recognized explanation reason")
)

// MapHTTPStatus maps payroll domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrPairingRequired),
		errors.Is(err, ErrExplanationRequired),
		errors.Is(err, ErrInvalidEmploymentStatus),
		errors.Is(err, ErrInvalidStpStatus),
		errors.Is(err, ErrInvalidReason):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
