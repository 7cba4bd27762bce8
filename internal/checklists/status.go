package checklists

import (
	"encoding/json"
	"slices"
)

// Status represents a checklist item's evidence readiness.
type Status string

// Valid checklist item statuses. Complete and N/A are set by explicit
// human action; the rest are derived from coverage.
const (
	StatusUnstarted     Status = "Unstarted"
	StatusAutoPopulated Status = "Auto-Populated"
	StatusNeedsReview   Status = "Needs Review"
	StatusReady         Status = "Ready"
	StatusComplete      Status = "Complete"
	StatusNotApplicable Status = "N/A"
)

var statuses = []Status{
	StatusUnstarted,
	StatusAutoPopulated,
	StatusNeedsReview,
	StatusReady,
	StatusComplete,
	StatusNotApplicable,
}

// Statuses returns the list of valid checklist item statuses.
func Statuses() []Status {
	return statuses
}

// UnmarshalJSON validates that the decoded string is a known status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Status(raw)
	if !slices.Contains(statuses, v) {
		return ErrInvalidStatus
	}
	*s = v
	return nil
}

// ParseStatus validates a string as a known checklist item status.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}
