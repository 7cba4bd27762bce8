package findings

import (
	"encoding/json"
	"slices"
)

// Status represents a finding's lifecycle state.
type Status string

// Valid finding statuses. Resolved and Won't Fix are terminal but may be
// reopened; they never transition directly into each other.
const (
	StatusOpen     Status = "Open"
	StatusResolved Status = "Resolved"
	StatusWontFix  Status = "Won't Fix"
)

var statuses = []Status{
	StatusOpen,
	StatusResolved,
	StatusWontFix,
}

// Statuses returns the list of valid finding statuses.
func Statuses() []Status {
	return statuses
}

// CanTransition reports whether a finding may move from s to target.
// Open reaches either terminal state; terminal states may only reopen.
func (s Status) CanTransition(target Status) bool {
	if s == target {
		return false
	}

	switch s {
	case StatusOpen:
		return target == StatusResolved || target == StatusWontFix
	case StatusResolved, StatusWontFix:
		return target == StatusOpen
	}

	return false
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

// ParseStatus validates a string as a known finding status.
// Returns ErrInvalidStatus if the value is not recognized.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}
