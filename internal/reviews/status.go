package reviews

import (
	"encoding/json"
	"slices"
)

// Status represents a review item's queue state.
type Status string

// Valid review item statuses. Completed is terminal.
const (
	StatusMyQueue          Status = "my_queue"
	StatusAutoReady        Status = "auto_ready"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusReturned         Status = "returned"
	StatusCompleted        Status = "completed"
)

var statuses = []Status{
	StatusMyQueue,
	StatusAutoReady,
	StatusAwaitingApproval,
	StatusReturned,
	StatusCompleted,
}

// Statuses returns the list of valid review item statuses.
func Statuses() []Status {
	return statuses
}

// CanValidate reports whether an item in this state may be completed.
func (s Status) CanValidate() bool {
	return s == StatusMyQueue || s == StatusAutoReady
}

// CanReturn reports whether an item in this state may be sent back
// for rework.
func (s Status) CanReturn() bool {
	return s == StatusMyQueue || s == StatusAutoReady || s == StatusAwaitingApproval
}

// CanReassign reports whether an item in this state may be placed back
// into a reviewer's queue.
func (s Status) CanReassign() bool {
	return s == StatusReturned
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

// ParseStatus validates a string as a known review item status.
// Returns ErrInvalidStatus if the value is not recognized.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}
