package findings

import (
	"encoding/json"
	"slices"
)

// Severity represents the impact level of a finding.
type Severity string

// Valid severities, ordered from least to most severe.
const (
	SeverityInfo     Severity = "info"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

var severities = []Severity{
	SeverityInfo,
	SeverityWarn,
	SeverityCritical,
}

// Severities returns the list of valid severities.
func Severities() []Severity {
	return severities
}

// Rank returns the display ordering rank: critical sorts above warn,
// warn above info. Lower rank means higher severity.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarn:
		return 1
	default:
		return 2
	}
}

// UnmarshalJSON validates that the decoded string is a known severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Severity(raw)
	if !slices.Contains(severities, v) {
		return ErrInvalidSeverity
	}
	*s = v
	return nil
}

// ParseSeverity validates a string as a known severity.
// Returns ErrInvalidSeverity if the value is not recognized.
func ParseSeverity(s string) (Severity, error) {
	v := Severity(s)
	if !slices.Contains(severities, v) {
		return "", ErrInvalidSeverity
	}
	return v, nil
}
