package payroll

import (
	"encoding/json"
	"slices"
)

// EmploymentStatus represents an employee's standing at audit time.
type EmploymentStatus string

// Valid employment statuses.
const (
	EmploymentActive     EmploymentStatus = "Active"
	EmploymentTerminated EmploymentStatus = "Terminated"
	EmploymentOnLeave    EmploymentStatus = "On Leave"
)

var employmentStatuses = []EmploymentStatus{
	EmploymentActive,
	EmploymentTerminated,
	EmploymentOnLeave,
}

// UnmarshalJSON validates that the decoded string is a known employment status.
func (s *EmploymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := EmploymentStatus(raw)
	if !slices.Contains(employmentStatuses, v) {
		return ErrInvalidEmploymentStatus
	}
	*s = v
	return nil
}

// ParseEmploymentStatus validates a string as a known employment status.
func ParseEmploymentStatus(s string) (EmploymentStatus, error) {
	v := EmploymentStatus(s)
	if !slices.Contains(employmentStatuses, v) {
		return "", ErrInvalidEmploymentStatus
	}
	return v, nil
}

// StpStatus is the Single Touch Payroll submission state of a payslip line.
type StpStatus string

// Valid STP statuses.
const (
	StpSuccess StpStatus = "Success"
	StpError   StpStatus = "Error"
	StpPending StpStatus = "Pending"
)

var stpStatuses = []StpStatus{
	StpSuccess,
	StpError,
	StpPending,
}

// UnmarshalJSON validates that the decoded string is a known STP status.
func (s *StpStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := StpStatus(raw)
	if !slices.Contains(stpStatuses, v) {
		return ErrInvalidStpStatus
	}
	*s = v
	return nil
}

// ParseStpStatus validates a string as a known STP status.
func ParseStpStatus(s string) (StpStatus, error) {
	v := StpStatus(s)
	if !slices.Contains(stpStatuses, v) {
		return "", ErrInvalidStpStatus
	}
	return v, nil
}

// ExplanationReason is the closed set of causes a variance explanation
// may cite.
type ExplanationReason string

// Valid explanation reasons.
const (
	ReasonTimingDifference    ExplanationReason = "timing_difference"
	ReasonApprovedOvertime    ExplanationReason = "approved_overtime"
	ReasonAwardInterpretation ExplanationReason = "award_interpretation"
	ReasonDataEntryError      ExplanationReason = "data_entry_error"
	ReasonOther               ExplanationReason = "other"
)

var explanationReasons = []ExplanationReason{
	ReasonTimingDifference,
	ReasonApprovedOvertime,
	ReasonAwardInterpretation,
	ReasonDataEntryError,
	ReasonOther,
}

// ExplanationReasons returns the list of valid explanation reasons.
func ExplanationReasons() []ExplanationReason {
	return explanationReasons
}

// UnmarshalJSON validates that the decoded string is a known reason.
func (r *ExplanationReason) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := ExplanationReason(raw)
	if !slices.Contains(explanationReasons, v) {
		return ErrInvalidReason
	}
	*r = v
	return nil
}

// ParseExplanationReason validates a string as a known explanation reason.
func ParseExplanationReason(s string) (ExplanationReason, error) {
	v := ExplanationReason(s)
	if !slices.Contains(explanationReasons, v) {
		return "", ErrInvalidReason
	}
	return v, nil
}
