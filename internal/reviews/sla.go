package reviews

import "time"

// SLAStatus describes how a review item stands against its due date.
type SLAStatus string

// SLA statuses, derived on read.
const (
	SLAOnTime  SLAStatus = "on_time"
	SLAAtRisk  SLAStatus = "at_risk"
	SLAOverdue SLAStatus = "overdue"
)

// ComputeSLA derives the SLA status for an item due at due, evaluated at
// now. Items without a due date, and completed items, are always on_time.
// An open item is at_risk once now is within atRiskWindow of the due date,
// and overdue once the due date has passed.
func ComputeSLA(due *time.Time, completedAt *time.Time, now time.Time, atRiskWindow time.Duration) SLAStatus {
	if due == nil || completedAt != nil {
		return SLAOnTime
	}

	if now.After(*due) {
		return SLAOverdue
	}

	if now.Add(atRiskWindow).After(*due) {
		return SLAAtRisk
	}

	return SLAOnTime
}
