package payroll

import (
	"time"

	"github.com/google/uuid"
)

// VarianceExplanation is an immutable annotation on a variance. It never
// alters the derived numbers; there is no update or delete.
type VarianceExplanation struct {
	ID          uuid.UUID         `json:"id"`
	EmployeeID  string            `json:"employee_id"`
	PayrunID    string            `json:"payrun_id"`
	Reason      ExplanationReason `json:"reason"`
	Explanation string            `json:"explanation"`
	Author      string            `json:"author"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ExplanationCommand carries the data needed to record an explanation.
type ExplanationCommand struct {
	EmployeeID  string            `json:"employee_id"`
	PayrunID    string            `json:"payrun_id"`
	Reason      ExplanationReason `json:"reason"`
	Explanation string            `json:"explanation"`
	Author      string            `json:"author"`
}

// Validate checks required fields and the reason enum.
func (c *ExplanationCommand) Validate() error {
	if c.EmployeeID == "" || c.PayrunID == "" {
		return ErrPairingRequired
	}
	if c.Explanation == "" {
		return ErrExplanationRequired
	}
	if _, err := ParseExplanationReason(string(c.Reason)); err != nil {
		return err
	}
	return nil
}
