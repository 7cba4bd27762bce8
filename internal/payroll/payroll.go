// Package payroll implements variance reconciliation for Attest. It matches
// timesheet hours against payslip lines for an employee and payrun, derives
// signed hour and dollar variances, tags exceptions by deterministic rule,
// and records immutable variance explanations.
package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeAuditRecord is the reconciliation unit: an employee together
// with the timesheets and payslips loaded for audit.
type EmployeeAuditRecord struct {
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    string           `json:"employee_name"`
	Department      string           `json:"department"`
	CostCentre      string           `json:"cost_centre"`
	Award           string           `json:"award"`
	EmploymentType  string           `json:"employment_type"`
	Status          EmploymentStatus `json:"status"`
	TerminationDate *time.Time       `json:"termination_date"`
	BaseRate        decimal.Decimal  `json:"base_rate"`
	Timesheets      []TimesheetEntry `json:"timesheets"`
	Payslips        []PayslipEntry   `json:"payslips"`
}

// TimesheetEntry is a single day of recorded time for an employee.
type TimesheetEntry struct {
	ID         uuid.UUID       `json:"id"`
	EmployeeID string          `json:"employee_id"`
	PayrunID   string          `json:"payrun_id"`
	Date       time.Time       `json:"date"`
	Hours      decimal.Decimal `json:"hours"`
	IsManual   bool            `json:"is_manual"`
	IsOvertime bool            `json:"is_overtime"`
}

// PayslipEntry is a single payslip line for an employee and payrun.
type PayslipEntry struct {
	ID          uuid.UUID       `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PayrunID    string          `json:"payrun_id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	LineCode    string          `json:"line_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	StpStatus   StpStatus       `json:"stp_status"`
}
