package payroll

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

var employeeProjection = query.
	NewProjectionMap("public", "employees", "e").
	Project("employee_id", "EmployeeID").
	Project("employee_name", "EmployeeName").
	Project("department", "Department").
	Project("cost_centre", "CostCentre").
	Project("award", "Award").
	Project("employment_type", "EmploymentType").
	Project("status", "Status").
	Project("termination_date", "TerminationDate").
	Project("base_rate", "BaseRate")

var employeeSort = query.SortField{
	Field: "EmployeeName",
}

var explanationProjection = query.
	NewProjectionMap("public", "variance_explanations", "ve").
	Project("id", "ID").
	Project("employee_id", "EmployeeID").
	Project("payrun_id", "PayrunID").
	Project("reason", "Reason").
	Project("explanation", "Explanation").
	Project("author", "Author").
	Project("created_at", "CreatedAt")

var explanationSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for employee queries.
type Filters struct {
	Department     *string           `json:"department,omitempty"`
	CostCentre     *string           `json:"cost_centre,omitempty"`
	Award          *string           `json:"award,omitempty"`
	EmploymentType *string           `json:"employment_type,omitempty"`
	Status         *EmploymentStatus `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Department", f.Department).
		WhereEquals("CostCentre", f.CostCentre).
		WhereEquals("Award", f.Award).
		WhereEquals("EmploymentType", f.EmploymentType).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Invalid enum values are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	if c := values.Get("cost_centre"); c != "" {
		f.CostCentre = &c
	}

	if a := values.Get("award"); a != "" {
		f.Award = &a
	}

	if e := values.Get("employment_type"); e != "" {
		f.EmploymentType = &e
	}

	if raw := values.Get("status"); raw != "" {
		if s, err := ParseEmploymentStatus(raw); err == nil {
			f.Status = &s
		}
	}

	return f
}

// ExplanationFilters contains optional filtering criteria for variance
// explanation queries.
type ExplanationFilters struct {
	EmployeeID *string            `json:"employee_id,omitempty"`
	PayrunID   *string            `json:"payrun_id,omitempty"`
	Reason     *ExplanationReason `json:"reason,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f ExplanationFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("EmployeeID", f.EmployeeID).
		WhereEquals("PayrunID", f.PayrunID).
		WhereEquals("Reason", f.Reason)
}

// ExplanationFiltersFromQuery extracts filter values from URL query parameters.
func ExplanationFiltersFromQuery(values url.Values) ExplanationFilters {
	var f ExplanationFilters

	if e := values.Get("employee_id"); e != "" {
		f.EmployeeID = &e
	}

	if p := values.Get("payrun_id"); p != "" {
		f.PayrunID = &p
	}

	if raw := values.Get("reason"); raw != "" {
		if r, err := ParseExplanationReason(raw); err == nil {
			f.Reason = &r
		}
	}

	return f
}

func scanEmployee(s repository.Scanner) (EmployeeAuditRecord, error) {
	var rec EmployeeAuditRecord

	err := s.Scan(
		&rec.EmployeeID,
		&rec.EmployeeName,
		&rec.Department,
		&rec.CostCentre,
		&rec.Award,
		&rec.EmploymentType,
		&rec.Status,
		&rec.TerminationDate,
		&rec.BaseRate,
	)

	return rec, err
}

func scanTimesheet(s repository.Scanner) (TimesheetEntry, error) {
	var ts TimesheetEntry

	err := s.Scan(
		&ts.ID,
		&ts.EmployeeID,
		&ts.PayrunID,
		&ts.Date,
		&ts.Hours,
		&ts.IsManual,
		&ts.IsOvertime,
	)

	return ts, err
}

func scanPayslip(s repository.Scanner) (PayslipEntry, error) {
	var ps PayslipEntry

	err := s.Scan(
		&ps.ID,
		&ps.EmployeeID,
		&ps.PayrunID,
		&ps.PeriodStart,
		&ps.PeriodEnd,
		&ps.LineCode,
		&ps.Quantity,
		&ps.Amount,
		&ps.StpStatus,
	)

	return ps, err
}

func scanVariance(s repository.Scanner) (Variance, error) {
	var v Variance
	var exceptionsRaw []byte

	err := s.Scan(
		&v.EmployeeID,
		&v.PayrunID,
		&v.TaaHours,
		&v.PaidHours,
		&v.VarianceHours,
		&v.VarianceAmount,
		&exceptionsRaw,
		&v.Severity,
		&v.ReconciledAt,
	)

	if err != nil {
		return v, err
	}

	if len(exceptionsRaw) > 0 {
		if err := json.Unmarshal(exceptionsRaw, &v.Exceptions); err != nil {
			return v, fmt.Errorf("unmarshal exceptions: %w", err)
		}
	}
	if v.Exceptions == nil {
		v.Exceptions = []string{}
	}

	return v, nil
}

func scanExplanation(s repository.Scanner) (VarianceExplanation, error) {
	var ve VarianceExplanation

	err := s.Scan(
		&ve.ID,
		&ve.EmployeeID,
		&ve.PayrunID,
		&ve.Reason,
		&ve.Explanation,
		&ve.Author,
		&ve.CreatedAt,
	)

	return ve, err
}
