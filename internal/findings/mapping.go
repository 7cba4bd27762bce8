package findings

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "findings", "f").
	Project("id", "ID").
	Project("employee_id", "EmployeeID").
	Project("employee_name", "EmployeeName").
	Project("payrun_id", "PayrunID").
	Project("period_start", "PeriodStart").
	Project("period_end", "PeriodEnd").
	Project("code", "Code").
	Project("title", "Title").
	Project("severity", "Severity").
	Project("status", "Status").
	Project("assignee", "Assignee").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("evidence", "Evidence").
	Project("notes", "Notes").
	Project("row_version", "RowVersion").
	ProjectExpression("SeverityRank",
		"CASE f.severity WHEN 'critical' THEN 0 WHEN 'warn' THEN 1 ELSE 2 END").
	ProjectExpression("EmployeeNameSort",
		"(NULLIF(f.employee_name, '') IS NULL), f.employee_name")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for finding queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status     *Status   `json:"status,omitempty"`
	Severity   *Severity `json:"severity,omitempty"`
	Code       *string   `json:"code,omitempty"`
	EmployeeID *string   `json:"employee_id,omitempty"`
	PayrunID   *string   `json:"payrun_id,omitempty"`
	Assignee   *string   `json:"assignee,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Severity", f.Severity).
		WhereEquals("Code", f.Code).
		WhereEquals("EmployeeID", f.EmployeeID).
		WhereEquals("PayrunID", f.PayrunID).
		WhereEquals("Assignee", f.Assignee)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Invalid enum values are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if raw := values.Get("status"); raw != "" {
		if s, err := ParseStatus(raw); err == nil {
			f.Status = &s
		}
	}

	if raw := values.Get("severity"); raw != "" {
		if s, err := ParseSeverity(raw); err == nil {
			f.Severity = &s
		}
	}

	if c := values.Get("code"); c != "" {
		f.Code = &c
	}

	if e := values.Get("employee_id"); e != "" {
		f.EmployeeID = &e
	}

	if p := values.Get("payrun_id"); p != "" {
		f.PayrunID = &p
	}

	if a := values.Get("assignee"); a != "" {
		f.Assignee = &a
	}

	return f
}

func scanFinding(s repository.Scanner) (Finding, error) {
	var f Finding
	var evidenceRaw, notesRaw []byte

	err := s.Scan(
		&f.ID,
		&f.EmployeeID,
		&f.EmployeeName,
		&f.PayrunID,
		&f.PeriodStart,
		&f.PeriodEnd,
		&f.Code,
		&f.Title,
		&f.Severity,
		&f.Status,
		&f.Assignee,
		&f.CreatedAt,
		&f.UpdatedAt,
		&evidenceRaw,
		&notesRaw,
		&f.RowVersion,
	)

	if err != nil {
		return f, err
	}

	if len(evidenceRaw) > 0 {
		if err := json.Unmarshal(evidenceRaw, &f.Evidence); err != nil {
			return f, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}
	if f.Evidence == nil {
		f.Evidence = []EvidenceRef{}
	}

	if len(notesRaw) > 0 {
		if err := json.Unmarshal(notesRaw, &f.Notes); err != nil {
			return f, fmt.Errorf("unmarshal notes: %w", err)
		}
	}
	if f.Notes == nil {
		f.Notes = []Note{}
	}

	return f, nil
}
