// Package findings implements the audit finding domain for Attest.
// It provides types, data access, and business logic for creating findings,
// moving them through their lifecycle, appending reviewer notes, and
// reporting per-item outcomes for batch status changes.
package findings

import (
	"time"

	"github.com/google/uuid"
)

// Finding represents a payroll compliance exception raised against an
// employee or payrun. Findings are never hard-deleted; terminal statuses
// may be reopened.
type Finding struct {
	ID           uuid.UUID     `json:"id"`
	EmployeeID   *string       `json:"employee_id"`
	EmployeeName *string       `json:"employee_name"`
	PayrunID     *string       `json:"payrun_id"`
	PeriodStart  *time.Time    `json:"period_start"`
	PeriodEnd    *time.Time    `json:"period_end"`
	Code         string        `json:"code"`
	Title        string        `json:"title"`
	Severity     Severity      `json:"severity"`
	Status       Status        `json:"status"`
	Assignee     *string       `json:"assignee"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Evidence     []EvidenceRef `json:"evidence"`
	Notes        []Note        `json:"notes"`
	RowVersion   int           `json:"row_version"`
}

// EvidenceRef links a finding to an artifact in the evidence pool.
type EvidenceRef struct {
	ArtifactID uuid.UUID `json:"artifact_id"`
	Label      string    `json:"label,omitempty"`
}

// Note is an append-only annotation on a finding.
type Note struct {
	At     time.Time `json:"at"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
}

// CreateCommand carries the data needed to create a new finding.
// Title and Code are required; Severity defaults to warn and Status to Open.
type CreateCommand struct {
	EmployeeID   *string       `json:"employee_id"`
	EmployeeName *string       `json:"employee_name"`
	PayrunID     *string       `json:"payrun_id"`
	PeriodStart  *time.Time    `json:"period_start"`
	PeriodEnd    *time.Time    `json:"period_end"`
	Code         string        `json:"code"`
	Title        string        `json:"title"`
	Severity     Severity      `json:"severity"`
	Assignee     *string       `json:"assignee"`
	Evidence     []EvidenceRef `json:"evidence"`
}

// Validate checks required fields and enum values before mutation.
func (c *CreateCommand) Validate() error {
	if c.Title == "" {
		return ErrTitleRequired
	}
	if c.Code == "" {
		return ErrCodeRequired
	}
	if c.Severity == "" {
		c.Severity = SeverityWarn
	}
	if _, err := ParseSeverity(string(c.Severity)); err != nil {
		return err
	}
	return nil
}

// UpdateCommand carries a partial update. Nil fields are left unchanged.
// ExpectedVersion, when set, enables compare-and-swap: the update is rejected
// with ErrConflict if the stored row_version differs.
type UpdateCommand struct {
	Title           *string   `json:"title"`
	Code            *string   `json:"code"`
	Severity        *Severity `json:"severity"`
	Status          *Status   `json:"status"`
	Assignee        *string   `json:"assignee"`
	EmployeeName    *string   `json:"employee_name"`
	ExpectedVersion *int      `json:"expected_version"`
}

// Validate checks that provided fields carry legal values.
func (c *UpdateCommand) Validate() error {
	if c.Title != nil && *c.Title == "" {
		return ErrTitleRequired
	}
	if c.Code != nil && *c.Code == "" {
		return ErrCodeRequired
	}
	if c.Severity != nil {
		if _, err := ParseSeverity(string(*c.Severity)); err != nil {
			return err
		}
	}
	if c.Status != nil {
		if _, err := ParseStatus(string(*c.Status)); err != nil {
			return err
		}
	}
	return nil
}

// NoteCommand carries the data needed to append a note to a finding.
type NoteCommand struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Validate rejects empty note text.
func (c *NoteCommand) Validate() error {
	if c.Text == "" {
		return ErrNoteTextRequired
	}
	return nil
}

// BatchStatusCommand applies a status change to multiple findings.
type BatchStatusCommand struct {
	IDs    []uuid.UUID `json:"ids"`
	Status Status      `json:"status"`
}

// BatchResult reports the outcome of a single finding within a batch
// status change. On success, Finding is populated and Error is empty.
type BatchResult struct {
	ID      uuid.UUID `json:"id"`
	Finding *Finding  `json:"finding,omitempty"`
	Error   string    `json:"error,omitempty"`
}
