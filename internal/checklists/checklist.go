// Package checklists implements audit checklist evidence coverage for
// Attest. Checklist items declare the evidence they expect; the matcher
// assigns artifacts from the shared pool to descriptors, and coverage
// drives the item status.
package checklists

import (
	"time"

	"github.com/google/uuid"
)

// AuditChecklistItem is an obligation-backed checklist entry with its
// expected evidence descriptors and matched artifacts.
type AuditChecklistItem struct {
	ID               uuid.UUID         `json:"id"`
	Framework        Framework         `json:"framework"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	ObligationIDs    []string          `json:"obligation_ids"`
	ExpectedEvidence []string          `json:"expected_evidence"`
	AutoArtifacts    []MatchedArtifact `json:"auto_artifacts"`
	Status           Status            `json:"status"`
	CoverageScore    int               `json:"coverage_score"`
	Rasci            Rasci             `json:"rasci"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// MatchedArtifact links a checklist item descriptor to a pool artifact.
type MatchedArtifact struct {
	ArtifactID uuid.UUID `json:"artifact_id"`
	Descriptor string    `json:"descriptor"`
	Confidence float64   `json:"confidence"`
}

// Rasci is the responsibility assignment for a checklist item.
type Rasci struct {
	Responsible string `json:"responsible"`
	Accountable string `json:"accountable"`
	Support     string `json:"support"`
	Consulted   string `json:"consulted"`
	Informed    string `json:"informed"`
}

// CreateCommand carries the data needed to create a checklist item.
type CreateCommand struct {
	Framework        Framework `json:"framework"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ObligationIDs    []string  `json:"obligation_ids"`
	ExpectedEvidence []string  `json:"expected_evidence"`
	Rasci            Rasci     `json:"rasci"`
}

// Validate checks required fields and the framework enum.
func (c *CreateCommand) Validate() error {
	if c.Title == "" {
		return ErrTitleRequired
	}
	if _, err := ParseFramework(string(c.Framework)); err != nil {
		return err
	}
	return nil
}

// CoverageScore computes the coverage percentage from matched and expected
// descriptor counts, rounded to the nearest integer.
func CoverageScore(matched, expected int) int {
	if expected < 1 {
		expected = 1
	}
	return int(float64(100*matched)/float64(expected) + 0.5)
}

// DeriveStatus resolves an item's status from its coverage score. Complete
// and N/A are human decisions and are never overwritten by derivation.
func DeriveStatus(current Status, coverage int) Status {
	if current == StatusComplete || current == StatusNotApplicable {
		return current
	}

	switch {
	case coverage >= 100:
		return StatusReady
	case coverage > 0:
		return StatusNeedsReview
	}
	return StatusUnstarted
}
