package checklists

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "checklist_items", "ci").
	Project("id", "ID").
	Project("framework", "Framework").
	Project("title", "Title").
	Project("description", "Description").
	Project("obligation_ids", "ObligationIDs").
	Project("expected_evidence", "ExpectedEvidence").
	Project("status", "Status").
	Project("coverage_score", "CoverageScore").
	Project("rasci", "Rasci").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Title",
}

// Filters contains optional filtering criteria for checklist queries.
type Filters struct {
	Framework *Framework `json:"framework,omitempty"`
	Status    *Status    `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Framework", f.Framework).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Invalid enum values are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if raw := values.Get("framework"); raw != "" {
		if fw, err := ParseFramework(raw); err == nil {
			f.Framework = &fw
		}
	}

	if raw := values.Get("status"); raw != "" {
		if s, err := ParseStatus(raw); err == nil {
			f.Status = &s
		}
	}

	return f
}

func scanItem(s repository.Scanner) (AuditChecklistItem, error) {
	var it AuditChecklistItem
	var obligationsRaw, expectedRaw, rasciRaw []byte

	err := s.Scan(
		&it.ID,
		&it.Framework,
		&it.Title,
		&it.Description,
		&obligationsRaw,
		&expectedRaw,
		&it.Status,
		&it.CoverageScore,
		&rasciRaw,
		&it.CreatedAt,
		&it.UpdatedAt,
	)

	if err != nil {
		return it, err
	}

	if len(obligationsRaw) > 0 {
		if err := json.Unmarshal(obligationsRaw, &it.ObligationIDs); err != nil {
			return it, fmt.Errorf("unmarshal obligation ids: %w", err)
		}
	}
	if it.ObligationIDs == nil {
		it.ObligationIDs = []string{}
	}

	if len(expectedRaw) > 0 {
		if err := json.Unmarshal(expectedRaw, &it.ExpectedEvidence); err != nil {
			return it, fmt.Errorf("unmarshal expected evidence: %w", err)
		}
	}
	if it.ExpectedEvidence == nil {
		it.ExpectedEvidence = []string{}
	}

	if len(rasciRaw) > 0 {
		if err := json.Unmarshal(rasciRaw, &it.Rasci); err != nil {
			return it, fmt.Errorf("unmarshal rasci: %w", err)
		}
	}

	it.AutoArtifacts = []MatchedArtifact{}
	return it, nil
}

func scanMatch(s repository.Scanner) (MatchedArtifact, error) {
	var m MatchedArtifact

	err := s.Scan(
		&m.ArtifactID,
		&m.Descriptor,
		&m.Confidence,
	)

	return m, err
}
