package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/checklists"
	"github.com/attest-hq/attest/internal/evidence"
)

// State keys used across the population graph.
const (
	KeyPopState = "population_state"
	KeyOutcomes = "outcomes"
)

// PopulationState accumulates the working data of an auto-population pass
// as it moves through the graph.
type PopulationState struct {
	Items   []checklists.AuditChecklistItem
	Pool    []evidence.EvidenceArtifact
	Matches [][]checklists.MatchedArtifact
}

// HasWork reports whether matching has anything to do.
func (s PopulationState) HasWork() bool {
	return len(s.Items) > 0 && len(s.Pool) > 0
}

// ItemOutcome summarizes the effect of the pass on a single checklist item.
type ItemOutcome struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Matched       int               `json:"matched"`
	CoverageScore int               `json:"coverage_score"`
	Status        checklists.Status `json:"status"`
}

// PassResult is the outcome of a completed auto-population pass.
type PassResult struct {
	ItemsProcessed   int           `json:"items_processed"`
	ArtifactsMatched int           `json:"artifacts_matched"`
	Items            []ItemOutcome `json:"items"`
	CompletedAt      time.Time     `json:"completed_at"`
}
