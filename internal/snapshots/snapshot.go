// Package snapshots implements session-boundary persistence for Attest.
// A snapshot is a single JSON document holding the finding, review item,
// and variance explanation collections with RFC 3339 timestamps; exporting
// and re-importing a snapshot is lossless.
package snapshots

import (
	"time"

	"github.com/attest-hq/attest/internal/findings"
	"github.com/attest-hq/attest/internal/payroll"
	"github.com/attest-hq/attest/internal/reviews"
)

// Snapshot is the exported collection document.
type Snapshot struct {
	Findings             []findings.Finding            `json:"findings"`
	ReviewItems          []reviews.ReviewItem          `json:"review_items"`
	VarianceExplanations []payroll.VarianceExplanation `json:"variance_explanations"`
	ExportedAt           time.Time                     `json:"exported_at"`
}

// ImportResult reports how many rows of each collection were written.
type ImportResult struct {
	Findings             int       `json:"findings"`
	ReviewItems          int       `json:"review_items"`
	VarianceExplanations int       `json:"variance_explanations"`
	ImportedAt           time.Time `json:"imported_at"`
}
