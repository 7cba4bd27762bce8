package reviews

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "review_items", "ri").
	Project("id", "ID").
	Project("type", "Type").
	Project("title", "Title").
	Project("description", "Description").
	Project("confidence", "Confidence").
	Project("snippets", "Snippets").
	Project("evidence_pack_size", "EvidencePackSize").
	Project("status", "Status").
	Project("assigned_to", "AssignedTo").
	Project("assigned_at", "AssignedAt").
	Project("due_date", "DueDate").
	Project("completed_at", "CompletedAt").
	Project("loop_count", "LoopCount").
	Project("return_reason", "ReturnReason").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("row_version", "RowVersion")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for review item queries.
type Filters struct {
	Type       *ItemType `json:"type,omitempty"`
	Status     *Status   `json:"status,omitempty"`
	AssignedTo *string   `json:"assigned_to,omitempty"`
	LoopCount  *int      `json:"loop_count,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Type", f.Type).
		WhereEquals("Status", f.Status).
		WhereEquals("AssignedTo", f.AssignedTo).
		WhereEquals("LoopCount", f.LoopCount)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Invalid enum values are ignored rather than rejected.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if raw := values.Get("type"); raw != "" {
		if t, err := ParseItemType(raw); err == nil {
			f.Type = &t
		}
	}

	if raw := values.Get("status"); raw != "" {
		if s, err := ParseStatus(raw); err == nil {
			f.Status = &s
		}
	}

	if a := values.Get("assigned_to"); a != "" {
		f.AssignedTo = &a
	}

	if raw := values.Get("loop_count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.LoopCount = &n
		}
	}

	return f
}

func scanReviewItem(s repository.Scanner) (ReviewItem, error) {
	var it ReviewItem
	var snippetsRaw []byte

	err := s.Scan(
		&it.ID,
		&it.Type,
		&it.Title,
		&it.Description,
		&it.Confidence,
		&snippetsRaw,
		&it.EvidencePackSize,
		&it.Status,
		&it.AssignedTo,
		&it.AssignedAt,
		&it.DueDate,
		&it.CompletedAt,
		&it.LoopCount,
		&it.ReturnReason,
		&it.CreatedAt,
		&it.UpdatedAt,
		&it.RowVersion,
	)

	if err != nil {
		return it, err
	}

	if len(snippetsRaw) > 0 {
		if err := json.Unmarshal(snippetsRaw, &it.Snippets); err != nil {
			return it, fmt.Errorf("unmarshal snippets: %w", err)
		}
	}
	if it.Snippets == nil {
		it.Snippets = []string{}
	}

	return it, nil
}
