package evidence

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "evidence_artifacts", "ea").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("source", "Source").
	Project("tags", "Tags").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for artifact queries.
type Filters struct {
	Source      *string `json:"source,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Source", f.Source).
		WhereEquals("ContentType", f.ContentType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if c := values.Get("content_type"); c != "" {
		f.ContentType = &c
	}

	return f
}

func scanArtifact(s repository.Scanner) (EvidenceArtifact, error) {
	var a EvidenceArtifact
	var tagsRaw []byte

	err := s.Scan(
		&a.ID,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.PageCount,
		&a.StorageKey,
		&a.Source,
		&tagsRaw,
		&a.UploadedAt,
	)

	if err != nil {
		return a, err
	}

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &a.Tags); err != nil {
			return a, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	return a, nil
}
