package notifications

import (
	"net/url"
	"strconv"

	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "notifications", "n").
	Project("id", "ID").
	Project("title", "Title").
	Project("message", "Message").
	Project("severity", "Severity").
	Project("entity_kind", "EntityKind").
	Project("entity_id", "EntityID").
	Project("read", "Read").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for notification queries.
type Filters struct {
	Severity   *string `json:"severity,omitempty"`
	EntityKind *string `json:"entity_kind,omitempty"`
	Read       *bool   `json:"read,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Severity", f.Severity).
		WhereEquals("EntityKind", f.EntityKind).
		WhereEquals("Read", f.Read)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("severity"); s != "" {
		f.Severity = &s
	}

	if k := values.Get("entity_kind"); k != "" {
		f.EntityKind = &k
	}

	if r := values.Get("read"); r != "" {
		if b, err := strconv.ParseBool(r); err == nil {
			f.Read = &b
		}
	}

	return f
}

func scanNotification(s repository.Scanner) (Notification, error) {
	var n Notification

	err := s.Scan(
		&n.ID,
		&n.Title,
		&n.Message,
		&n.Severity,
		&n.EntityKind,
		&n.EntityID,
		&n.Read,
		&n.CreatedAt,
	)

	return n, err
}
