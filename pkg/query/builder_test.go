package query_test

import (
	"reflect"
	"testing"

	"github.com/attest-hq/attest/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "findings", "f").
		Project("id", "ID").
		Project("code", "Code").
		Project("status", "Status").
		Project("updated_at", "UpdatedAt").
		ProjectExpression("SeverityRank",
			"CASE f.severity WHEN 'critical' THEN 0 WHEN 'warn' THEN 1 ELSE 2 END")
}

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	if got := p.From(); got != "public.findings f" {
		t.Errorf("From() = %q, want %q", got, "public.findings f")
	}
	if got := p.Alias(); got != "f" {
		t.Errorf("Alias() = %q, want %q", got, "f")
	}
	if got := p.Column("Status"); got != "f.status" {
		t.Errorf("Column(Status) = %q, want %q", got, "f.status")
	}
	if got := p.Column("Unmapped"); got != "Unmapped" {
		t.Errorf("Column(Unmapped) = %q, want passthrough", got)
	}
	if got := p.Columns(); got != "f.id, f.code, f.status, f.updated_at" {
		t.Errorf("Columns() = %q", got)
	}
}

func TestBuild(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).Build()

		want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("conditions numbered in order", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("Status", ptr("Open")).
			WhereEquals("Code", ptr("MISSING_TS")).
			Build()

		want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f" +
			" WHERE f.status = $1 AND f.code = $2"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if !reflect.DeepEqual(args, []any{ptr("Open"), ptr("MISSING_TS")}) {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("nil filters are no-ops", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("Status", (*string)(nil)).
			WhereContains("Code", nil).
			Build()

		want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("default sort applies", func(t *testing.T) {
		sql, _ := query.NewBuilder(
			testProjection(),
			query.SortField{Field: "UpdatedAt", Descending: true},
		).Build()

		want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f" +
			" ORDER BY f.updated_at DESC"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("explicit sort overrides default and maps expressions", func(t *testing.T) {
		sql, _ := query.NewBuilder(
			testProjection(),
			query.SortField{Field: "UpdatedAt", Descending: true},
		).
			OrderByFields([]query.SortField{{Field: "SeverityRank"}}).
			Build()

		want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f" +
			" ORDER BY CASE f.severity WHEN 'critical' THEN 0 WHEN 'warn' THEN 1 ELSE 2 END ASC"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Status", ptr("Open")).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.findings f WHERE f.status = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want 1", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection()).BuildPage(3, 20)

	want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f" +
		" LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", "abc")

	want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f" +
		" WHERE f.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"abc"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuildSingleOrNull(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection()).
		WhereNullable("Code", nil).
		BuildSingleOrNull()

	want := "SELECT f.id, f.code, f.status, f.updated_at FROM public.findings f" +
		" WHERE f.code IS NULL LIMIT 1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "Code", []query.SortField{{Field: "Code"}}},
		{
			"descending prefix",
			"-UpdatedAt",
			[]query.SortField{{Field: "UpdatedAt", Descending: true}},
		},
		{
			"mixed with whitespace",
			" Code , -UpdatedAt ",
			[]query.SortField{
				{Field: "Code"},
				{Field: "UpdatedAt", Descending: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
