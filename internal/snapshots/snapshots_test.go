package snapshots_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/findings"
	"github.com/attest-hq/attest/internal/payroll"
	"github.com/attest-hq/attest/internal/reviews"
	"github.com/attest-hq/attest/internal/snapshots"
)

type mockSystem struct {
	exportFn func(ctx context.Context) (*snapshots.Snapshot, error)
	importFn func(ctx context.Context, snap snapshots.Snapshot) (*snapshots.ImportResult, error)
}

func (m *mockSystem) Handler() *snapshots.Handler { return nil }

func (m *mockSystem) Export(ctx context.Context) (*snapshots.Snapshot, error) {
	return m.exportFn(ctx)
}

func (m *mockSystem) Import(ctx context.Context, snap snapshots.Snapshot) (*snapshots.ImportResult, error) {
	return m.importFn(ctx, snap)
}

func ptr[T any](v T) *T { return &v }

func setupMux(t *testing.T, sys snapshots.System) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	group := snapshots.NewHandler(sys, logger).Routes()

	mux := http.NewServeMux()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func sampleSnapshot() snapshots.Snapshot {
	now := time.Date(2026, 7, 14, 9, 30, 0, 0, time.UTC)

	return snapshots.Snapshot{
		Findings: []findings.Finding{{
			ID:         uuid.New(),
			EmployeeID: ptr("E-1042"),
			PayrunID:   ptr("PR-2026-14"),
			Code:       "OVERTIME_SPIKE",
			Title:      "Overtime above approved band",
			Severity:   findings.SeverityWarn,
			Status:     findings.StatusOpen,
			Evidence:   []findings.EvidenceRef{},
			Notes:      []findings.Note{},
			CreatedAt:  now,
			UpdatedAt:  now,
			RowVersion: 1,
		}},
		ReviewItems: []reviews.ReviewItem{{
			ID:         uuid.New(),
			Type:       reviews.TypeAnomaly,
			Title:      "Variance exceeds tolerance",
			Confidence: 0.72,
			Snippets:   []string{"paid 42.0h against 38.0h approved"},
			Status:     reviews.StatusMyQueue,
			AssignedTo: ptr("auditor"),
			AssignedAt: now,
			DueDate:    ptr(now.Add(48 * time.Hour)),
			SLAStatus:  reviews.SLAOnTime,
			CreatedAt:  now,
			UpdatedAt:  now,
			RowVersion: 1,
		}},
		VarianceExplanations: []payroll.VarianceExplanation{{
			ID:          uuid.New(),
			EmployeeID:  "E-1042",
			PayrunID:    "PR-2026-14",
			Reason:      payroll.ReasonApprovedOvertime,
			Explanation: "overtime pre-approved for EOFY close",
			Author:      "auditor",
			CreatedAt:   now,
		}},
		ExportedAt: now,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := sampleSnapshot()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded snapshots.Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip not lossless:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestHandlerExport(t *testing.T) {
	snap := sampleSnapshot()
	sys := &mockSystem{
		exportFn: func(ctx context.Context) (*snapshots.Snapshot, error) {
			return &snap, nil
		},
	}

	mux := setupMux(t, sys)
	req := httptest.NewRequest(http.MethodGet, "/snapshots/export", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got snapshots.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Findings) != 1 || len(got.ReviewItems) != 1 || len(got.VarianceExplanations) != 1 {
		t.Errorf("unexpected collection sizes: %+v", got)
	}
}

func TestHandlerImport(t *testing.T) {
	t.Run("valid snapshot imports", func(t *testing.T) {
		sys := &mockSystem{
			importFn: func(ctx context.Context, snap snapshots.Snapshot) (*snapshots.ImportResult, error) {
				return &snapshots.ImportResult{
					Findings:             len(snap.Findings),
					ReviewItems:          len(snap.ReviewItems),
					VarianceExplanations: len(snap.VarianceExplanations),
					ImportedAt:           time.Now(),
				}, nil
			},
		}

		body, err := json.Marshal(sampleSnapshot())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		mux := setupMux(t, sys)
		req := httptest.NewRequest(http.MethodPost, "/snapshots/import", strings.NewReader(string(body)))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var result snapshots.ImportResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if result.Findings != 1 || result.ReviewItems != 1 || result.VarianceExplanations != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}
	})

	t.Run("invalid enum rejected at decode", func(t *testing.T) {
		sys := &mockSystem{
			importFn: func(ctx context.Context, snap snapshots.Snapshot) (*snapshots.ImportResult, error) {
				t.Fatal("import should not be reached for invalid enum values")
				return nil, nil
			},
		}

		body := `{"findings":[{"code":"X","title":"x","severity":"fatal","status":"Open"}]}`

		mux := setupMux(t, sys)
		req := httptest.NewRequest(http.MethodPost, "/snapshots/import", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		sys := &mockSystem{
			importFn: func(ctx context.Context, snap snapshots.Snapshot) (*snapshots.ImportResult, error) {
				t.Fatal("import should not be reached for malformed bodies")
				return nil, nil
			},
		}

		mux := setupMux(t, sys)
		req := httptest.NewRequest(http.MethodPost, "/snapshots/import", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
