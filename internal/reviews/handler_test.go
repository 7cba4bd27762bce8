package reviews_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/attest-hq/attest/internal/reviews"
	"github.com/attest-hq/attest/pkg/pagination"
)

type mockSystem struct {
	listFn          func(ctx context.Context, page pagination.PageRequest, filters reviews.Filters) (*pagination.PageResult[reviews.ReviewItem], error)
	findFn          func(ctx context.Context, id uuid.UUID) (*reviews.ReviewItem, error)
	createFn        func(ctx context.Context, cmd reviews.CreateCommand) (*reviews.ReviewItem, error)
	validateFn      func(ctx context.Context, id uuid.UUID) (*reviews.ReviewItem, error)
	returnFn        func(ctx context.Context, id uuid.UUID, cmd reviews.ReturnCommand) (*reviews.ReviewItem, error)
	reassignFn      func(ctx context.Context, id uuid.UUID, cmd reviews.ReassignCommand) (*reviews.ReviewItem, error)
	batchValidateFn func(ctx context.Context, cmd reviews.BatchValidateCommand) ([]reviews.BatchResult, error)
	metricsFn       func(ctx context.Context) (*reviews.Metrics, error)
}

func (m *mockSystem) Handler() *reviews.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters reviews.Filters) (*pagination.PageResult[reviews.ReviewItem], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*reviews.ReviewItem, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd reviews.CreateCommand) (*reviews.ReviewItem, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Validate(ctx context.Context, id uuid.UUID) (*reviews.ReviewItem, error) {
	return m.validateFn(ctx, id)
}

func (m *mockSystem) Return(ctx context.Context, id uuid.UUID, cmd reviews.ReturnCommand) (*reviews.ReviewItem, error) {
	return m.returnFn(ctx, id, cmd)
}

func (m *mockSystem) Reassign(ctx context.Context, id uuid.UUID, cmd reviews.ReassignCommand) (*reviews.ReviewItem, error) {
	return m.reassignFn(ctx, id, cmd)
}

func (m *mockSystem) BatchValidate(ctx context.Context, cmd reviews.BatchValidateCommand) ([]reviews.BatchResult, error) {
	return m.batchValidateFn(ctx, cmd)
}

func (m *mockSystem) Metrics(ctx context.Context) (*reviews.Metrics, error) {
	return m.metricsFn(ctx)
}

func newTestHandler(sys reviews.System) *reviews.Handler {
	return reviews.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *reviews.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleItem() reviews.ReviewItem {
	return reviews.ReviewItem{
		ID:         uuid.MustParse("770e8400-e29b-41d4-a716-446655440002"),
		Type:       reviews.TypeAuditItem,
		Title:      "Variance over threshold",
		Confidence: 0.72,
		Snippets:   []string{},
		Status:     reviews.StatusMyQueue,
		AssignedAt: time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC),
		SLAStatus:  reviews.SLAOnTime,
		CreatedAt:  time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC),
		RowVersion: 1,
	}
}

func TestHandlerValidate(t *testing.T) {
	it := sampleItem()

	t.Run("completes queued item", func(t *testing.T) {
		sys := &mockSystem{
			validateFn: func(_ context.Context, _ uuid.UUID) (*reviews.ReviewItem, error) {
				done := it
				done.Status = reviews.StatusCompleted
				return &done, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reviews/"+it.ID.String()+"/validate", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var got reviews.ReviewItem
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != reviews.StatusCompleted {
			t.Errorf("status = %s, want completed", got.Status)
		}
	})

	t.Run("blocked queue maps to conflict", func(t *testing.T) {
		sys := &mockSystem{
			validateFn: func(_ context.Context, _ uuid.UUID) (*reviews.ReviewItem, error) {
				return nil, reviews.ErrInvalidTransition
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reviews/"+it.ID.String()+"/validate", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestHandlerReturn(t *testing.T) {
	it := sampleItem()
	sys := &mockSystem{
		returnFn: func(_ context.Context, _ uuid.UUID, cmd reviews.ReturnCommand) (*reviews.ReviewItem, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			back := it
			back.Status = reviews.StatusReturned
			back.ReturnReason = &cmd.Reason
			back.LoopCount = it.LoopCount + 1
			return &back, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("reason required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reviews/"+it.ID.String()+"/return", bytes.NewReader([]byte(`{}`)))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("returns with reason and bumps loop count", func(t *testing.T) {
		body, _ := json.Marshal(reviews.ReturnCommand{Reason: "snippet coverage too thin"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reviews/"+it.ID.String()+"/return", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var got reviews.ReviewItem
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Status != reviews.StatusReturned {
			t.Errorf("status = %s, want returned", got.Status)
		}
		if got.LoopCount != 1 {
			t.Errorf("loop count = %d, want 1", got.LoopCount)
		}
		if got.ReturnReason == nil || *got.ReturnReason != "snippet coverage too thin" {
			t.Errorf("return reason = %v", got.ReturnReason)
		}
	})
}

func TestHandlerBatchValidate(t *testing.T) {
	it := sampleItem()
	missing := uuid.MustParse("880e8400-e29b-41d4-a716-446655440003")

	sys := &mockSystem{
		batchValidateFn: func(_ context.Context, cmd reviews.BatchValidateCommand) ([]reviews.BatchResult, error) {
			done := it
			done.Status = reviews.StatusCompleted
			return []reviews.BatchResult{
				{ID: it.ID, Item: &done},
				{ID: missing, Error: reviews.ErrNotFound.Error()},
			}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	body, _ := json.Marshal(reviews.BatchValidateCommand{
		IDs:      []uuid.UUID{it.ID, missing},
		Approved: true,
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reviews/validate", bytes.NewReader(body))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var results []reviews.BatchResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Error != "" || results[0].Item == nil {
		t.Errorf("first result should succeed: %+v", results[0])
	}
	if results[1].Error == "" {
		t.Errorf("second result should carry an error: %+v", results[1])
	}
}

func TestHandlerMetrics(t *testing.T) {
	sys := &mockSystem{
		metricsFn: func(_ context.Context) (*reviews.Metrics, error) {
			return &reviews.Metrics{
				ItemsCompleted:    4,
				MedianTimeSeconds: 180,
				FirstPassRate:     0.75,
				HoursAvoided:      decimal.NewFromInt(2),
				DollarsSaved:      decimal.NewFromInt(170),
			}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reviews/metrics", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got reviews.Metrics
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ItemsCompleted != 4 {
		t.Errorf("ItemsCompleted = %d, want 4", got.ItemsCompleted)
	}
	if got.FirstPassRate != 0.75 {
		t.Errorf("FirstPassRate = %f, want 0.75", got.FirstPassRate)
	}
}
