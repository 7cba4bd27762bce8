package reviews_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/attest-hq/attest/internal/reviews"
)

func completedItem(assigned time.Time, duration time.Duration, loops int) reviews.ReviewItem {
	done := assigned.Add(duration)
	return reviews.ReviewItem{
		Status:      reviews.StatusCompleted,
		AssignedAt:  assigned,
		CompletedAt: &done,
		LoopCount:   loops,
	}
}

func TestComputeMetrics(t *testing.T) {
	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(85)

	t.Run("no completed items", func(t *testing.T) {
		items := []reviews.ReviewItem{
			{Status: reviews.StatusMyQueue, AssignedAt: base},
		}
		m := reviews.ComputeMetrics(items, 30, rate)

		if m.ItemsCompleted != 0 {
			t.Errorf("ItemsCompleted = %d, want 0", m.ItemsCompleted)
		}
		if !m.HoursAvoided.IsZero() || !m.DollarsSaved.IsZero() {
			t.Errorf("ROI should be zero: hours=%s dollars=%s", m.HoursAvoided, m.DollarsSaved)
		}
	})

	t.Run("odd sample median", func(t *testing.T) {
		items := []reviews.ReviewItem{
			completedItem(base, 100*time.Second, 0),
			completedItem(base, 300*time.Second, 0),
			completedItem(base, 200*time.Second, 1),
		}
		m := reviews.ComputeMetrics(items, 30, rate)

		if m.ItemsCompleted != 3 {
			t.Fatalf("ItemsCompleted = %d, want 3", m.ItemsCompleted)
		}
		if m.MedianTimeSeconds != 200 {
			t.Errorf("MedianTimeSeconds = %f, want 200", m.MedianTimeSeconds)
		}
	})

	t.Run("even sample median averages middles", func(t *testing.T) {
		items := []reviews.ReviewItem{
			completedItem(base, 100*time.Second, 0),
			completedItem(base, 200*time.Second, 0),
			completedItem(base, 400*time.Second, 0),
			completedItem(base, 800*time.Second, 0),
		}
		m := reviews.ComputeMetrics(items, 30, rate)

		if m.MedianTimeSeconds != 300 {
			t.Errorf("MedianTimeSeconds = %f, want 300", m.MedianTimeSeconds)
		}
	})

	t.Run("first pass rate counts zero-loop completions", func(t *testing.T) {
		items := []reviews.ReviewItem{
			completedItem(base, time.Minute, 0),
			completedItem(base, time.Minute, 2),
			completedItem(base, time.Minute, 0),
			completedItem(base, time.Minute, 1),
		}
		m := reviews.ComputeMetrics(items, 30, rate)

		if m.FirstPassRate != 0.5 {
			t.Errorf("FirstPassRate = %f, want 0.5", m.FirstPassRate)
		}
	})

	t.Run("roi scales completed count by baseline", func(t *testing.T) {
		items := []reviews.ReviewItem{
			completedItem(base, time.Minute, 0),
			completedItem(base, time.Minute, 0),
		}
		m := reviews.ComputeMetrics(items, 30, rate)

		wantHours := decimal.NewFromInt(1)
		if !m.HoursAvoided.Equal(wantHours) {
			t.Errorf("HoursAvoided = %s, want %s", m.HoursAvoided, wantHours)
		}
		wantDollars := decimal.NewFromInt(85)
		if !m.DollarsSaved.Equal(wantDollars) {
			t.Errorf("DollarsSaved = %s, want %s", m.DollarsSaved, wantDollars)
		}
	})

	t.Run("incomplete items excluded", func(t *testing.T) {
		items := []reviews.ReviewItem{
			completedItem(base, time.Minute, 0),
			{Status: reviews.StatusReturned, AssignedAt: base},
			{Status: reviews.StatusCompleted, AssignedAt: base},
		}
		m := reviews.ComputeMetrics(items, 30, rate)

		if m.ItemsCompleted != 1 {
			t.Errorf("ItemsCompleted = %d, want 1", m.ItemsCompleted)
		}
	})
}
