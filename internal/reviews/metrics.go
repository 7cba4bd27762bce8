package reviews

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Metrics summarizes the return on investment of completed review items
// against a manual-effort baseline.
type Metrics struct {
	ItemsCompleted    int             `json:"items_completed"`
	MedianTimeSeconds float64         `json:"median_time_seconds"`
	FirstPassRate     float64         `json:"first_pass_rate"`
	HoursAvoided      decimal.Decimal `json:"hours_avoided"`
	DollarsSaved      decimal.Decimal `json:"dollars_saved"`
}

var minutesPerHour = decimal.NewFromInt(60)

// ComputeMetrics aggregates completed items into ROI metrics. Items that
// are not completed are ignored. Hours avoided and dollars saved scale the
// completed count by the baseline minutes a manual review would take and
// the baseline hourly rate it would cost.
func ComputeMetrics(items []ReviewItem, baselineMinutesPerItem int, baselineHourlyRate decimal.Decimal) Metrics {
	var durations []float64
	var firstPass int

	for _, it := range items {
		if it.Status != StatusCompleted || it.CompletedAt == nil {
			continue
		}

		durations = append(durations, it.CompletedAt.Sub(it.AssignedAt).Seconds())
		if it.LoopCount == 0 {
			firstPass++
		}
	}

	completed := len(durations)
	m := Metrics{
		ItemsCompleted: completed,
		HoursAvoided:   decimal.Zero,
		DollarsSaved:   decimal.Zero,
	}

	if completed == 0 {
		return m
	}

	m.MedianTimeSeconds = median(durations)
	m.FirstPassRate = float64(firstPass) / float64(completed)

	m.HoursAvoided = decimal.NewFromInt(int64(completed)).
		Mul(decimal.NewFromInt(int64(baselineMinutesPerItem))).
		Div(minutesPerHour)
	m.DollarsSaved = m.HoursAvoided.Mul(baselineHourlyRate)

	return m
}

// median returns the middle value of the samples, averaging the two
// central values for even-length input. Mutates the slice order.
func median(samples []float64) float64 {
	slices.Sort(samples)

	mid := len(samples) / 2
	if len(samples)%2 == 1 {
		return samples[mid]
	}
	return (samples[mid-1] + samples[mid]) / 2
}
