package reviews_test

import (
	"errors"
	"testing"
	"time"

	"github.com/attest-hq/attest/internal/reviews"
)

func ptr[T any](v T) *T { return &v }

func TestComputeSLA(t *testing.T) {
	now := time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	tests := []struct {
		name      string
		due       *time.Time
		completed *time.Time
		want      reviews.SLAStatus
	}{
		{"no due date", nil, nil, reviews.SLAOnTime},
		{"due far out", ptr(now.Add(72 * time.Hour)), nil, reviews.SLAOnTime},
		{"inside at-risk window", ptr(now.Add(6 * time.Hour)), nil, reviews.SLAAtRisk},
		{"past due", ptr(now.Add(-time.Hour)), nil, reviews.SLAOverdue},
		{"completed past due stays on time", ptr(now.Add(-time.Hour)), ptr(now.Add(-2 * time.Hour)), reviews.SLAOnTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reviews.ComputeSLA(tt.due, tt.completed, now, window)
			if got != tt.want {
				t.Errorf("ComputeSLA() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status   reviews.Status
		validate bool
		ret      bool
		reassign bool
	}{
		{reviews.StatusMyQueue, true, true, false},
		{reviews.StatusAutoReady, true, true, false},
		{reviews.StatusAwaitingApproval, false, true, false},
		{reviews.StatusReturned, false, false, true},
		{reviews.StatusCompleted, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.CanValidate(); got != tt.validate {
				t.Errorf("CanValidate() = %v, want %v", got, tt.validate)
			}
			if got := tt.status.CanReturn(); got != tt.ret {
				t.Errorf("CanReturn() = %v, want %v", got, tt.ret)
			}
			if got := tt.status.CanReassign(); got != tt.reassign {
				t.Errorf("CanReassign() = %v, want %v", got, tt.reassign)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	threshold := 0.9

	tests := []struct {
		name string
		cmd  reviews.CreateCommand
		want reviews.Status
	}{
		{"high confidence routes auto ready", reviews.CreateCommand{Confidence: 0.95}, reviews.StatusAutoReady},
		{"threshold is inclusive", reviews.CreateCommand{Confidence: 0.9}, reviews.StatusAutoReady},
		{"low confidence routes my queue", reviews.CreateCommand{Confidence: 0.5}, reviews.StatusMyQueue},
		{"explicit status wins", reviews.CreateCommand{Confidence: 0.95, Status: reviews.StatusAwaitingApproval}, reviews.StatusAwaitingApproval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.InitialStatus(threshold); got != tt.want {
				t.Errorf("InitialStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	valid := reviews.CreateCommand{
		Type:       reviews.TypeAuditItem,
		Title:      "Variance over threshold",
		Confidence: 0.7,
	}

	t.Run("valid command", func(t *testing.T) {
		cmd := valid
		if err := cmd.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		cmd := valid
		cmd.Title = ""
		if err := cmd.Validate(); !errors.Is(err, reviews.ErrTitleRequired) {
			t.Errorf("Validate() = %v, want ErrTitleRequired", err)
		}
	})

	t.Run("bad type", func(t *testing.T) {
		cmd := valid
		cmd.Type = "ticket"
		if err := cmd.Validate(); !errors.Is(err, reviews.ErrInvalidType) {
			t.Errorf("Validate() = %v, want ErrInvalidType", err)
		}
	})

	t.Run("confidence out of range", func(t *testing.T) {
		cmd := valid
		cmd.Confidence = 1.2
		if err := cmd.Validate(); !errors.Is(err, reviews.ErrInvalidConfidence) {
			t.Errorf("Validate() = %v, want ErrInvalidConfidence", err)
		}
	})

	t.Run("cannot start completed", func(t *testing.T) {
		cmd := valid
		cmd.Status = reviews.StatusCompleted
		if err := cmd.Validate(); !errors.Is(err, reviews.ErrInvalidTransition) {
			t.Errorf("Validate() = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestReturnCommandValidate(t *testing.T) {
	cmd := reviews.ReturnCommand{}
	if err := cmd.Validate(); !errors.Is(err, reviews.ErrReasonRequired) {
		t.Errorf("Validate() = %v, want ErrReasonRequired", err)
	}

	cmd.Reason = "evidence pack incomplete"
	if err := cmd.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestBatchValidateCommandValidate(t *testing.T) {
	t.Run("rejection requires reason", func(t *testing.T) {
		cmd := reviews.BatchValidateCommand{Approved: false}
		if err := cmd.Validate(); !errors.Is(err, reviews.ErrReasonRequired) {
			t.Errorf("Validate() = %v, want ErrReasonRequired", err)
		}
	})

	t.Run("approval needs no reason", func(t *testing.T) {
		cmd := reviews.BatchValidateCommand{Approved: true}
		if err := cmd.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}
