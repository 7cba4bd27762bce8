package checklists_test

import (
	"errors"
	"testing"

	"github.com/attest-hq/attest/internal/checklists"
)

func TestCoverageScore(t *testing.T) {
	tests := []struct {
		name     string
		matched  int
		expected int
		want     int
	}{
		{"full coverage", 3, 3, 100},
		{"no coverage", 0, 3, 0},
		{"one of three rounds up", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"zero expected treated as one", 0, 0, 0},
		{"matched with zero expected", 1, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checklists.CoverageScore(tt.matched, tt.expected); got != tt.want {
				t.Errorf("CoverageScore(%d, %d) = %d, want %d", tt.matched, tt.expected, got, tt.want)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  checklists.Status
		coverage int
		want     checklists.Status
	}{
		{"full coverage goes ready", checklists.StatusUnstarted, 100, checklists.StatusReady},
		{"partial coverage needs review", checklists.StatusUnstarted, 40, checklists.StatusNeedsReview},
		{"zero coverage stays unstarted", checklists.StatusUnstarted, 0, checklists.StatusUnstarted},
		{"auto-populated recomputes", checklists.StatusAutoPopulated, 100, checklists.StatusReady},
		{"complete never overwritten", checklists.StatusComplete, 0, checklists.StatusComplete},
		{"not applicable never overwritten", checklists.StatusNotApplicable, 100, checklists.StatusNotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checklists.DeriveStatus(tt.current, tt.coverage); got != tt.want {
				t.Errorf("DeriveStatus(%s, %d) = %s, want %s", tt.current, tt.coverage, got, tt.want)
			}
		})
	}
}

func TestParseFramework(t *testing.T) {
	for _, f := range checklists.Frameworks() {
		if _, err := checklists.ParseFramework(string(f)); err != nil {
			t.Errorf("ParseFramework(%s) = %v, want nil", f, err)
		}
	}

	if _, err := checklists.ParseFramework("SOC2"); !errors.Is(err, checklists.ErrInvalidFramework) {
		t.Errorf("ParseFramework(SOC2) = %v, want ErrInvalidFramework", err)
	}
}

func TestCreateCommandValidate(t *testing.T) {
	t.Run("valid command", func(t *testing.T) {
		cmd := checklists.CreateCommand{
			Framework: checklists.FrameworkISO27001,
			Title:     "Access control policy reviewed",
		}
		if err := cmd.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		cmd := checklists.CreateCommand{Framework: checklists.FrameworkAPGFMS}
		if err := cmd.Validate(); !errors.Is(err, checklists.ErrTitleRequired) {
			t.Errorf("Validate() = %v, want ErrTitleRequired", err)
		}
	})

	t.Run("unknown framework", func(t *testing.T) {
		cmd := checklists.CreateCommand{Framework: "SOC2", Title: "X"}
		if err := cmd.Validate(); !errors.Is(err, checklists.ErrInvalidFramework) {
			t.Errorf("Validate() = %v, want ErrInvalidFramework", err)
		}
	})
}
