package findings_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/attest-hq/attest/internal/findings"
)

func ptr[T any](v T) *T { return &v }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from findings.Status
		to   findings.Status
		want bool
	}{
		{"open to resolved", findings.StatusOpen, findings.StatusResolved, true},
		{"open to wont fix", findings.StatusOpen, findings.StatusWontFix, true},
		{"resolved reopen", findings.StatusResolved, findings.StatusOpen, true},
		{"wont fix reopen", findings.StatusWontFix, findings.StatusOpen, true},
		{"resolved to wont fix", findings.StatusResolved, findings.StatusWontFix, false},
		{"wont fix to resolved", findings.StatusWontFix, findings.StatusResolved, false},
		{"open self transition", findings.StatusOpen, findings.StatusOpen, false},
		{"resolved self transition", findings.StatusResolved, findings.StatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("%s.CanTransition(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	if findings.SeverityCritical.Rank() >= findings.SeverityWarn.Rank() {
		t.Error("critical should rank above warn")
	}
	if findings.SeverityWarn.Rank() >= findings.SeverityInfo.Rank() {
		t.Error("warn should rank above info")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", findings.ErrNotFound, http.StatusNotFound},
		{"duplicate", findings.ErrDuplicate, http.StatusConflict},
		{"invalid transition", findings.ErrInvalidTransition, http.StatusConflict},
		{"version conflict", findings.ErrVersionConflict, http.StatusConflict},
		{"title required", findings.ErrTitleRequired, http.StatusBadRequest},
		{"invalid severity", findings.ErrInvalidSeverity, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", findings.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findings.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	t.Run("valid command", func(t *testing.T) {
		cmd := findings.CreateCommand{
			Code:     "VAR_HOURS",
			Title:    "Paid hours exceed recorded hours",
			Severity: findings.SeverityCritical,
		}
		if err := cmd.Validate(); err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
	})

	t.Run("severity defaults to warn", func(t *testing.T) {
		cmd := findings.CreateCommand{Code: "VAR_HOURS", Title: "Variance"}
		if err := cmd.Validate(); err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
		if cmd.Severity != findings.SeverityWarn {
			t.Errorf("Severity = %s, want %s", cmd.Severity, findings.SeverityWarn)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		cmd := findings.CreateCommand{Code: "VAR_HOURS"}
		if err := cmd.Validate(); !errors.Is(err, findings.ErrTitleRequired) {
			t.Errorf("Validate() = %v, want ErrTitleRequired", err)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		cmd := findings.CreateCommand{Title: "Variance"}
		if err := cmd.Validate(); !errors.Is(err, findings.ErrCodeRequired) {
			t.Errorf("Validate() = %v, want ErrCodeRequired", err)
		}
	})

	t.Run("bad severity", func(t *testing.T) {
		cmd := findings.CreateCommand{Code: "X", Title: "Y", Severity: "fatal"}
		if err := cmd.Validate(); !errors.Is(err, findings.ErrInvalidSeverity) {
			t.Errorf("Validate() = %v, want ErrInvalidSeverity", err)
		}
	})
}

func TestUpdateCommandValidate(t *testing.T) {
	t.Run("empty title rejected", func(t *testing.T) {
		cmd := findings.UpdateCommand{Title: ptr("")}
		if err := cmd.Validate(); !errors.Is(err, findings.ErrTitleRequired) {
			t.Errorf("Validate() = %v, want ErrTitleRequired", err)
		}
	})

	t.Run("bad status rejected", func(t *testing.T) {
		bad := findings.Status("Closed")
		cmd := findings.UpdateCommand{Status: &bad}
		if err := cmd.Validate(); !errors.Is(err, findings.ErrInvalidStatus) {
			t.Errorf("Validate() = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("nil fields pass", func(t *testing.T) {
		cmd := findings.UpdateCommand{}
		if err := cmd.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestStatusUnmarshalJSON(t *testing.T) {
	t.Run("valid status", func(t *testing.T) {
		var s findings.Status
		if err := json.Unmarshal([]byte(`"Won't Fix"`), &s); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if s != findings.StatusWontFix {
			t.Errorf("status = %s, want %s", s, findings.StatusWontFix)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		var s findings.Status
		if err := json.Unmarshal([]byte(`"Closed"`), &s); !errors.Is(err, findings.ErrInvalidStatus) {
			t.Errorf("unmarshal = %v, want ErrInvalidStatus", err)
		}
	})
}
