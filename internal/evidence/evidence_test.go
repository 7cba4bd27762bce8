package evidence_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/attest-hq/attest/internal/evidence"
)

func TestCreateCommandValidate(t *testing.T) {
	t.Run("valid command", func(t *testing.T) {
		cmd := evidence.CreateCommand{
			Data:        []byte("%PDF-1.7"),
			Filename:    "payroll_policy.pdf",
			ContentType: "application/pdf",
			Source:      "sharepoint",
			Tags:        []string{"payroll policy"},
		}
		if err := cmd.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("missing filename", func(t *testing.T) {
		cmd := evidence.CreateCommand{Source: "sharepoint"}
		if err := cmd.Validate(); !errors.Is(err, evidence.ErrInvalidFile) {
			t.Errorf("Validate() = %v, want ErrInvalidFile", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		cmd := evidence.CreateCommand{Filename: "policy.pdf"}
		if err := cmd.Validate(); !errors.Is(err, evidence.ErrSourceRequired) {
			t.Errorf("Validate() = %v, want ErrSourceRequired", err)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", evidence.ErrNotFound, http.StatusNotFound},
		{"duplicate", evidence.ErrDuplicate, http.StatusConflict},
		{"invalid file", evidence.ErrInvalidFile, http.StatusBadRequest},
		{"source required", evidence.ErrSourceRequired, http.StatusBadRequest},
		{"file too large", evidence.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evidence.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
