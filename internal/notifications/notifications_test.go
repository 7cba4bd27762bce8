package notifications_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/attest-hq/attest/internal/notifications"
)

func TestNopEmitter(t *testing.T) {
	// The zero emitter must be safe to call anywhere a real one is wired.
	var e notifications.Emitter = notifications.NopEmitter{}
	e.Emit(context.Background(), notifications.CreateCommand{
		Title:      "finding resolved",
		EntityKind: "finding",
	})
}

func TestMapHTTPStatus(t *testing.T) {
	if got := notifications.MapHTTPStatus(notifications.ErrNotFound); got != http.StatusNotFound {
		t.Errorf("MapHTTPStatus(ErrNotFound) = %d, want 404", got)
	}
	if got := notifications.MapHTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("MapHTTPStatus(unknown) = %d, want 500", got)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("read flag parsed", func(t *testing.T) {
		f := notifications.FiltersFromQuery(url.Values{"read": {"false"}})
		if f.Read == nil || *f.Read {
			t.Errorf("Read = %v, want false", f.Read)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := notifications.FiltersFromQuery(url.Values{})
		if f.Read != nil || f.Severity != nil || f.EntityKind != nil {
			t.Errorf("expected nil filters, got %+v", f)
		}
	})
}
