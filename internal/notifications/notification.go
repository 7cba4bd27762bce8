// Package notifications implements the notification sink for Attest.
// Domain systems emit fire-and-forget notifications on significant
// transitions; delivery failures are logged, never propagated.
package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification is a user-facing message produced by a domain transition.
type Notification struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to record a notification.
type CreateCommand struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
}

// Emitter is the narrow contract domain systems depend on. Emit never
// returns an error; the sink is advisory and must not block mutations.
type Emitter interface {
	Emit(ctx context.Context, cmd CreateCommand)
}

// NopEmitter discards all notifications. Used in tests and tooling.
type NopEmitter struct{}

// Emit discards the notification.
func (NopEmitter) Emit(context.Context, CreateCommand) {}
