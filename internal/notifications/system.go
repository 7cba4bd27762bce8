package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/pkg/pagination"
)

// System defines the public contract for notification operations.
type System interface {
	Emitter

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Notification], error)

	Find(ctx context.Context, id uuid.UUID) (*Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error)
}
