package snapshots

import "context"

// System defines the public contract for snapshot operations.
type System interface {
	Handler() *Handler

	Export(ctx context.Context) (*Snapshot, error)
	Import(ctx context.Context, snap Snapshot) (*ImportResult, error)
}
