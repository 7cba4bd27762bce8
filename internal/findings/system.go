package findings

import (
	"context"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/pkg/pagination"
)

// System defines the public contract for finding operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Finding], error)

	Find(ctx context.Context, id uuid.UUID) (*Finding, error)
	Create(ctx context.Context, cmd CreateCommand) (*Finding, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Finding, error)
	AddNote(ctx context.Context, id uuid.UUID, cmd NoteCommand) (*Finding, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Finding, error)
	BatchStatus(ctx context.Context, cmd BatchStatusCommand) ([]BatchResult, error)
}
