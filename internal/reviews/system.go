package reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/pkg/pagination"
)

// System defines the public contract for review item operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[ReviewItem], error)

	Find(ctx context.Context, id uuid.UUID) (*ReviewItem, error)
	Create(ctx context.Context, cmd CreateCommand) (*ReviewItem, error)
	Validate(ctx context.Context, id uuid.UUID) (*ReviewItem, error)
	Return(ctx context.Context, id uuid.UUID, cmd ReturnCommand) (*ReviewItem, error)
	Reassign(ctx context.Context, id uuid.UUID, cmd ReassignCommand) (*ReviewItem, error)
	BatchValidate(ctx context.Context, cmd BatchValidateCommand) ([]BatchResult, error)
	Metrics(ctx context.Context) (*Metrics, error)
}
