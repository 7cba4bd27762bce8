package checklists

import (
	"context"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/pkg/pagination"
)

// System defines the public contract for checklist operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[AuditChecklistItem], error)

	Find(ctx context.Context, id uuid.UUID) (*AuditChecklistItem, error)
	Create(ctx context.Context, cmd CreateCommand) (*AuditChecklistItem, error)
	MarkComplete(ctx context.Context, id uuid.UUID) (*AuditChecklistItem, error)
	MarkNotApplicable(ctx context.Context, id uuid.UUID) (*AuditChecklistItem, error)

	// Items returns every checklist item, for matching passes.
	Items(ctx context.Context) ([]AuditChecklistItem, error)

	// ApplyMatches upserts match link rows for an item and recomputes its
	// coverage score and derived status. Re-applying the same matches is
	// a no-op beyond the recompute.
	ApplyMatches(ctx context.Context, id uuid.UUID, matches []MatchedArtifact) (*AuditChecklistItem, error)
}
