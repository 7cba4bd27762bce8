package evidence

import (
	"context"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/storage"
)

// System defines the public contract for evidence artifact operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[EvidenceArtifact], error)

	Find(ctx context.Context, id uuid.UUID) (*EvidenceArtifact, error)
	Create(ctx context.Context, cmd CreateCommand) (*EvidenceArtifact, error)
	Download(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Pool returns every artifact in the pool, for matching passes.
	Pool(ctx context.Context) ([]EvidenceArtifact, error)
}
