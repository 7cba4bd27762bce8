// Package evidence implements the shared evidence artifact pool for Attest.
// Artifacts are uploaded manually or appended by integration syncs and the
// checklist auto-population pass; blobs live in object storage with
// metadata registered alongside.
package evidence

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceArtifact represents a registered piece of evidence with its
// metadata and blob storage reference.
type EvidenceArtifact struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	Source      string    `json:"source"`
	Tags        []string  `json:"tags"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateCommand carries the data needed to upload and register an artifact.
// Data holds the raw file bytes. PageCount is optional and may be extracted
// by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	Source      string
	Tags        []string
	PageCount   *int
}

// Validate checks required fields before upload.
func (c *CreateCommand) Validate() error {
	if c.Filename == "" {
		return ErrInvalidFile
	}
	if c.Source == "" {
		return ErrSourceRequired
	}
	return nil
}
