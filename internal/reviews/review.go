// Package reviews implements the reviewer queue for Attest. Review items
// move through a fixed state machine (validate, return, reassign), carry a
// rework loop count, and feed the read-side ROI metrics aggregation.
package reviews

import (
	"time"

	"github.com/google/uuid"
)

// ReviewItem is a unit of evidence awaiting human review. SLAStatus is
// derived from DueDate on every read and never stored.
type ReviewItem struct {
	ID               uuid.UUID  `json:"id"`
	Type             ItemType   `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Confidence       float64    `json:"confidence"`
	Snippets         []string   `json:"snippets"`
	EvidencePackSize int        `json:"evidence_pack_size"`
	Status           Status     `json:"status"`
	AssignedTo       *string    `json:"assigned_to"`
	AssignedAt       time.Time  `json:"assigned_at"`
	DueDate          *time.Time `json:"due_date"`
	CompletedAt      *time.Time `json:"completed_at"`
	LoopCount        int        `json:"loop_count"`
	ReturnReason     *string    `json:"return_reason"`
	SLAStatus        SLAStatus  `json:"sla_status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	RowVersion       int        `json:"row_version"`
}

// CreateCommand carries the data needed to create a review item. When
// Status is empty, routing depends on confidence: items at or above the
// auto-ready threshold start in auto_ready, everything else in my_queue.
type CreateCommand struct {
	Type             ItemType   `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Confidence       float64    `json:"confidence"`
	Snippets         []string   `json:"snippets"`
	EvidencePackSize int        `json:"evidence_pack_size"`
	Status           Status     `json:"status"`
	AssignedTo       *string    `json:"assigned_to"`
	DueDate          *time.Time `json:"due_date"`
}

// Validate checks required fields, enum values, and the confidence range.
func (c *CreateCommand) Validate() error {
	if c.Title == "" {
		return ErrTitleRequired
	}
	if _, err := ParseItemType(string(c.Type)); err != nil {
		return err
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return ErrInvalidConfidence
	}
	if c.EvidencePackSize < 0 {
		return ErrInvalidPackSize
	}
	if c.Status != "" {
		s, err := ParseStatus(string(c.Status))
		if err != nil {
			return err
		}
		if s == StatusCompleted {
			return ErrInvalidTransition
		}
	}
	return nil
}

// InitialStatus resolves the starting queue for the item.
func (c *CreateCommand) InitialStatus(autoReadyThreshold float64) Status {
	if c.Status != "" {
		return c.Status
	}
	if c.Confidence >= autoReadyThreshold {
		return StatusAutoReady
	}
	return StatusMyQueue
}

// ReturnCommand sends an item back for rework. Reason is required.
type ReturnCommand struct {
	Reason string `json:"reason"`
}

// Validate rejects an empty return reason.
func (c *ReturnCommand) Validate() error {
	if c.Reason == "" {
		return ErrReasonRequired
	}
	return nil
}

// ReassignCommand moves a returned item back into a reviewer's queue.
type ReassignCommand struct {
	AssignedTo *string `json:"assigned_to"`
}

// BatchValidateCommand validates or returns multiple items at once.
// Reason is required when Approved is false.
type BatchValidateCommand struct {
	IDs      []uuid.UUID `json:"ids"`
	Approved bool        `json:"approved"`
	Reason   string      `json:"reason"`
}

// Validate checks that a rejection carries a reason.
func (c *BatchValidateCommand) Validate() error {
	if !c.Approved && c.Reason == "" {
		return ErrReasonRequired
	}
	return nil
}

// BatchResult reports the outcome of a single item within a batch
// operation. On success, Item is populated and Error is empty.
type BatchResult struct {
	ID    uuid.UUID   `json:"id"`
	Item  *ReviewItem `json:"item,omitempty"`
	Error string      `json:"error,omitempty"`
}
