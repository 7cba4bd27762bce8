package payroll

import (
	"context"

	"github.com/attest-hq/attest/pkg/pagination"
)

// System defines the public contract for payroll reconciliation operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[EmployeeAuditRecord], error)

	Find(ctx context.Context, employeeID string) (*EmployeeAuditRecord, error)
	Variance(ctx context.Context, employeeID, payrunID string) (*Variance, error)
	Reconcile(ctx context.Context, employeeID, payrunID string) (*Variance, error)
	Variances(ctx context.Context, payrunID string) ([]Variance, error)

	CreateExplanation(ctx context.Context, cmd ExplanationCommand) (*VarianceExplanation, error)
	ListExplanations(
		ctx context.Context,
		page pagination.PageRequest,
		filters ExplanationFilters,
	) (*pagination.PageResult[VarianceExplanation], error)
}
