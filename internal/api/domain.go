package api

import (
	"github.com/attest-hq/attest/internal/checklists"
	"github.com/attest-hq/attest/internal/evidence"
	"github.com/attest-hq/attest/internal/findings"
	"github.com/attest-hq/attest/internal/notifications"
	"github.com/attest-hq/attest/internal/payroll"
	"github.com/attest-hq/attest/internal/reviews"
	"github.com/attest-hq/attest/internal/snapshots"
	"github.com/attest-hq/attest/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Notifications notifications.System
	Findings      findings.System
	Reviews       reviews.System
	Payroll       payroll.System
	Evidence      evidence.System
	Checklists    checklists.System
	Snapshots     snapshots.System
	Workflow      *workflow.Runtime
}

// NewDomain creates all domain systems from the API runtime. Systems that
// raise notifications or findings receive the already-constructed upstream
// system, so construction order matters.
func NewDomain(runtime *Runtime) *Domain {
	notificationsSystem := notifications.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	findingsSystem := findings.New(
		runtime.Database.Connection(),
		notificationsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	reviewsSystem := reviews.New(
		runtime.Database.Connection(),
		notificationsSystem,
		runtime.Logger,
		runtime.Pagination,
		runtime.Audit,
	)

	payrollSystem := payroll.New(
		runtime.Database.Connection(),
		findingsSystem,
		runtime.Logger,
		runtime.Pagination,
		runtime.Audit,
	)

	evidenceSystem := evidence.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	checklistsSystem := checklists.New(
		runtime.Database.Connection(),
		notificationsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	snapshotsSystem := snapshots.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	workflowRuntime := &workflow.Runtime{
		Checklists: checklistsSystem,
		Evidence:   evidenceSystem,
		Threshold:  runtime.Audit.AcceptThreshold,
		Logger:     runtime.Logger,
	}

	return &Domain{
		Notifications: notificationsSystem,
		Findings:      findingsSystem,
		Reviews:       reviewsSystem,
		Payroll:       payrollSystem,
		Evidence:      evidenceSystem,
		Checklists:    checklistsSystem,
		Snapshots:     snapshotsSystem,
		Workflow:      workflowRuntime,
	}
}
