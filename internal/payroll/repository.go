package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/attest-hq/attest/internal/config"
	"github.com/attest-hq/attest/internal/findings"
	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

const varianceColumns = `employee_id, payrun_id, taa_hours, paid_hours,
			  variance_hours, variance_amount, exceptions, severity, reconciled_at`

type repo struct {
	db         *sql.DB
	findings   findings.System
	logger     *slog.Logger
	pagination pagination.Config
	rules      Rules
}

// New creates a payroll repository implementing the System interface.
// Reconciliation can auto-generate findings for detected exceptions.
func New(
	db *sql.DB,
	findingSys findings.System,
	logger *slog.Logger,
	pagination pagination.Config,
	audit config.AuditConfig,
) System {
	return &repo{
		db:         db,
		findings:   findingSys,
		logger:     logger.With("system", "payroll"),
		pagination: pagination,
		rules:      RulesFromConfig(audit),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[EmployeeAuditRecord], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(employeeProjection, employeeSort).
		WhereSearch(page.Search, "EmployeeName", "Department", "Award")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEmployee)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, employeeID string) (*EmployeeAuditRecord, error) {
	q, args := query.NewBuilder(employeeProjection).BuildSingle("EmployeeID", employeeID)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanEmployee)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.loadLines(ctx, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Variance derives the reconciliation result without persisting it.
func (r *repo) Variance(ctx context.Context, employeeID, payrunID string) (*Variance, error) {
	rec, err := r.Find(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	v := Derive(*rec, payrunID, r.rules)
	v.ReconciledAt = time.Now().UTC()
	return &v, nil
}

// Reconcile derives the variance, persists the snapshot, and raises a
// finding for each detected exception that is not already open for the
// same employee, payrun, and code.
func (r *repo) Reconcile(ctx context.Context, employeeID, payrunID string) (*Variance, error) {
	rec, err := r.Find(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	v := Derive(*rec, payrunID, r.rules)

	exceptionsJSON, err := json.Marshal(v.Exceptions)
	if err != nil {
		return nil, fmt.Errorf("marshal exceptions: %w", err)
	}

	upsertQ := `
		INSERT INTO variances(
			employee_id, payrun_id, taa_hours, paid_hours,
			variance_hours, variance_amount, exceptions, severity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, payrun_id) DO UPDATE SET
			taa_hours = EXCLUDED.taa_hours,
			paid_hours = EXCLUDED.paid_hours,
			variance_hours = EXCLUDED.variance_hours,
			variance_amount = EXCLUDED.variance_amount,
			exceptions = EXCLUDED.exceptions,
			severity = EXCLUDED.severity,
			reconciled_at = NOW()
		RETURNING ` + varianceColumns

	upsertArgs := []any{
		v.EmployeeID,
		v.PayrunID,
		v.TaaHours,
		v.PaidHours,
		v.VarianceHours,
		v.VarianceAmount,
		exceptionsJSON,
		v.Severity,
	}

	stored, err := repository.QueryOne(ctx, r.db, upsertQ, upsertArgs, scanVariance)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.raiseFindings(ctx, *rec, stored)

	r.logger.Info("payrun reconciled",
		"employee_id", stored.EmployeeID,
		"payrun_id", stored.PayrunID,
		"variance_hours", stored.VarianceHours,
		"exceptions", len(stored.Exceptions),
	)
	return &stored, nil
}

func (r *repo) Variances(ctx context.Context, payrunID string) ([]Variance, error) {
	listQ := `
		SELECT ` + varianceColumns + `
		FROM variances
		WHERE payrun_id = $1
		ORDER BY variance_amount DESC`

	items, err := repository.QueryMany(ctx, r.db, listQ, []any{payrunID}, scanVariance)
	if err != nil {
		return nil, fmt.Errorf("query variances: %w", err)
	}
	return items, nil
}

func (r *repo) CreateExplanation(ctx context.Context, cmd ExplanationCommand) (*VarianceExplanation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	insertQ := `
		INSERT INTO variance_explanations(employee_id, payrun_id, reason, explanation, author)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, employee_id, payrun_id, reason, explanation, author, created_at`

	insertArgs := []any{
		cmd.EmployeeID,
		cmd.PayrunID,
		cmd.Reason,
		cmd.Explanation,
		cmd.Author,
	}

	ve, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanExplanation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variance explained",
		"id", ve.ID,
		"employee_id", ve.EmployeeID,
		"payrun_id", ve.PayrunID,
		"reason", ve.Reason,
	)
	return &ve, nil
}

func (r *repo) ListExplanations(
	ctx context.Context,
	page pagination.PageRequest,
	filters ExplanationFilters,
) (*pagination.PageResult[VarianceExplanation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(explanationProjection, explanationSort).
		WhereSearch(page.Search, "Explanation", "Author")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count explanations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanExplanation)
	if err != nil {
		return nil, fmt.Errorf("query explanations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) loadLines(ctx context.Context, rec *EmployeeAuditRecord) error {
	timesheetQ := `
		SELECT id, employee_id, payrun_id, date, hours, is_manual, is_overtime
		FROM timesheets
		WHERE employee_id = $1
		ORDER BY date`

	timesheets, err := repository.QueryMany(ctx, r.db, timesheetQ, []any{rec.EmployeeID}, scanTimesheet)
	if err != nil {
		return fmt.Errorf("query timesheets: %w", err)
	}
	rec.Timesheets = timesheets

	payslipQ := `
		SELECT id, employee_id, payrun_id, period_start, period_end,
			   line_code, quantity, amount, stp_status
		FROM payslips
		WHERE employee_id = $1
		ORDER BY period_start, line_code`

	payslips, err := repository.QueryMany(ctx, r.db, payslipQ, []any{rec.EmployeeID}, scanPayslip)
	if err != nil {
		return fmt.Errorf("query payslips: %w", err)
	}
	rec.Payslips = payslips

	return nil
}

// raiseFindings creates one finding per exception code, skipping codes
// that already have an open finding for the same employee and payrun.
// Best-effort: a failure on one code is logged and does not abort the rest.
func (r *repo) raiseFindings(ctx context.Context, rec EmployeeAuditRecord, v Variance) {
	open := findings.StatusOpen

	for _, code := range v.Exceptions {
		c := code
		existing, err := r.findings.List(ctx,
			pagination.PageRequest{Page: 1, PageSize: 1},
			findings.Filters{
				Status:     &open,
				Code:       &c,
				EmployeeID: &v.EmployeeID,
				PayrunID:   &v.PayrunID,
			},
		)
		if err != nil {
			r.logger.Error("failed to check existing findings", "code", code, "error", err)
			continue
		}
		if existing.Total > 0 {
			continue
		}

		cmd := findings.CreateCommand{
			EmployeeID:   &v.EmployeeID,
			EmployeeName: &rec.EmployeeName,
			PayrunID:     &v.PayrunID,
			Code:         code,
			Title:        fmt.Sprintf("%s detected for %s in %s", code, rec.EmployeeName, v.PayrunID),
			Severity:     findingSeverity(v.Severity),
		}

		if _, err := r.findings.Create(ctx, cmd); err != nil {
			r.logger.Error("failed to raise finding", "code", code, "error", err)
		}
	}
}

func findingSeverity(bucket string) findings.Severity {
	switch bucket {
	case SeverityHigh:
		return findings.SeverityCritical
	case SeverityMedium:
		return findings.SeverityWarn
	}
	return findings.SeverityInfo
}
