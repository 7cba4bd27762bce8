package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/attest-hq/attest/internal/findings"
	"github.com/attest-hq/attest/internal/payroll"
	"github.com/attest-hq/attest/internal/reviews"
	"github.com/attest-hq/attest/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a snapshot repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "snapshots"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Export reads the full finding, review item, and variance explanation
// collections into a single snapshot document.
func (r *repo) Export(ctx context.Context) (*Snapshot, error) {
	findingQ := `
		SELECT id, employee_id, employee_name, payrun_id, period_start, period_end,
			   code, title, severity, status, assignee, created_at, updated_at,
			   evidence, notes, row_version
		FROM findings
		ORDER BY created_at, id`

	fs, err := repository.QueryMany(ctx, r.db, findingQ, nil, scanFinding)
	if err != nil {
		return nil, fmt.Errorf("export findings: %w", err)
	}

	reviewQ := `
		SELECT id, type, title, description, confidence, snippets,
			   evidence_pack_size, status, assigned_to, assigned_at, due_date,
			   completed_at, loop_count, return_reason, created_at, updated_at,
			   row_version
		FROM review_items
		ORDER BY created_at, id`

	ris, err := repository.QueryMany(ctx, r.db, reviewQ, nil, scanReviewItem)
	if err != nil {
		return nil, fmt.Errorf("export review items: %w", err)
	}

	explanationQ := `
		SELECT id, employee_id, payrun_id, reason, explanation, author, created_at
		FROM variance_explanations
		ORDER BY created_at, id`

	ves, err := repository.QueryMany(ctx, r.db, explanationQ, nil, scanExplanation)
	if err != nil {
		return nil, fmt.Errorf("export explanations: %w", err)
	}

	snap := &Snapshot{
		Findings:             fs,
		ReviewItems:          ris,
		VarianceExplanations: ves,
		ExportedAt:           time.Now().UTC(),
	}

	r.logger.Info("snapshot exported",
		"findings", len(fs),
		"review_items", len(ris),
		"variance_explanations", len(ves),
	)
	return snap, nil
}

// Import upserts the snapshot collections in a single transaction.
// Findings and review items are replaced by id; variance explanations are
// immutable, so existing rows are left untouched.
func (r *repo) Import(ctx context.Context, snap Snapshot) (*ImportResult, error) {
	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ImportResult, error) {
		var res ImportResult

		for _, f := range snap.Findings {
			if err := upsertFinding(ctx, tx, f); err != nil {
				return res, fmt.Errorf("import finding %s: %w", f.ID, err)
			}
			res.Findings++
		}

		for _, it := range snap.ReviewItems {
			if err := upsertReviewItem(ctx, tx, it); err != nil {
				return res, fmt.Errorf("import review item %s: %w", it.ID, err)
			}
			res.ReviewItems++
		}

		for _, ve := range snap.VarianceExplanations {
			if err := insertExplanation(ctx, tx, ve); err != nil {
				return res, fmt.Errorf("import explanation %s: %w", ve.ID, err)
			}
			res.VarianceExplanations++
		}

		res.ImportedAt = time.Now().UTC()
		return res, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("snapshot imported",
		"findings", result.Findings,
		"review_items", result.ReviewItems,
		"variance_explanations", result.VarianceExplanations,
	)
	return &result, nil
}

func upsertFinding(ctx context.Context, tx *sql.Tx, f findings.Finding) error {
	evidenceJSON, err := json.Marshal(f.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	notesJSON, err := json.Marshal(f.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	q := `
		INSERT INTO findings(
			id, employee_id, employee_name, payrun_id, period_start, period_end,
			code, title, severity, status, assignee, created_at, updated_at,
			evidence, notes, row_version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			employee_name = EXCLUDED.employee_name,
			payrun_id = EXCLUDED.payrun_id,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			code = EXCLUDED.code,
			title = EXCLUDED.title,
			severity = EXCLUDED.severity,
			status = EXCLUDED.status,
			assignee = EXCLUDED.assignee,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			evidence = EXCLUDED.evidence,
			notes = EXCLUDED.notes,
			row_version = EXCLUDED.row_version`

	_, err = tx.ExecContext(ctx, q,
		f.ID, f.EmployeeID, f.EmployeeName, f.PayrunID, f.PeriodStart, f.PeriodEnd,
		f.Code, f.Title, f.Severity, f.Status, f.Assignee, f.CreatedAt, f.UpdatedAt,
		evidenceJSON, notesJSON, f.RowVersion,
	)
	return err
}

func upsertReviewItem(ctx context.Context, tx *sql.Tx, it reviews.ReviewItem) error {
	snippetsJSON, err := json.Marshal(it.Snippets)
	if err != nil {
		return fmt.Errorf("marshal snippets: %w", err)
	}

	q := `
		INSERT INTO review_items(
			id, type, title, description, confidence, snippets,
			evidence_pack_size, status, assigned_to, assigned_at, due_date,
			completed_at, loop_count, return_reason, created_at, updated_at,
			row_version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			confidence = EXCLUDED.confidence,
			snippets = EXCLUDED.snippets,
			evidence_pack_size = EXCLUDED.evidence_pack_size,
			status = EXCLUDED.status,
			assigned_to = EXCLUDED.assigned_to,
			assigned_at = EXCLUDED.assigned_at,
			due_date = EXCLUDED.due_date,
			completed_at = EXCLUDED.completed_at,
			loop_count = EXCLUDED.loop_count,
			return_reason = EXCLUDED.return_reason,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			row_version = EXCLUDED.row_version`

	_, err = tx.ExecContext(ctx, q,
		it.ID, it.Type, it.Title, it.Description, it.Confidence, snippetsJSON,
		it.EvidencePackSize, it.Status, it.AssignedTo, it.AssignedAt, it.DueDate,
		it.CompletedAt, it.LoopCount, it.ReturnReason, it.CreatedAt, it.UpdatedAt,
		it.RowVersion,
	)
	return err
}

func insertExplanation(ctx context.Context, tx *sql.Tx, ve payroll.VarianceExplanation) error {
	q := `
		INSERT INTO variance_explanations(id, employee_id, payrun_id, reason, explanation, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	_, err := tx.ExecContext(ctx, q,
		ve.ID, ve.EmployeeID, ve.PayrunID, ve.Reason, ve.Explanation, ve.Author, ve.CreatedAt,
	)
	return err
}

func scanFinding(s repository.Scanner) (findings.Finding, error) {
	var f findings.Finding
	var evidenceRaw, notesRaw []byte

	err := s.Scan(
		&f.ID, &f.EmployeeID, &f.EmployeeName, &f.PayrunID, &f.PeriodStart,
		&f.PeriodEnd, &f.Code, &f.Title, &f.Severity, &f.Status, &f.Assignee,
		&f.CreatedAt, &f.UpdatedAt, &evidenceRaw, &notesRaw, &f.RowVersion,
	)

	if err != nil {
		return f, err
	}

	if len(evidenceRaw) > 0 {
		if err := json.Unmarshal(evidenceRaw, &f.Evidence); err != nil {
			return f, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}
	if f.Evidence == nil {
		f.Evidence = []findings.EvidenceRef{}
	}

	if len(notesRaw) > 0 {
		if err := json.Unmarshal(notesRaw, &f.Notes); err != nil {
			return f, fmt.Errorf("unmarshal notes: %w", err)
		}
	}
	if f.Notes == nil {
		f.Notes = []findings.Note{}
	}

	return f, nil
}

func scanReviewItem(s repository.Scanner) (reviews.ReviewItem, error) {
	var it reviews.ReviewItem
	var snippetsRaw []byte

	err := s.Scan(
		&it.ID, &it.Type, &it.Title, &it.Description, &it.Confidence,
		&snippetsRaw, &it.EvidencePackSize, &it.Status, &it.AssignedTo,
		&it.AssignedAt, &it.DueDate, &it.CompletedAt, &it.LoopCount,
		&it.ReturnReason, &it.CreatedAt, &it.UpdatedAt, &it.RowVersion,
	)

	if err != nil {
		return it, err
	}

	if len(snippetsRaw) > 0 {
		if err := json.Unmarshal(snippetsRaw, &it.Snippets); err != nil {
			return it, fmt.Errorf("unmarshal snippets: %w", err)
		}
	}
	if it.Snippets == nil {
		it.Snippets = []string{}
	}

	return it, nil
}

func scanExplanation(s repository.Scanner) (payroll.VarianceExplanation, error) {
	var ve payroll.VarianceExplanation

	err := s.Scan(
		&ve.ID, &ve.EmployeeID, &ve.PayrunID, &ve.Reason,
		&ve.Explanation, &ve.Author, &ve.CreatedAt,
	)

	return ve, err
}
