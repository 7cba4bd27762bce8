package findings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/notifications"
	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

const findingColumns = `id, employee_id, employee_name, payrun_id, period_start,
			  period_end, code, title, severity, status, assignee,
			  created_at, updated_at, evidence, notes, row_version`

type repo struct {
	db         *sql.DB
	emitter    notifications.Emitter
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a finding repository implementing the System interface.
// Status transitions are announced through the provided emitter.
func New(
	db *sql.DB,
	emitter notifications.Emitter,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		emitter:    emitter,
		logger:     logger.With("system", "findings"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Finding], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Code", "EmployeeName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count findings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFinding)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Finding, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFinding)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Finding, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	evidence := cmd.Evidence
	if evidence == nil {
		evidence = []EvidenceRef{}
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}

	insertQ := `
		INSERT INTO findings(
			employee_id, employee_name, payrun_id, period_start, period_end,
			code, title, severity, status, assignee, evidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + findingColumns

	insertArgs := []any{
		cmd.EmployeeID,
		cmd.EmployeeName,
		cmd.PayrunID,
		cmd.PeriodStart,
		cmd.PeriodEnd,
		cmd.Code,
		cmd.Title,
		cmd.Severity,
		StatusOpen,
		cmd.Assignee,
		evidenceJSON,
	}

	f, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanFinding)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("finding created",
		"id", f.ID,
		"code", f.Code,
		"severity", f.Severity,
	)
	return &f, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Finding, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Finding, error) {
		current, err := lockFinding(ctx, tx, id)
		if err != nil {
			return Finding{}, err
		}

		if cmd.ExpectedVersion != nil && *cmd.ExpectedVersion != current.RowVersion {
			return Finding{}, ErrVersionConflict
		}

		if cmd.Status != nil && *cmd.Status != current.Status {
			if !current.Status.CanTransition(*cmd.Status) {
				return Finding{}, ErrInvalidTransition
			}
		}

		updateQ := `
			UPDATE findings
			SET title = COALESCE($1, title),
				code = COALESCE($2, code),
				severity = COALESCE($3, severity),
				status = COALESCE($4, status),
				assignee = COALESCE($5, assignee),
				employee_name = COALESCE($6, employee_name),
				updated_at = NOW(),
				row_version = row_version + 1
			WHERE id = $7
			RETURNING ` + findingColumns

		updateArgs := []any{
			cmd.Title,
			cmd.Code,
			cmd.Severity,
			cmd.Status,
			cmd.Assignee,
			cmd.EmployeeName,
			id,
		}

		updated, err := repository.QueryOne(ctx, tx, updateQ, updateArgs, scanFinding)
		if err != nil {
			return Finding{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if updated.Status != current.Status {
			r.emitTransition(ctx, updated, current.Status)
		}

		return updated, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("finding updated", "id", f.ID, "row_version", f.RowVersion)
	return &f, nil
}

func (r *repo) AddNote(ctx context.Context, id uuid.UUID, cmd NoteCommand) (*Finding, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	note := Note{
		At:     time.Now().UTC(),
		Author: cmd.Author,
		Text:   cmd.Text,
	}
	noteJSON, err := json.Marshal([]Note{note})
	if err != nil {
		return nil, fmt.Errorf("marshal note: %w", err)
	}

	noteQ := `
		UPDATE findings
		SET notes = notes || $1::jsonb,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $2
		RETURNING ` + findingColumns

	f, err := repository.QueryOne(ctx, r.db, noteQ, []any{noteJSON, id}, scanFinding)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("note added", "id", f.ID, "author", cmd.Author)
	return &f, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Finding, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Finding, error) {
		return r.transition(ctx, tx, id, status)
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("finding status changed", "id", f.ID, "status", f.Status)
	return &f, nil
}

// BatchStatus applies a status change to each finding independently.
// One result is returned per requested ID; a failure on one finding
// never rolls back the others.
func (r *repo) BatchStatus(ctx context.Context, cmd BatchStatusCommand) ([]BatchResult, error) {
	if _, err := ParseStatus(string(cmd.Status)); err != nil {
		return nil, err
	}

	results := make([]BatchResult, 0, len(cmd.IDs))
	for _, id := range cmd.IDs {
		f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Finding, error) {
			return r.transition(ctx, tx, id, cmd.Status)
		})

		if err != nil {
			results = append(results, BatchResult{ID: id, Error: err.Error()})
			continue
		}

		results = append(results, BatchResult{ID: id, Finding: &f})
	}

	r.logger.Info("batch status applied",
		"status", cmd.Status,
		"requested", len(cmd.IDs),
	)
	return results, nil
}

func (r *repo) transition(ctx context.Context, tx *sql.Tx, id uuid.UUID, status Status) (Finding, error) {
	current, err := lockFinding(ctx, tx, id)
	if err != nil {
		return Finding{}, err
	}

	if !current.Status.CanTransition(status) {
		return Finding{}, ErrInvalidTransition
	}

	statusQ := `
		UPDATE findings
		SET status = $1,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $2
		RETURNING ` + findingColumns

	updated, err := repository.QueryOne(ctx, tx, statusQ, []any{status, id}, scanFinding)
	if err != nil {
		return Finding{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.emitTransition(ctx, updated, current.Status)
	return updated, nil
}

func (r *repo) emitTransition(ctx context.Context, f Finding, from Status) {
	r.emitter.Emit(ctx, notifications.CreateCommand{
		Title:      fmt.Sprintf("Finding %s", f.Status),
		Message:    fmt.Sprintf("%s (%s) moved from %s to %s", f.Title, f.Code, from, f.Status),
		Severity:   string(f.Severity),
		EntityKind: "finding",
		EntityID:   f.ID.String(),
	})
}

func lockFinding(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Finding, error) {
	lockQ := `
		SELECT ` + findingColumns + `
		FROM findings
		WHERE id = $1
		FOR UPDATE`

	f, err := repository.QueryOne(ctx, tx, lockQ, []any{id}, scanFinding)
	if err != nil {
		return Finding{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return f, nil
}
