package reviews

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/config"
	"github.com/attest-hq/attest/internal/notifications"
	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

const reviewColumns = `id, type, title, description, confidence, snippets,
			  evidence_pack_size, status, assigned_to, assigned_at, due_date,
			  completed_at, loop_count, return_reason, created_at, updated_at,
			  row_version`

type repo struct {
	db         *sql.DB
	emitter    notifications.Emitter
	logger     *slog.Logger
	pagination pagination.Config
	audit      config.AuditConfig
	now        func() time.Time
}

// New creates a review item repository implementing the System interface.
// Queue transitions are announced through the provided emitter; thresholds
// and ROI baselines come from the audit config.
func New(
	db *sql.DB,
	emitter notifications.Emitter,
	logger *slog.Logger,
	pagination pagination.Config,
	audit config.AuditConfig,
) System {
	return &repo{
		db:         db,
		emitter:    emitter,
		logger:     logger.With("system", "reviews"),
		pagination: pagination,
		audit:      audit,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[ReviewItem], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count review items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReviewItem)
	if err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}

	now := r.now()
	for i := range items {
		items[i].SLAStatus = ComputeSLA(
			items[i].DueDate, items[i].CompletedAt,
			now, r.audit.SLAAtRiskWindowDuration(),
		)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*ReviewItem, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	it, err := repository.QueryOne(ctx, r.db, q, args, scanReviewItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	it.SLAStatus = ComputeSLA(it.DueDate, it.CompletedAt, r.now(), r.audit.SLAAtRiskWindowDuration())
	return &it, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*ReviewItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	snippets := cmd.Snippets
	if snippets == nil {
		snippets = []string{}
	}
	snippetsJSON, err := json.Marshal(snippets)
	if err != nil {
		return nil, fmt.Errorf("marshal snippets: %w", err)
	}

	insertQ := `
		INSERT INTO review_items(
			type, title, description, confidence, snippets,
			evidence_pack_size, status, assigned_to, due_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + reviewColumns

	insertArgs := []any{
		cmd.Type,
		cmd.Title,
		cmd.Description,
		cmd.Confidence,
		snippetsJSON,
		cmd.EvidencePackSize,
		cmd.InitialStatus(r.audit.AutoReadyThreshold),
		cmd.AssignedTo,
		cmd.DueDate,
	}

	it, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanReviewItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	it.SLAStatus = ComputeSLA(it.DueDate, it.CompletedAt, r.now(), r.audit.SLAAtRiskWindowDuration())

	r.logger.Info("review item created",
		"id", it.ID,
		"type", it.Type,
		"status", it.Status,
		"confidence", it.Confidence,
	)
	return &it, nil
}

func (r *repo) Validate(ctx context.Context, id uuid.UUID) (*ReviewItem, error) {
	it, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ReviewItem, error) {
		return r.validateItem(ctx, tx, id)
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("review item completed", "id", it.ID, "loop_count", it.LoopCount)
	return &it, nil
}

func (r *repo) Return(ctx context.Context, id uuid.UUID, cmd ReturnCommand) (*ReviewItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	it, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ReviewItem, error) {
		return r.returnItem(ctx, tx, id, cmd.Reason)
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("review item returned", "id", it.ID, "loop_count", it.LoopCount)
	return &it, nil
}

func (r *repo) Reassign(ctx context.Context, id uuid.UUID, cmd ReassignCommand) (*ReviewItem, error) {
	it, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ReviewItem, error) {
		current, err := lockReviewItem(ctx, tx, id)
		if err != nil {
			return ReviewItem{}, err
		}

		if !current.Status.CanReassign() {
			return ReviewItem{}, ErrInvalidTransition
		}

		reassignQ := `
			UPDATE review_items
			SET status = $1,
				assigned_to = COALESCE($2, assigned_to),
				assigned_at = NOW(),
				updated_at = NOW(),
				row_version = row_version + 1
			WHERE id = $3
			RETURNING ` + reviewColumns

		updated, err := repository.QueryOne(ctx, tx, reassignQ,
			[]any{StatusMyQueue, cmd.AssignedTo, id}, scanReviewItem)
		if err != nil {
			return ReviewItem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return updated, nil
	})

	if err != nil {
		return nil, err
	}

	it.SLAStatus = ComputeSLA(it.DueDate, it.CompletedAt, r.now(), r.audit.SLAAtRiskWindowDuration())

	r.logger.Info("review item reassigned",
		"id", it.ID,
		"assigned_to", it.AssignedTo,
		"loop_count", it.LoopCount,
	)
	return &it, nil
}

// BatchValidate applies the decision to each item independently. One
// result is returned per requested ID; a failure on one item never rolls
// back the others.
func (r *repo) BatchValidate(ctx context.Context, cmd BatchValidateCommand) ([]BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	results := make([]BatchResult, 0, len(cmd.IDs))
	for _, id := range cmd.IDs {
		it, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ReviewItem, error) {
			if cmd.Approved {
				return r.validateItem(ctx, tx, id)
			}
			return r.returnItem(ctx, tx, id, cmd.Reason)
		})

		if err != nil {
			results = append(results, BatchResult{ID: id, Error: err.Error()})
			continue
		}

		results = append(results, BatchResult{ID: id, Item: &it})
	}

	r.logger.Info("batch validate applied",
		"approved", cmd.Approved,
		"requested", len(cmd.IDs),
	)
	return results, nil
}

// Metrics recomputes ROI metrics from the completed items on demand.
func (r *repo) Metrics(ctx context.Context) (*Metrics, error) {
	metricsQ := `
		SELECT ` + reviewColumns + `
		FROM review_items
		WHERE status = $1`

	items, err := repository.QueryMany(ctx, r.db, metricsQ, []any{StatusCompleted}, scanReviewItem)
	if err != nil {
		return nil, fmt.Errorf("query completed items: %w", err)
	}

	m := ComputeMetrics(items, r.audit.BaselineMinutesPerItem, r.audit.BaselineHourlyRateDecimal())
	return &m, nil
}

func (r *repo) validateItem(ctx context.Context, tx *sql.Tx, id uuid.UUID) (ReviewItem, error) {
	current, err := lockReviewItem(ctx, tx, id)
	if err != nil {
		return ReviewItem{}, err
	}

	if !current.Status.CanValidate() {
		return ReviewItem{}, ErrInvalidTransition
	}

	completeQ := `
		UPDATE review_items
		SET status = $1,
			completed_at = NOW(),
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $2
		RETURNING ` + reviewColumns

	updated, err := repository.QueryOne(ctx, tx, completeQ, []any{StatusCompleted, id}, scanReviewItem)
	if err != nil {
		return ReviewItem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	updated.SLAStatus = SLAOnTime

	r.emitter.Emit(ctx, notifications.CreateCommand{
		Title:      "Review item completed",
		Message:    fmt.Sprintf("%s validated after %d rework cycle(s)", updated.Title, updated.LoopCount),
		Severity:   "info",
		EntityKind: "review_item",
		EntityID:   updated.ID.String(),
	})

	return updated, nil
}

func (r *repo) returnItem(ctx context.Context, tx *sql.Tx, id uuid.UUID, reason string) (ReviewItem, error) {
	current, err := lockReviewItem(ctx, tx, id)
	if err != nil {
		return ReviewItem{}, err
	}

	if !current.Status.CanReturn() {
		return ReviewItem{}, ErrInvalidTransition
	}

	returnQ := `
		UPDATE review_items
		SET status = $1,
			return_reason = $2,
			loop_count = loop_count + 1,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $3
		RETURNING ` + reviewColumns

	updated, err := repository.QueryOne(ctx, tx, returnQ, []any{StatusReturned, reason, id}, scanReviewItem)
	if err != nil {
		return ReviewItem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	updated.SLAStatus = ComputeSLA(updated.DueDate, updated.CompletedAt, r.now(), r.audit.SLAAtRiskWindowDuration())

	r.emitter.Emit(ctx, notifications.CreateCommand{
		Title:      "Review item returned",
		Message:    fmt.Sprintf("%s returned for rework: %s", updated.Title, reason),
		Severity:   "warn",
		EntityKind: "review_item",
		EntityID:   updated.ID.String(),
	})

	return updated, nil
}

func lockReviewItem(ctx context.Context, tx *sql.Tx, id uuid.UUID) (ReviewItem, error) {
	lockQ := `
		SELECT ` + reviewColumns + `
		FROM review_items
		WHERE id = $1
		FOR UPDATE`

	it, err := repository.QueryOne(ctx, tx, lockQ, []any{id}, scanReviewItem)
	if err != nil {
		return ReviewItem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return it, nil
}
