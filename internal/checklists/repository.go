package checklists

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/notifications"
	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

const itemColumns = `id, framework, title, description, obligation_ids,
			  expected_evidence, status, coverage_score, rasci, created_at, updated_at`

type repo struct {
	db         *sql.DB
	emitter    notifications.Emitter
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a checklist repository implementing the System interface.
func New(
	db *sql.DB,
	emitter notifications.Emitter,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		emitter:    emitter,
		logger:     logger.With("system", "checklists"),
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
) (*pagination.PageResult[AuditChecklistItem], error) {
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
		return nil, fmt.Errorf("count checklist items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query checklist items: %w", err)
	}

	for i := range items {
		if err := r.loadMatches(ctx, &items[i]); err != nil {
			return nil, err
		}
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*AuditChecklistItem, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	it, err := repository.QueryOne(ctx, r.db, q, args, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.loadMatches(ctx, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*AuditChecklistItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	obligations := cmd.ObligationIDs
	if obligations == nil {
		obligations = []string{}
	}
	expected := cmd.ExpectedEvidence
	if expected == nil {
		expected = []string{}
	}

	obligationsJSON, err := json.Marshal(obligations)
	if err != nil {
		return nil, fmt.Errorf("marshal obligation ids: %w", err)
	}
	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		return nil, fmt.Errorf("marshal expected evidence: %w", err)
	}
	rasciJSON, err := json.Marshal(cmd.Rasci)
	if err != nil {
		return nil, fmt.Errorf("marshal rasci: %w", err)
	}

	insertQ := `
		INSERT INTO checklist_items(
			framework, title, description, obligation_ids,
			expected_evidence, status, coverage_score, rasci
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + itemColumns

	insertArgs := []any{
		cmd.Framework,
		cmd.Title,
		cmd.Description,
		obligationsJSON,
		expectedJSON,
		StatusUnstarted,
		0,
		rasciJSON,
	}

	it, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("checklist item created",
		"id", it.ID,
		"framework", it.Framework,
		"title", it.Title,
	)
	return &it, nil
}

func (r *repo) MarkComplete(ctx context.Context, id uuid.UUID) (*AuditChecklistItem, error) {
	return r.setStatus(ctx, id, StatusComplete)
}

func (r *repo) MarkNotApplicable(ctx context.Context, id uuid.UUID) (*AuditChecklistItem, error) {
	return r.setStatus(ctx, id, StatusNotApplicable)
}

func (r *repo) Items(ctx context.Context) ([]AuditChecklistItem, error) {
	itemsQ := `
		SELECT ` + itemColumns + `
		FROM checklist_items
		ORDER BY framework, title`

	items, err := repository.QueryMany(ctx, r.db, itemsQ, nil, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query checklist items: %w", err)
	}

	for i := range items {
		if err := r.loadMatches(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *repo) ApplyMatches(ctx context.Context, id uuid.UUID, matches []MatchedArtifact) (*AuditChecklistItem, error) {
	it, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (AuditChecklistItem, error) {
		lockQ := `
			SELECT ` + itemColumns + `
			FROM checklist_items
			WHERE id = $1
			FOR UPDATE`

		current, err := repository.QueryOne(ctx, tx, lockQ, []any{id}, scanItem)
		if err != nil {
			return AuditChecklistItem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		upsertQ := `
			INSERT INTO checklist_artifacts(checklist_item_id, artifact_id, descriptor, confidence)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (checklist_item_id, artifact_id) DO UPDATE SET
				descriptor = EXCLUDED.descriptor,
				confidence = EXCLUDED.confidence`

		for _, m := range matches {
			if _, err := tx.ExecContext(ctx, upsertQ, id, m.ArtifactID, m.Descriptor, m.Confidence); err != nil {
				return AuditChecklistItem{}, fmt.Errorf("upsert match link: %w", err)
			}
		}

		var matched int
		countQ := "SELECT COUNT(*) FROM checklist_artifacts WHERE checklist_item_id = $1"
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&matched); err != nil {
			return AuditChecklistItem{}, fmt.Errorf("count match links: %w", err)
		}

		coverage := CoverageScore(matched, len(current.ExpectedEvidence))
		status := DeriveStatus(current.Status, coverage)

		updateQ := `
			UPDATE checklist_items
			SET coverage_score = $1,
				status = $2,
				updated_at = NOW()
			WHERE id = $3
			RETURNING ` + itemColumns

		updated, err := repository.QueryOne(ctx, tx, updateQ, []any{coverage, status, id}, scanItem)
		if err != nil {
			return AuditChecklistItem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return updated, nil
	})

	if err != nil {
		return nil, err
	}

	if err := r.loadMatches(ctx, &it); err != nil {
		return nil, err
	}

	r.logger.Info("checklist matches applied",
		"id", it.ID,
		"coverage_score", it.CoverageScore,
		"status", it.Status,
	)
	return &it, nil
}

func (r *repo) setStatus(ctx context.Context, id uuid.UUID, status Status) (*AuditChecklistItem, error) {
	statusQ := `
		UPDATE checklist_items
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + itemColumns

	it, err := repository.QueryOne(ctx, r.db, statusQ, []any{status, id}, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.loadMatches(ctx, &it); err != nil {
		return nil, err
	}

	r.emitter.Emit(ctx, notifications.CreateCommand{
		Title:      fmt.Sprintf("Checklist item %s", status),
		Message:    fmt.Sprintf("%s (%s) marked %s", it.Title, it.Framework, status),
		Severity:   "info",
		EntityKind: "checklist_item",
		EntityID:   it.ID.String(),
	})

	r.logger.Info("checklist item status set", "id", it.ID, "status", it.Status)
	return &it, nil
}

func (r *repo) loadMatches(ctx context.Context, it *AuditChecklistItem) error {
	matchQ := `
		SELECT artifact_id, descriptor, confidence
		FROM checklist_artifacts
		WHERE checklist_item_id = $1
		ORDER BY descriptor`

	matches, err := repository.QueryMany(ctx, r.db, matchQ, []any{it.ID}, scanMatch)
	if err != nil {
		return fmt.Errorf("query match links: %w", err)
	}

	it.AutoArtifacts = matches
	return nil
}
