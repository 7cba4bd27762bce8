package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/attest-hq/attest/pkg/pagination"
	"github.com/attest-hq/attest/pkg/query"
	"github.com/attest-hq/attest/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a notification repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "notifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Emit records a notification. Failures are logged and swallowed so
// emitting never disturbs the transition that triggered it.
func (r *repo) Emit(ctx context.Context, cmd CreateCommand) {
	insertQ := `
		INSERT INTO notifications(title, message, severity, entity_kind, entity_id)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, insertQ,
		cmd.Title, cmd.Message, cmd.Severity, cmd.EntityKind, cmd.EntityID,
	); err != nil {
		r.logger.Error("failed to record notification",
			"title", cmd.Title,
			"entity_kind", cmd.EntityKind,
			"entity_id", cmd.EntityID,
			"error", err,
		)
		return
	}

	r.logger.Info("notification recorded",
		"title", cmd.Title,
		"entity_kind", cmd.EntityKind,
		"entity_id", cmd.EntityID,
	)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Notification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Message")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Notification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	n, err := repository.QueryOne(ctx, r.db, q, args, scanNotification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &n, nil
}

func (r *repo) MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	markQ := `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1
		RETURNING id, title, message, severity, entity_kind, entity_id, read, created_at`

	n, err := repository.QueryOne(ctx, r.db, markQ, []any{id}, scanNotification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.logger.Info("notification read", "id", n.ID)
	return &n, nil
}
