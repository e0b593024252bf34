package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/platform/logger"
	"github.com/memopad/memopad-api/internal/store"
)

// TagStore implements the store.TagStore interface using a PostgreSQL
// database as the storage backend.
type TagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTagStore creates a new PostgreSQL implementation of the TagStore
// interface. If logger is nil, the default logger is used.
func NewTagStore(db store.DBTX, log *slog.Logger) *TagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TagStore{
		db:     db,
		logger: log.With(slog.String("component", "tag_store")),
	}
}

// Ensure TagStore implements store.TagStore.
var _ store.TagStore = (*TagStore)(nil)

// WithTx returns a new TagStore bound to the provided transaction.
func (s *TagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &TagStore{db: tx, logger: s.logger}
}

// Create implements store.TagStore.Create. A unique violation on the name
// column maps to ErrTagNameExists, which closes the race between the
// service-level uniqueness check and the insert.
func (s *TagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tags (id, name, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		tag.ID, tag.Name, tag.Color, tag.CreatedAt, tag.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrTagNameExists, tag.Name)
		}
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}

	log.Debug("tag created",
		slog.String("tag_id", tag.ID.String()),
		slog.String("name", tag.Name))
	return nil
}

// GetByID implements store.TagStore.GetByID.
func (s *TagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	query := `SELECT id, name, color, created_at, updated_at FROM tags WHERE id = $1`

	var tag domain.Tag
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		return nil, MapError(err)
	}
	return &tag, nil
}

// FindByName implements store.TagStore.FindByName. The match is exact and
// case-sensitive.
func (s *TagStore) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	query := `SELECT id, name, color, created_at, updated_at FROM tags WHERE name = $1`

	var tag domain.Tag
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		return nil, MapError(err)
	}
	return &tag, nil
}

// Update implements store.TagStore.Update.
func (s *TagStore) Update(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tags
		SET name = $1, color = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query,
		tag.Name, tag.Color, tag.UpdatedAt, tag.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %q", store.ErrTagNameExists, tag.Name)
		}
		log.Error("failed to update tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}

// Delete implements store.TagStore.Delete. Join-table rows cascade; the
// memos that carried the tag stay as they are.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTagNotFound)
}

// ListWithCounts implements store.TagStore.ListWithCounts. The count only
// considers active memos; trashed memos drop out of the aggregate the
// moment they are soft-deleted.
func (s *TagStore) ListWithCounts(ctx context.Context) ([]*domain.TagWithCount, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.name, t.color, t.created_at, t.updated_at,
		       COUNT(m.id) FILTER (WHERE m.deleted_at IS NULL) AS memo_count
		FROM tags t
		LEFT JOIN memo_tags mt ON mt.tag_id = t.id
		LEFT JOIN memos m ON m.id = mt.memo_id
		GROUP BY t.id, t.name, t.color, t.created_at, t.updated_at
		ORDER BY t.name ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	tags := []*domain.TagWithCount{}
	for rows.Next() {
		var tag domain.TagWithCount
		err := rows.Scan(
			&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt,
			&tag.MemoCount)
		if err != nil {
			log.Error("failed to scan tag row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}
