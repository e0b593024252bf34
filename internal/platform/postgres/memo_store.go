package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/platform/logger"
	"github.com/memopad/memopad-api/internal/store"
)

// memoColumns is the scan order shared by every memo SELECT in this file.
const memoColumns = "id, title, content, is_pinned, created_at, updated_at, deleted_at"

// MemoStore implements the store.MemoStore interface using a PostgreSQL
// database as the storage backend.
type MemoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewMemoStore creates a new PostgreSQL implementation of the MemoStore
// interface. The database handle is initialized and managed by the caller.
// If logger is nil, the default logger is used.
func NewMemoStore(db store.DBTX, log *slog.Logger) *MemoStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &MemoStore{
		db:     db,
		logger: log.With(slog.String("component", "memo_store")),
	}
}

// Ensure MemoStore implements store.MemoStore.
var _ store.MemoStore = (*MemoStore)(nil)

// WithTx returns a new MemoStore bound to the provided transaction.
func (s *MemoStore) WithTx(tx *sql.Tx) store.MemoStore {
	return &MemoStore{db: tx, logger: s.logger}
}

// Create implements store.MemoStore.Create.
func (s *MemoStore) Create(ctx context.Context, memo *domain.Memo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO memos (id, title, content, is_pinned, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		memo.ID, memo.Title, memo.Content, memo.IsPinned,
		memo.CreatedAt, memo.UpdatedAt, memo.DeletedAt,
	)
	if err != nil {
		log.Error("failed to create memo",
			slog.String("error", err.Error()),
			slog.String("memo_id", memo.ID.String()))
		return MapError(err)
	}

	log.Debug("memo created", slog.String("memo_id", memo.ID.String()))
	return nil
}

// GetByID implements store.MemoStore.GetByID. The memo is returned
// regardless of soft-delete state; callers decide how trashed memos are
// surfaced.
func (s *MemoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM memos WHERE id = $1`, memoColumns)

	memo, err := scanMemo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMemoNotFound
		}
		log.Error("failed to get memo by ID",
			slog.String("error", err.Error()),
			slog.String("memo_id", id.String()))
		return nil, MapError(err)
	}
	return memo, nil
}

// Update implements store.MemoStore.Update. Only scalar fields are
// written; tag associations go through MemoTagStore.
func (s *MemoStore) Update(ctx context.Context, memo *domain.Memo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE memos
		SET title = $1, content = $2, is_pinned = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		memo.Title, memo.Content, memo.IsPinned, memo.UpdatedAt, memo.ID,
	)
	if err != nil {
		log.Error("failed to update memo",
			slog.String("error", err.Error()),
			slog.String("memo_id", memo.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMemoNotFound)
}

// List implements store.MemoStore.List. The query is expected to be
// normalized; the sort field and order are mapped through fixed tables so
// no request value ever reaches the SQL text.
func (s *MemoStore) List(ctx context.Context, q domain.MemoQuery) ([]*domain.Memo, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildListFilter(q)

	countQuery := "SELECT COUNT(*) FROM memos " + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count memos", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	listQuery := fmt.Sprintf(
		"SELECT %s FROM memos %s ORDER BY is_pinned DESC, %s %s, id ASC LIMIT $%d OFFSET $%d",
		memoColumns, where, sortColumn(q.Sort), sortDirection(q.Order),
		len(args)+1, len(args)+2,
	)
	args = append(args, q.PageSize, q.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		log.Error("failed to list memos", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer closeRows(rows, log)

	memos, err := scanMemos(rows)
	if err != nil {
		log.Error("failed to scan memo rows", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	log.Debug("listed memos",
		slog.Int("count", len(memos)),
		slog.Int("total", total),
		slog.Int("page", q.Page))
	return memos, total, nil
}

// ListTrashed implements store.MemoStore.ListTrashed.
func (s *MemoStore) ListTrashed(ctx context.Context) ([]*domain.Memo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(
		"SELECT %s FROM memos WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC, id ASC",
		memoColumns,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list trashed memos", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	memos, err := scanMemos(rows)
	if err != nil {
		return nil, MapError(err)
	}
	return memos, nil
}

// CountTrashed implements store.MemoStore.CountTrashed.
func (s *MemoStore) CountTrashed(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memos WHERE deleted_at IS NOT NULL").Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// SoftDelete implements store.MemoStore.SoftDelete. COALESCE keeps the
// original deletion timestamp, which makes a repeated call a no-op
// success instead of re-ordering the trash.
func (s *MemoStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		"UPDATE memos SET deleted_at = COALESCE(deleted_at, $1) WHERE id = $2",
		deletedAt, id,
	)
	if err != nil {
		log.Error("failed to soft delete memo",
			slog.String("error", err.Error()),
			slog.String("memo_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMemoNotFound)
}

// Restore implements store.MemoStore.Restore.
func (s *MemoStore) Restore(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		"UPDATE memos SET deleted_at = NULL WHERE id = $1", id)
	if err != nil {
		log.Error("failed to restore memo",
			slog.String("error", err.Error()),
			slog.String("memo_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMemoNotFound)
}

// TogglePin implements store.MemoStore.TogglePin. The flip happens in a
// single UPDATE so concurrent toggles cannot lose each other's writes.
func (s *MemoStore) TogglePin(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var pinned bool
	err := s.db.QueryRowContext(ctx,
		"UPDATE memos SET is_pinned = NOT is_pinned, updated_at = $1 WHERE id = $2 RETURNING is_pinned",
		time.Now().UTC(), id,
	).Scan(&pinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, store.ErrMemoNotFound
		}
		log.Error("failed to toggle pin",
			slog.String("error", err.Error()),
			slog.String("memo_id", id.String()))
		return false, MapError(err)
	}
	return pinned, nil
}

// Delete implements store.MemoStore.Delete. Associations cascade via the
// join table's foreign key.
func (s *MemoStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM memos WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete memo",
			slog.String("error", err.Error()),
			slog.String("memo_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrMemoNotFound)
}

// DeleteTrashed implements store.MemoStore.DeleteTrashed.
func (s *MemoStore) DeleteTrashed(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM memos WHERE deleted_at IS NOT NULL")
	if err != nil {
		log.Error("failed to empty trash", slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	log.Info("trash emptied", slog.Int64("deleted", deleted))
	return deleted, nil
}

// buildListFilter renders the WHERE clause for List from a normalized
// query, returning the clause text and its positional arguments.
func buildListFilter(q domain.MemoQuery) (string, []any) {
	clauses := []string{"deleted_at IS NULL"}
	var args []any

	if q.Search != "" {
		pattern := "%" + escapeLikePattern(q.Search) + "%"
		args = append(args, pattern)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(title ILIKE $%d ESCAPE '\' OR content ILIKE $%d ESCAPE '\')`, n, n))
	}
	if q.TagID != uuid.Nil {
		args = append(args, q.TagID)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM memo_tags mt WHERE mt.memo_id = memos.id AND mt.tag_id = $%d)",
			len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLikePattern escapes the LIKE metacharacters in a user-supplied
// search term so it matches literally.
func escapeLikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// sortColumn maps a domain sort field to its column. Unknown values map
// to updated_at, mirroring domain.MemoQuery.Normalize.
func sortColumn(field domain.SortField) string {
	switch field {
	case domain.SortByCreatedAt:
		return "created_at"
	case domain.SortByTitle:
		return "title"
	default:
		return "updated_at"
	}
}

// sortDirection maps a domain sort order to SQL.
func sortDirection(order domain.SortOrder) string {
	if order == domain.SortAsc {
		return "ASC"
	}
	return "DESC"
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (*domain.Memo, error) {
	var memo domain.Memo
	var deletedAt sql.NullTime
	err := row.Scan(
		&memo.ID, &memo.Title, &memo.Content, &memo.IsPinned,
		&memo.CreatedAt, &memo.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		memo.DeletedAt = &t
	}
	return &memo, nil
}

func scanMemos(rows *sql.Rows) ([]*domain.Memo, error) {
	memos := []*domain.Memo{}
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, memo)
	}
	return memos, rows.Err()
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
