package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/platform/logger"
	"github.com/memopad/memopad-api/internal/store"
)

// MemoTagStore implements store.MemoTagStore over the memo_tags join
// table.
type MemoTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewMemoTagStore creates a new PostgreSQL implementation of the
// MemoTagStore interface. If logger is nil, the default logger is used.
func NewMemoTagStore(db store.DBTX, log *slog.Logger) *MemoTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &MemoTagStore{
		db:     db,
		logger: log.With(slog.String("component", "memo_tag_store")),
	}
}

// Ensure MemoTagStore implements store.MemoTagStore.
var _ store.MemoTagStore = (*MemoTagStore)(nil)

// WithTx returns a new MemoTagStore bound to the provided transaction.
func (s *MemoTagStore) WithTx(tx *sql.Tx) store.MemoTagStore {
	return &MemoTagStore{db: tx, logger: s.logger}
}

// CreateAll implements store.MemoTagStore.CreateAll with a single
// multi-row insert. A foreign key violation means one of the tag IDs (or
// the memo) does not exist and maps to ErrInvalidEntity.
func (s *MemoTagStore) CreateAll(ctx context.Context, memoID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	placeholders := make([]string, 0, len(tagIDs))
	args := make([]any, 0, len(tagIDs)+1)
	args = append(args, memoID)
	for i, tagID := range tagIDs {
		placeholders = append(placeholders, fmt.Sprintf("($1, $%d)", i+2))
		args = append(args, tagID)
	}

	query := "INSERT INTO memo_tags (memo_id, tag_id) VALUES " + strings.Join(placeholders, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: tag association references a missing row: %v",
				store.ErrInvalidEntity, err)
		}
		log.Error("failed to create memo tag associations",
			slog.String("error", err.Error()),
			slog.String("memo_id", memoID.String()),
			slog.Int("tag_count", len(tagIDs)))
		return MapError(err)
	}

	log.Debug("memo tag associations created",
		slog.String("memo_id", memoID.String()),
		slog.Int("tag_count", len(tagIDs)))
	return nil
}

// DeleteAllForMemo implements store.MemoTagStore.DeleteAllForMemo.
func (s *MemoTagStore) DeleteAllForMemo(ctx context.Context, memoID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, "DELETE FROM memo_tags WHERE memo_id = $1", memoID)
	if err != nil {
		log.Error("failed to delete memo tag associations",
			slog.String("error", err.Error()),
			slog.String("memo_id", memoID.String()))
		return MapError(err)
	}
	return nil
}

// ListTagsForMemos implements store.MemoTagStore.ListTagsForMemos. One
// query resolves the tag lists for a whole page of memos.
func (s *MemoTagStore) ListTagsForMemos(
	ctx context.Context,
	memoIDs []uuid.UUID,
) (map[uuid.UUID][]domain.Tag, error) {
	result := make(map[uuid.UUID][]domain.Tag, len(memoIDs))
	if len(memoIDs) == 0 {
		return result, nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids := make([]string, len(memoIDs))
	for i, id := range memoIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT mt.memo_id, t.id, t.name, t.color, t.created_at, t.updated_at
		FROM memo_tags mt
		JOIN tags t ON t.id = mt.tag_id
		WHERE mt.memo_id = ANY($1::uuid[])
		ORDER BY t.name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		log.Error("failed to list tags for memos", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	for rows.Next() {
		var memoID uuid.UUID
		var tag domain.Tag
		err := rows.Scan(&memoID, &tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt)
		if err != nil {
			log.Error("failed to scan memo tag row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		result[memoID] = append(result[memoID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}
