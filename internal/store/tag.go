package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/memopad/memopad-api/internal/domain"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag. Returns ErrTagNameExists if a tag with the
	// same name already exists.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique ID.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// FindByName retrieves a tag by its exact (case-sensitive) name.
	// Returns ErrTagNotFound if no tag has that name.
	FindByName(ctx context.Context, name string) (*domain.Tag, error)

	// Update saves changes to an existing tag. Returns ErrTagNotFound if
	// the tag does not exist and ErrTagNameExists on a name conflict.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes the tag. Its memo associations cascade; the memos
	// themselves are untouched. Returns ErrTagNotFound if the tag does not
	// exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListWithCounts returns all tags ordered by name ascending, each
	// annotated with its active (non-trashed) memo count.
	ListWithCounts(ctx context.Context) ([]*domain.TagWithCount, error)

	// WithTx returns a new TagStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TagStore
}

// MemoTagStore manages the memo-tag join table. Every association change
// and every tag-list fetch is an explicit call here; nothing is loaded
// lazily.
type MemoTagStore interface {
	// CreateAll attaches the given tags to the memo. All tag IDs must
	// reference existing tags; a missing tag surfaces as ErrInvalidEntity.
	CreateAll(ctx context.Context, memoID uuid.UUID, tagIDs []uuid.UUID) error

	// DeleteAllForMemo removes every association of the memo. Removing
	// from a memo with no associations is not an error.
	DeleteAllForMemo(ctx context.Context, memoID uuid.UUID) error

	// ListTagsForMemos resolves the full tag lists for the given memos in
	// one query, keyed by memo ID. Memos without tags are absent from the
	// result map. Tags are ordered by name ascending within each memo.
	ListTagsForMemos(ctx context.Context, memoIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error)

	// WithTx returns a new MemoTagStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) MemoTagStore
}
