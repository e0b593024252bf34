package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/memopad/memopad-api/internal/domain"
)

// MemoStore defines the interface for memo data persistence.
type MemoStore interface {
	// Create saves a new memo to the store. Tag associations are managed
	// separately through MemoTagStore.
	Create(ctx context.Context, memo *domain.Memo) error

	// GetByID retrieves a memo by its unique ID regardless of soft-delete
	// state. Returns ErrMemoNotFound if the memo does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Memo, error)

	// Update saves the scalar fields of an existing memo.
	// Returns ErrMemoNotFound if the memo does not exist.
	Update(ctx context.Context, memo *domain.Memo) error

	// List returns one page of active memos matching the normalized query,
	// plus the total number of matching rows. Soft-deleted memos are always
	// excluded. Rows are ordered pinned-first, then by the requested sort
	// field and order, then by id ascending as a deterministic tie-break.
	List(ctx context.Context, query domain.MemoQuery) ([]*domain.Memo, int, error)

	// ListTrashed returns all soft-deleted memos ordered by deletion time
	// descending.
	ListTrashed(ctx context.Context) ([]*domain.Memo, error)

	// CountTrashed returns the number of soft-deleted memos.
	CountTrashed(ctx context.Context) (int, error)

	// SoftDelete marks the memo as deleted at the given time. Calling it on
	// an already-trashed memo succeeds and leaves the original deletion
	// timestamp unchanged. Returns ErrMemoNotFound if the memo does not
	// exist.
	SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error

	// Restore clears the memo's deletion timestamp. Calling it on an active
	// memo succeeds as a no-op. Returns ErrMemoNotFound if the memo does
	// not exist.
	Restore(ctx context.Context, id uuid.UUID) error

	// TogglePin atomically flips the memo's pin flag at the store level and
	// returns the new value. Returns ErrMemoNotFound if the memo does not
	// exist.
	TogglePin(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete permanently removes the memo. Tag associations cascade.
	// Returns ErrMemoNotFound if the memo does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteTrashed permanently removes every soft-deleted memo in one
	// batch and returns the number of rows removed. An empty trash is not
	// an error.
	DeleteTrashed(ctx context.Context) (int64, error)

	// WithTx returns a new MemoStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) MemoStore
}
