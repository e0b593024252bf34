package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/events"
	"github.com/memopad/memopad-api/internal/store"
)

// MemoService provides memo mutations. Every operation is atomic: it
// either fully applies or leaves prior state untouched. Successful
// mutations emit view-invalidation events for the views they may have
// changed.
type MemoService interface {
	// CreateMemo validates the input, inserts the memo and attaches its
	// tag associations in one transaction, and returns the memo with tags.
	// Tag IDs must reference existing tags; there is no implicit tag
	// creation.
	CreateMemo(ctx context.Context, input domain.CreateMemoInput) (*domain.MemoWithTags, error)

	// UpdateMemo applies a partial update. A supplied TagIDs set replaces
	// the memo's entire association set; the delete and recreate happen in
	// the same transaction as the scalar update.
	UpdateMemo(ctx context.Context, id uuid.UUID, input domain.UpdateMemoInput) (*domain.MemoWithTags, error)

	// SoftDeleteMemo moves the memo to the trash. Idempotent: trashing an
	// already-trashed memo succeeds without changing its deletion time.
	SoftDeleteMemo(ctx context.Context, id uuid.UUID) error

	// RestoreMemo moves the memo out of the trash. A no-op success on an
	// active memo.
	RestoreMemo(ctx context.Context, id uuid.UUID) error

	// PermanentlyDeleteMemo removes the memo and its associations
	// irreversibly.
	PermanentlyDeleteMemo(ctx context.Context, id uuid.UUID) error

	// EmptyTrash permanently deletes every trashed memo in one batch.
	// Succeeds even when the trash is already empty.
	EmptyTrash(ctx context.Context) error

	// TogglePin flips the memo's pin flag and returns the new value. The
	// flip is atomic at the store level, so concurrent toggles cannot
	// lose updates.
	TogglePin(ctx context.Context, id uuid.UUID) (bool, error)
}

// memoServiceImpl implements the MemoService interface.
type memoServiceImpl struct {
	db           *sql.DB
	memoStore    store.MemoStore
	memoTagStore store.MemoTagStore
	emitter      events.EventEmitter
	logger       *slog.Logger
}

// NewMemoService creates a new MemoService. It returns an error if any of
// the required dependencies are nil.
func NewMemoService(
	db *sql.DB,
	memoStore store.MemoStore,
	memoTagStore store.MemoTagStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) (MemoService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if memoStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "memoStore cannot be nil"}
	}
	if memoTagStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "memoTagStore cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "emitter cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}
	return &memoServiceImpl{
		db:           db,
		memoStore:    memoStore,
		memoTagStore: memoTagStore,
		emitter:      emitter,
		logger:       log.With("component", "memo_service"),
	}, nil
}

// CreateMemo implements MemoService.CreateMemo.
func (s *memoServiceImpl) CreateMemo(
	ctx context.Context,
	input domain.CreateMemoInput,
) (*domain.MemoWithTags, error) {
	if fields := input.Validate(); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	memo := domain.NewMemo(input)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.memoStore.WithTx(tx).Create(ctx, memo); err != nil {
			return err
		}
		return s.memoTagStore.WithTx(tx).CreateAll(ctx, memo.ID, input.TagIDs)
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			// A tag ID that doesn't resolve is the user's mistake, not a
			// storage failure.
			fields := domain.FieldErrors{}
			fields.Add("tagIds", "one or more tags do not exist")
			return nil, domain.NewValidationError(fields)
		}
		s.logger.Error("failed to create memo", "error", err, "memo_id", memo.ID)
		return nil, NewServiceError("create_memo", "failed to save memo", err)
	}

	s.logger.Info("memo created", "memo_id", memo.ID, "tag_count", len(input.TagIDs))
	s.invalidate(ctx, events.ViewMemoList, events.ViewTagList)

	return s.withTags(ctx, memo)
}

// UpdateMemo implements MemoService.UpdateMemo.
func (s *memoServiceImpl) UpdateMemo(
	ctx context.Context,
	id uuid.UUID,
	input domain.UpdateMemoInput,
) (*domain.MemoWithTags, error) {
	if fields := input.Validate(); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	var memo *domain.Memo
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		memoStore := s.memoStore.WithTx(tx)

		var err error
		memo, err = memoStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		memo.Apply(input)
		if err := memoStore.Update(ctx, memo); err != nil {
			return err
		}

		if input.TagIDsSet {
			memoTagStore := s.memoTagStore.WithTx(tx)
			if err := memoTagStore.DeleteAllForMemo(ctx, id); err != nil {
				return err
			}
			if err := memoTagStore.CreateAll(ctx, id, input.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			fields := domain.FieldErrors{}
			fields.Add("tagIds", "one or more tags do not exist")
			return nil, domain.NewValidationError(fields)
		}
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update memo", "error", err, "memo_id", id)
		}
		return nil, NewServiceError("update_memo", "failed to update memo", err)
	}

	s.logger.Info("memo updated", "memo_id", id, "tags_replaced", input.TagIDsSet)
	views := []string{events.ViewMemoList, events.ViewMemoDetail(id)}
	if input.TagIDsSet {
		views = append(views, events.ViewTagList)
	}
	s.invalidate(ctx, views...)

	return s.withTags(ctx, memo)
}

// SoftDeleteMemo implements MemoService.SoftDeleteMemo.
func (s *memoServiceImpl) SoftDeleteMemo(ctx context.Context, id uuid.UUID) error {
	if err := s.memoStore.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to soft delete memo", "error", err, "memo_id", id)
		}
		return NewServiceError("soft_delete_memo", "failed to move memo to trash", err)
	}

	s.logger.Info("memo moved to trash", "memo_id", id)
	s.invalidate(ctx,
		events.ViewMemoList, events.ViewMemoDetail(id), events.ViewTrash, events.ViewTagList)
	return nil
}

// RestoreMemo implements MemoService.RestoreMemo.
func (s *memoServiceImpl) RestoreMemo(ctx context.Context, id uuid.UUID) error {
	if err := s.memoStore.Restore(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to restore memo", "error", err, "memo_id", id)
		}
		return NewServiceError("restore_memo", "failed to restore memo", err)
	}

	s.logger.Info("memo restored", "memo_id", id)
	s.invalidate(ctx,
		events.ViewMemoList, events.ViewMemoDetail(id), events.ViewTrash, events.ViewTagList)
	return nil
}

// PermanentlyDeleteMemo implements MemoService.PermanentlyDeleteMemo.
func (s *memoServiceImpl) PermanentlyDeleteMemo(ctx context.Context, id uuid.UUID) error {
	if err := s.memoStore.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to permanently delete memo", "error", err, "memo_id", id)
		}
		return NewServiceError("permanently_delete_memo", "failed to delete memo", err)
	}

	s.logger.Info("memo permanently deleted", "memo_id", id)
	s.invalidate(ctx, events.ViewTrash, events.ViewMemoDetail(id))
	return nil
}

// EmptyTrash implements MemoService.EmptyTrash.
func (s *memoServiceImpl) EmptyTrash(ctx context.Context) error {
	deleted, err := s.memoStore.DeleteTrashed(ctx)
	if err != nil {
		s.logger.Error("failed to empty trash", "error", err)
		return NewServiceError("empty_trash", "failed to empty trash", err)
	}

	s.logger.Info("trash emptied", "deleted", deleted)
	s.invalidate(ctx, events.ViewTrash)
	return nil
}

// TogglePin implements MemoService.TogglePin.
func (s *memoServiceImpl) TogglePin(ctx context.Context, id uuid.UUID) (bool, error) {
	pinned, err := s.memoStore.TogglePin(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to toggle pin", "error", err, "memo_id", id)
		}
		return false, NewServiceError("toggle_pin", "failed to toggle pin", err)
	}

	s.logger.Info("memo pin toggled", "memo_id", id, "pinned", pinned)
	s.invalidate(ctx, events.ViewMemoList, events.ViewMemoDetail(id))
	return pinned, nil
}

// invalidate emits a view-invalidation event. The mutation has already
// committed by the time this runs, so a failing handler is logged rather
// than turned into an operation failure.
func (s *memoServiceImpl) invalidate(ctx context.Context, views ...string) {
	event := events.NewViewInvalidationEvent(views...)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("view invalidation handler failed",
			"error", err, "event_id", event.ID, "views", views)
	}
}

// withTags resolves the memo's tag list after a committed mutation.
func (s *memoServiceImpl) withTags(ctx context.Context, memo *domain.Memo) (*domain.MemoWithTags, error) {
	tagsByMemo, err := s.memoTagStore.ListTagsForMemos(ctx, []uuid.UUID{memo.ID})
	if err != nil {
		s.logger.Error("failed to resolve tags after mutation", "error", err, "memo_id", memo.ID)
		return nil, NewServiceError("resolve_tags", "failed to resolve memo tags", err)
	}
	tags := tagsByMemo[memo.ID]
	if tags == nil {
		tags = []domain.Tag{}
	}
	return &domain.MemoWithTags{Memo: *memo, Tags: tags}, nil
}
