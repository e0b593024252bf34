package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMemoServiceHarness wires a MemoService over in-memory fakes. The
// sqlmock handle only serves the transaction begin/commit/rollback calls;
// all data access goes through the fakes.
func newMemoServiceHarness(t *testing.T, tags ...domain.Tag) (MemoService, *fakeMemoStore, *fakeMemoTagStore, *recordingEmitter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	memoStore := newFakeMemoStore()
	memoTagStore := newFakeMemoTagStore(tags...)
	emitter := &recordingEmitter{}

	svc, err := NewMemoService(db, memoStore, memoTagStore, emitter, testLogger())
	require.NoError(t, err)
	return svc, memoStore, memoTagStore, emitter, mock
}

func TestNewMemoService(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	memoStore := newFakeMemoStore()
	memoTagStore := newFakeMemoTagStore()
	emitter := &recordingEmitter{}

	t.Run("valid dependencies", func(t *testing.T) {
		svc, err := NewMemoService(db, memoStore, memoTagStore, emitter, testLogger())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("nil db", func(t *testing.T) {
		_, err := NewMemoService(nil, memoStore, memoTagStore, emitter, testLogger())
		assert.Error(t, err)
	})

	t.Run("nil memo store", func(t *testing.T) {
		_, err := NewMemoService(db, nil, memoTagStore, emitter, testLogger())
		assert.Error(t, err)
	})

	t.Run("nil emitter", func(t *testing.T) {
		_, err := NewMemoService(db, memoStore, memoTagStore, nil, testLogger())
		assert.Error(t, err)
	})
}

func TestCreateMemo(t *testing.T) {
	ctx := context.Background()
	work := domain.Tag{ID: uuid.New(), Name: "work", Color: "#FF0000"}
	home := domain.Tag{ID: uuid.New(), Name: "home", Color: "#00FF00"}

	t.Run("creates memo with tags", func(t *testing.T) {
		svc, memoStore, _, emitter, mock := newMemoServiceHarness(t, work, home)
		mock.ExpectBegin()
		mock.ExpectCommit()

		result, err := svc.CreateMemo(ctx, domain.CreateMemoInput{
			Title:   "Groceries",
			Content: "milk, eggs",
			TagIDs:  []uuid.UUID{work.ID, home.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, "Groceries", result.Title)
		assert.False(t, result.IsPinned)
		assert.Nil(t, result.DeletedAt)
		require.Len(t, result.Tags, 2)
		assert.Equal(t, "home", result.Tags[0].Name, "tags sorted by name")

		stored, err := memoStore.GetByID(ctx, result.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", stored.Title)

		assert.Contains(t, emitter.views(), events.ViewMemoList)
		assert.Contains(t, emitter.views(), events.ViewTagList)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates pinned memo without tags", func(t *testing.T) {
		svc, _, _, _, mock := newMemoServiceHarness(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		result, err := svc.CreateMemo(ctx, domain.CreateMemoInput{Title: "Idea", IsPinned: true})
		require.NoError(t, err)
		assert.True(t, result.IsPinned)
		assert.NotNil(t, result.Tags)
		assert.Empty(t, result.Tags)
	})

	t.Run("rejects empty title without touching storage", func(t *testing.T) {
		svc, memoStore, _, emitter, _ := newMemoServiceHarness(t)

		_, err := svc.CreateMemo(ctx, domain.CreateMemoInput{Title: ""})
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "title")
		assert.Empty(t, memoStore.memos)
		assert.Empty(t, emitter.events)
	})

	t.Run("unknown tag id becomes a field error", func(t *testing.T) {
		svc, _, _, emitter, mock := newMemoServiceHarness(t, work)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.CreateMemo(ctx, domain.CreateMemoInput{
			Title:  "Orphan",
			TagIDs: []uuid.UUID{uuid.New()},
		})
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "tagIds")
		assert.Empty(t, emitter.events, "failed create must not invalidate views")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateMemo(t *testing.T) {
	ctx := context.Background()
	work := domain.Tag{ID: uuid.New(), Name: "work", Color: "#FF0000"}
	home := domain.Tag{ID: uuid.New(), Name: "home", Color: "#00FF00"}

	seed := func(t *testing.T, memoStore *fakeMemoStore) *domain.Memo {
		t.Helper()
		memo := domain.NewMemo(domain.CreateMemoInput{Title: "Before", Content: "old"})
		memoStore.put(memo)
		return memo
	}

	t.Run("partial update leaves absent fields alone", func(t *testing.T) {
		svc, memoStore, _, _, mock := newMemoServiceHarness(t)
		memo := seed(t, memoStore)
		mock.ExpectBegin()
		mock.ExpectCommit()

		title := "After"
		result, err := svc.UpdateMemo(ctx, memo.ID, domain.UpdateMemoInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "After", result.Title)
		assert.Equal(t, "old", result.Content)
		assert.True(t, result.UpdatedAt.After(memo.UpdatedAt) || result.UpdatedAt.Equal(memo.UpdatedAt))
	})

	t.Run("tag set replaces all associations", func(t *testing.T) {
		svc, memoStore, memoTagStore, emitter, mock := newMemoServiceHarness(t, work, home)
		memo := seed(t, memoStore)
		require.NoError(t, memoTagStore.CreateAll(ctx, memo.ID, []uuid.UUID{work.ID}))
		mock.ExpectBegin()
		mock.ExpectCommit()

		result, err := svc.UpdateMemo(ctx, memo.ID, domain.UpdateMemoInput{
			TagIDs:    []uuid.UUID{home.ID},
			TagIDsSet: true,
		})
		require.NoError(t, err)
		require.Len(t, result.Tags, 1)
		assert.Equal(t, "home", result.Tags[0].Name)
		assert.Equal(t, []uuid.UUID{home.ID}, memoTagStore.tagIDsFor(memo.ID))
		assert.Contains(t, emitter.views(), events.ViewTagList)
	})

	t.Run("explicit empty tag set clears associations", func(t *testing.T) {
		svc, memoStore, memoTagStore, _, mock := newMemoServiceHarness(t, work)
		memo := seed(t, memoStore)
		require.NoError(t, memoTagStore.CreateAll(ctx, memo.ID, []uuid.UUID{work.ID}))
		mock.ExpectBegin()
		mock.ExpectCommit()

		result, err := svc.UpdateMemo(ctx, memo.ID, domain.UpdateMemoInput{
			TagIDs:    []uuid.UUID{},
			TagIDsSet: true,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Tags)
		assert.Empty(t, memoTagStore.tagIDsFor(memo.ID))
	})

	t.Run("nil tag set leaves associations untouched", func(t *testing.T) {
		svc, memoStore, memoTagStore, _, mock := newMemoServiceHarness(t, work)
		memo := seed(t, memoStore)
		require.NoError(t, memoTagStore.CreateAll(ctx, memo.ID, []uuid.UUID{work.ID}))
		mock.ExpectBegin()
		mock.ExpectCommit()

		content := "new content"
		result, err := svc.UpdateMemo(ctx, memo.ID, domain.UpdateMemoInput{Content: &content})
		require.NoError(t, err)
		require.Len(t, result.Tags, 1)
		assert.Equal(t, work.ID, result.Tags[0].ID)
	})

	t.Run("missing memo", func(t *testing.T) {
		svc, _, _, emitter, mock := newMemoServiceHarness(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		title := "x"
		_, err := svc.UpdateMemo(ctx, uuid.New(), domain.UpdateMemoInput{Title: &title})
		assert.ErrorIs(t, err, ErrMemoNotFound)
		assert.Empty(t, emitter.events)
	})

	t.Run("invalid title fails before the transaction", func(t *testing.T) {
		svc, memoStore, _, _, _ := newMemoServiceHarness(t)
		memo := seed(t, memoStore)

		empty := ""
		_, err := svc.UpdateMemo(ctx, memo.ID, domain.UpdateMemoInput{Title: &empty})
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "title")
	})
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete is idempotent", func(t *testing.T) {
		svc, memoStore, _, _, _ := newMemoServiceHarness(t)
		memo := domain.NewMemo(domain.CreateMemoInput{Title: "Trash me"})
		memoStore.put(memo)

		require.NoError(t, svc.SoftDeleteMemo(ctx, memo.ID))
		first, err := memoStore.GetByID(ctx, memo.ID)
		require.NoError(t, err)
		require.NotNil(t, first.DeletedAt)

		time.Sleep(5 * time.Millisecond)
		require.NoError(t, svc.SoftDeleteMemo(ctx, memo.ID))
		second, err := memoStore.GetByID(ctx, memo.ID)
		require.NoError(t, err)
		assert.Equal(t, *first.DeletedAt, *second.DeletedAt,
			"repeat delete keeps the original trash timestamp")
	})

	t.Run("soft delete missing memo", func(t *testing.T) {
		svc, _, _, _, _ := newMemoServiceHarness(t)
		err := svc.SoftDeleteMemo(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrMemoNotFound)
	})

	t.Run("restore clears the deletion mark", func(t *testing.T) {
		svc, memoStore, _, emitter, _ := newMemoServiceHarness(t)
		memo := domain.NewMemo(domain.CreateMemoInput{Title: "Back again"})
		memoStore.put(memo)

		require.NoError(t, svc.SoftDeleteMemo(ctx, memo.ID))
		require.NoError(t, svc.RestoreMemo(ctx, memo.ID))

		restored, err := memoStore.GetByID(ctx, memo.ID)
		require.NoError(t, err)
		assert.Nil(t, restored.DeletedAt)
		assert.Contains(t, emitter.views(), events.ViewTrash)
	})

	t.Run("restore missing memo", func(t *testing.T) {
		svc, _, _, _, _ := newMemoServiceHarness(t)
		err := svc.RestoreMemo(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrMemoNotFound)
	})
}

func TestPermanentDeleteAndEmptyTrash(t *testing.T) {
	ctx := context.Background()

	t.Run("permanent delete removes the memo", func(t *testing.T) {
		svc, memoStore, _, _, _ := newMemoServiceHarness(t)
		memo := domain.NewMemo(domain.CreateMemoInput{Title: "Gone"})
		memoStore.put(memo)

		require.NoError(t, svc.PermanentlyDeleteMemo(ctx, memo.ID))
		_, err := memoStore.GetByID(ctx, memo.ID)
		assert.ErrorIs(t, err, ErrMemoNotFound)
	})

	t.Run("empty trash removes only trashed memos", func(t *testing.T) {
		svc, memoStore, _, emitter, _ := newMemoServiceHarness(t)
		keep := domain.NewMemo(domain.CreateMemoInput{Title: "Keep"})
		toss := domain.NewMemo(domain.CreateMemoInput{Title: "Toss"})
		memoStore.put(keep)
		memoStore.put(toss)
		require.NoError(t, svc.SoftDeleteMemo(ctx, toss.ID))

		require.NoError(t, svc.EmptyTrash(ctx))

		_, err := memoStore.GetByID(ctx, keep.ID)
		assert.NoError(t, err)
		_, err = memoStore.GetByID(ctx, toss.ID)
		assert.ErrorIs(t, err, ErrMemoNotFound)
		assert.Contains(t, emitter.views(), events.ViewTrash)
	})

	t.Run("empty trash on empty trash succeeds", func(t *testing.T) {
		svc, _, _, _, _ := newMemoServiceHarness(t)
		assert.NoError(t, svc.EmptyTrash(ctx))
	})
}

func TestTogglePin(t *testing.T) {
	ctx := context.Background()

	t.Run("double toggle restores the original state", func(t *testing.T) {
		svc, memoStore, _, _, _ := newMemoServiceHarness(t)
		memo := domain.NewMemo(domain.CreateMemoInput{Title: "Pin me"})
		memoStore.put(memo)

		pinned, err := svc.TogglePin(ctx, memo.ID)
		require.NoError(t, err)
		assert.True(t, pinned)

		pinned, err = svc.TogglePin(ctx, memo.ID)
		require.NoError(t, err)
		assert.False(t, pinned)
	})

	t.Run("missing memo", func(t *testing.T) {
		svc, _, _, _, _ := newMemoServiceHarness(t)
		_, err := svc.TogglePin(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrMemoNotFound)
	})

	t.Run("emitter failure does not fail the toggle", func(t *testing.T) {
		svc, memoStore, _, emitter, _ := newMemoServiceHarness(t)
		emitter.err = assert.AnError
		memo := domain.NewMemo(domain.CreateMemoInput{Title: "Pin me"})
		memoStore.put(memo)

		pinned, err := svc.TogglePin(ctx, memo.ID)
		require.NoError(t, err)
		assert.True(t, pinned)
	})
}
