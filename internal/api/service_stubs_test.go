package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/service"
)

// stubQueryService implements service.MemoQueryService with canned
// results. Each call records the arguments it received.
type stubQueryService struct {
	queryResult *domain.PaginatedMemos
	memo        *domain.MemoWithTags
	trashed     []*domain.MemoWithTags
	trashCount  int
	err         error

	lastQuery domain.MemoQuery
	lastID    uuid.UUID
}

func (s *stubQueryService) QueryMemos(
	ctx context.Context,
	query domain.MemoQuery,
) (*domain.PaginatedMemos, error) {
	s.lastQuery = query
	return s.queryResult, s.err
}

func (s *stubQueryService) GetMemo(ctx context.Context, id uuid.UUID) (*domain.MemoWithTags, error) {
	s.lastID = id
	return s.memo, s.err
}

func (s *stubQueryService) ListTrashedMemos(ctx context.Context) ([]*domain.MemoWithTags, error) {
	return s.trashed, s.err
}

func (s *stubQueryService) CountTrashedMemos(ctx context.Context) (int, error) {
	return s.trashCount, s.err
}

var _ service.MemoQueryService = (*stubQueryService)(nil)

// stubMemoService implements service.MemoService with canned results.
type stubMemoService struct {
	memo   *domain.MemoWithTags
	pinned bool
	err    error

	lastID     uuid.UUID
	lastCreate domain.CreateMemoInput
	lastUpdate domain.UpdateMemoInput
	calls      []string
}

func (s *stubMemoService) CreateMemo(
	ctx context.Context,
	input domain.CreateMemoInput,
) (*domain.MemoWithTags, error) {
	s.calls = append(s.calls, "create")
	s.lastCreate = input
	return s.memo, s.err
}

func (s *stubMemoService) UpdateMemo(
	ctx context.Context,
	id uuid.UUID,
	input domain.UpdateMemoInput,
) (*domain.MemoWithTags, error) {
	s.calls = append(s.calls, "update")
	s.lastID = id
	s.lastUpdate = input
	return s.memo, s.err
}

func (s *stubMemoService) SoftDeleteMemo(ctx context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, "soft_delete")
	s.lastID = id
	return s.err
}

func (s *stubMemoService) RestoreMemo(ctx context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, "restore")
	s.lastID = id
	return s.err
}

func (s *stubMemoService) PermanentlyDeleteMemo(ctx context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, "permanent_delete")
	s.lastID = id
	return s.err
}

func (s *stubMemoService) EmptyTrash(ctx context.Context) error {
	s.calls = append(s.calls, "empty_trash")
	return s.err
}

func (s *stubMemoService) TogglePin(ctx context.Context, id uuid.UUID) (bool, error) {
	s.calls = append(s.calls, "toggle_pin")
	s.lastID = id
	return s.pinned, s.err
}

var _ service.MemoService = (*stubMemoService)(nil)

// stubTagService implements service.TagService with canned results.
type stubTagService struct {
	tags []*domain.TagWithCount
	tag  *domain.Tag
	err  error

	lastID     uuid.UUID
	lastCreate domain.CreateTagInput
	lastUpdate domain.UpdateTagInput
}

func (s *stubTagService) ListTags(ctx context.Context) ([]*domain.TagWithCount, error) {
	return s.tags, s.err
}

func (s *stubTagService) GetTag(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	s.lastID = id
	return s.tag, s.err
}

func (s *stubTagService) CreateTag(
	ctx context.Context,
	input domain.CreateTagInput,
) (*domain.Tag, error) {
	s.lastCreate = input
	return s.tag, s.err
}

func (s *stubTagService) UpdateTag(
	ctx context.Context,
	id uuid.UUID,
	input domain.UpdateTagInput,
) (*domain.Tag, error) {
	s.lastID = id
	s.lastUpdate = input
	return s.tag, s.err
}

func (s *stubTagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	s.lastID = id
	return s.err
}

var _ service.TagService = (*stubTagService)(nil)
