package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/service/viewcache"
	"github.com/memopad/memopad-api/internal/store"
)

// MemoQueryService provides read-only access to memos. All operations are
// side-effect free; results are memoized in the request-scoped view cache
// when one rides on the context.
type MemoQueryService interface {
	// QueryMemos returns one page of active memos matching the filter,
	// each with its full tag list, plus a pagination descriptor.
	QueryMemos(ctx context.Context, query domain.MemoQuery) (*domain.PaginatedMemos, error)

	// GetMemo retrieves a single memo with its tags, regardless of
	// soft-delete state.
	GetMemo(ctx context.Context, id uuid.UUID) (*domain.MemoWithTags, error)

	// ListTrashedMemos returns all soft-deleted memos with their tags,
	// most recently deleted first.
	ListTrashedMemos(ctx context.Context) ([]*domain.MemoWithTags, error)

	// CountTrashedMemos returns the number of soft-deleted memos.
	CountTrashedMemos(ctx context.Context) (int, error)
}

// memoQueryServiceImpl implements the MemoQueryService interface.
type memoQueryServiceImpl struct {
	memoStore    store.MemoStore
	memoTagStore store.MemoTagStore
	logger       *slog.Logger
}

// NewMemoQueryService creates a new MemoQueryService.
func NewMemoQueryService(
	memoStore store.MemoStore,
	memoTagStore store.MemoTagStore,
	log *slog.Logger,
) (MemoQueryService, error) {
	if memoStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "memoStore cannot be nil"}
	}
	if memoTagStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "memoTagStore cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}
	return &memoQueryServiceImpl{
		memoStore:    memoStore,
		memoTagStore: memoTagStore,
		logger:       log.With("component", "memo_query_service"),
	}, nil
}

// QueryMemos implements MemoQueryService.QueryMemos.
func (s *memoQueryServiceImpl) QueryMemos(
	ctx context.Context,
	query domain.MemoQuery,
) (*domain.PaginatedMemos, error) {
	query = query.Normalize()

	cache := viewcache.FromContext(ctx)
	key := query.CacheKey()
	if cached, ok := viewcache.Lookup[*domain.PaginatedMemos](cache, key); ok {
		s.logger.Debug("memo query served from request cache", "key", key)
		return cached, nil
	}

	memos, total, err := s.memoStore.List(ctx, query)
	if err != nil {
		return nil, NewServiceError("query_memos", "failed to list memos", err)
	}

	withTags, err := s.attachTags(ctx, memos)
	if err != nil {
		return nil, NewServiceError("query_memos", "failed to resolve tags", err)
	}

	result := &domain.PaginatedMemos{
		Memos:      withTags,
		Pagination: domain.NewPagination(query.Page, query.PageSize, total),
	}
	viewcache.Store(cache, key, result)
	return result, nil
}

// GetMemo implements MemoQueryService.GetMemo.
func (s *memoQueryServiceImpl) GetMemo(ctx context.Context, id uuid.UUID) (*domain.MemoWithTags, error) {
	cache := viewcache.FromContext(ctx)
	key := "memo:" + id.String()
	if cached, ok := viewcache.Lookup[*domain.MemoWithTags](cache, key); ok {
		return cached, nil
	}

	memo, err := s.memoStore.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_memo", "failed to retrieve memo", err)
	}

	withTags, err := s.attachTags(ctx, []*domain.Memo{memo})
	if err != nil {
		return nil, NewServiceError("get_memo", "failed to resolve tags", err)
	}

	viewcache.Store(cache, key, withTags[0])
	return withTags[0], nil
}

// ListTrashedMemos implements MemoQueryService.ListTrashedMemos.
func (s *memoQueryServiceImpl) ListTrashedMemos(ctx context.Context) ([]*domain.MemoWithTags, error) {
	cache := viewcache.FromContext(ctx)
	const key = "trash"
	if cached, ok := viewcache.Lookup[[]*domain.MemoWithTags](cache, key); ok {
		return cached, nil
	}

	memos, err := s.memoStore.ListTrashed(ctx)
	if err != nil {
		return nil, NewServiceError("list_trash", "failed to list trashed memos", err)
	}

	withTags, err := s.attachTags(ctx, memos)
	if err != nil {
		return nil, NewServiceError("list_trash", "failed to resolve tags", err)
	}

	viewcache.Store(cache, key, withTags)
	return withTags, nil
}

// CountTrashedMemos implements MemoQueryService.CountTrashedMemos.
func (s *memoQueryServiceImpl) CountTrashedMemos(ctx context.Context) (int, error) {
	cache := viewcache.FromContext(ctx)
	const key = "trash_count"
	if cached, ok := viewcache.Lookup[int](cache, key); ok {
		return cached, nil
	}

	count, err := s.memoStore.CountTrashed(ctx)
	if err != nil {
		return 0, NewServiceError("count_trash", "failed to count trashed memos", err)
	}

	viewcache.Store(cache, key, count)
	return count, nil
}

// attachTags resolves the tag lists for the given memos with one explicit
// join query and pairs them up. Memos without tags get an empty slice,
// never nil.
func (s *memoQueryServiceImpl) attachTags(
	ctx context.Context,
	memos []*domain.Memo,
) ([]*domain.MemoWithTags, error) {
	ids := make([]uuid.UUID, len(memos))
	for i, memo := range memos {
		ids[i] = memo.ID
	}

	tagsByMemo, err := s.memoTagStore.ListTagsForMemos(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.MemoWithTags, len(memos))
	for i, memo := range memos {
		tags := tagsByMemo[memo.ID]
		if tags == nil {
			tags = []domain.Tag{}
		}
		result[i] = &domain.MemoWithTags{Memo: *memo, Tags: tags}
	}
	return result, nil
}
