package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/events"
	"github.com/memopad/memopad-api/internal/store"
)

// fakeMemoStore is an in-memory store.MemoStore. Zero value is usable;
// set forcedErr to make every call fail.
type fakeMemoStore struct {
	mu        sync.Mutex
	memos     map[uuid.UUID]*domain.Memo
	forcedErr error
	listCalls int
}

func newFakeMemoStore() *fakeMemoStore {
	return &fakeMemoStore{memos: make(map[uuid.UUID]*domain.Memo)}
}

func (f *fakeMemoStore) put(memo *domain.Memo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *memo
	f.memos[memo.ID] = &copied
}

func (f *fakeMemoStore) Create(ctx context.Context, memo *domain.Memo) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.put(memo)
	return nil
}

func (f *fakeMemoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memo, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	memo, ok := f.memos[id]
	if !ok {
		return nil, store.ErrMemoNotFound
	}
	copied := *memo
	return &copied, nil
}

func (f *fakeMemoStore) Update(ctx context.Context, memo *domain.Memo) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.memos[memo.ID]; !ok {
		return store.ErrMemoNotFound
	}
	copied := *memo
	f.memos[memo.ID] = &copied
	return nil
}

func (f *fakeMemoStore) List(ctx context.Context, q domain.MemoQuery) ([]*domain.Memo, int, error) {
	if f.forcedErr != nil {
		return nil, 0, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	active := []*domain.Memo{}
	for _, memo := range f.memos {
		if memo.DeletedAt == nil {
			copied := *memo
			active = append(active, &copied)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].IsPinned != active[j].IsPinned {
			return active[i].IsPinned
		}
		return active[i].UpdatedAt.After(active[j].UpdatedAt)
	})

	total := len(active)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return active[start:end], total, nil
}

func (f *fakeMemoStore) ListTrashed(ctx context.Context) ([]*domain.Memo, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	trashed := []*domain.Memo{}
	for _, memo := range f.memos {
		if memo.DeletedAt != nil {
			copied := *memo
			trashed = append(trashed, &copied)
		}
	}
	sort.Slice(trashed, func(i, j int) bool {
		return trashed[i].DeletedAt.After(*trashed[j].DeletedAt)
	})
	return trashed, nil
}

func (f *fakeMemoStore) CountTrashed(ctx context.Context) (int, error) {
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, memo := range f.memos {
		if memo.DeletedAt != nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeMemoStore) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	memo, ok := f.memos[id]
	if !ok {
		return store.ErrMemoNotFound
	}
	if memo.DeletedAt == nil {
		memo.DeletedAt = &deletedAt
	}
	return nil
}

func (f *fakeMemoStore) Restore(ctx context.Context, id uuid.UUID) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	memo, ok := f.memos[id]
	if !ok {
		return store.ErrMemoNotFound
	}
	memo.DeletedAt = nil
	return nil
}

func (f *fakeMemoStore) TogglePin(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.forcedErr != nil {
		return false, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	memo, ok := f.memos[id]
	if !ok {
		return false, store.ErrMemoNotFound
	}
	memo.IsPinned = !memo.IsPinned
	memo.UpdatedAt = time.Now().UTC()
	return memo.IsPinned, nil
}

func (f *fakeMemoStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.memos[id]; !ok {
		return store.ErrMemoNotFound
	}
	delete(f.memos, id)
	return nil
}

func (f *fakeMemoStore) DeleteTrashed(ctx context.Context) (int64, error) {
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, memo := range f.memos {
		if memo.DeletedAt != nil {
			delete(f.memos, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeMemoStore) WithTx(tx *sql.Tx) store.MemoStore { return f }

// fakeMemoTagStore is an in-memory store.MemoTagStore backed by a set of
// known tags. CreateAll rejects unknown tag IDs the way the foreign key
// does in production.
type fakeMemoTagStore struct {
	mu           sync.Mutex
	tags         map[uuid.UUID]domain.Tag
	associations map[uuid.UUID][]uuid.UUID
	forcedErr    error
}

func newFakeMemoTagStore(tags ...domain.Tag) *fakeMemoTagStore {
	known := make(map[uuid.UUID]domain.Tag, len(tags))
	for _, tag := range tags {
		known[tag.ID] = tag
	}
	return &fakeMemoTagStore{
		tags:         known,
		associations: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeMemoTagStore) CreateAll(ctx context.Context, memoID uuid.UUID, tagIDs []uuid.UUID) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tagID := range tagIDs {
		if _, ok := f.tags[tagID]; !ok {
			return store.ErrInvalidEntity
		}
	}
	f.associations[memoID] = append(f.associations[memoID], tagIDs...)
	return nil
}

func (f *fakeMemoTagStore) DeleteAllForMemo(ctx context.Context, memoID uuid.UUID) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.associations, memoID)
	return nil
}

func (f *fakeMemoTagStore) ListTagsForMemos(
	ctx context.Context,
	memoIDs []uuid.UUID,
) (map[uuid.UUID][]domain.Tag, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[uuid.UUID][]domain.Tag)
	for _, memoID := range memoIDs {
		for _, tagID := range f.associations[memoID] {
			result[memoID] = append(result[memoID], f.tags[tagID])
		}
		sort.Slice(result[memoID], func(i, j int) bool {
			return result[memoID][i].Name < result[memoID][j].Name
		})
	}
	return result, nil
}

func (f *fakeMemoTagStore) WithTx(tx *sql.Tx) store.MemoTagStore { return f }

func (f *fakeMemoTagStore) tagIDsFor(memoID uuid.UUID) []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.associations[memoID]...)
}

// fakeTagStore is an in-memory store.TagStore enforcing name uniqueness.
type fakeTagStore struct {
	mu         sync.Mutex
	tags       map[uuid.UUID]*domain.Tag
	memoCounts map[uuid.UUID]int
	forcedErr  error
	listCalls  int
}

func newFakeTagStore(tags ...*domain.Tag) *fakeTagStore {
	f := &fakeTagStore{
		tags:       make(map[uuid.UUID]*domain.Tag),
		memoCounts: make(map[uuid.UUID]int),
	}
	for _, tag := range tags {
		copied := *tag
		f.tags[tag.ID] = &copied
	}
	return f
}

func (f *fakeTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tags {
		if existing.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	copied := *tag
	f.tags[tag.ID] = &copied
	return nil
}

func (f *fakeTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tag, ok := f.tags[id]
	if !ok {
		return nil, store.ErrTagNotFound
	}
	copied := *tag
	return &copied, nil
}

func (f *fakeTagStore) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.tags {
		if tag.Name == name {
			copied := *tag
			return &copied, nil
		}
	}
	return nil, store.ErrTagNotFound
}

func (f *fakeTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[tag.ID]; !ok {
		return store.ErrTagNotFound
	}
	for id, existing := range f.tags {
		if id != tag.ID && existing.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	copied := *tag
	f.tags[tag.ID] = &copied
	return nil
}

func (f *fakeTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(f.tags, id)
	return nil
}

func (f *fakeTagStore) ListWithCounts(ctx context.Context) ([]*domain.TagWithCount, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	result := []*domain.TagWithCount{}
	for id, tag := range f.tags {
		result = append(result, &domain.TagWithCount{Tag: *tag, MemoCount: f.memoCounts[id]})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (f *fakeTagStore) WithTx(tx *sql.Tx) store.TagStore { return f }

// recordingEmitter captures emitted events for assertion.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.ViewInvalidationEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event *events.ViewInvalidationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// views flattens every emitted event's view names in emission order.
func (r *recordingEmitter) views() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []string
	for _, event := range r.events {
		all = append(all, event.Views...)
	}
	return all
}
