package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/events"
	"github.com/memopad/memopad-api/internal/service/viewcache"
	"github.com/memopad/memopad-api/internal/store"
)

// TagService provides tag reads and mutations. Tag names are unique
// (case-sensitive); conflicts surface as ErrTagNameTaken.
type TagService interface {
	// ListTags returns all tags ordered by name, each with its active memo
	// count.
	ListTags(ctx context.Context) ([]*domain.TagWithCount, error)

	// GetTag retrieves a single tag by ID.
	GetTag(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// CreateTag validates the input and creates a new tag. An omitted color
	// gets the default.
	CreateTag(ctx context.Context, input domain.CreateTagInput) (*domain.Tag, error)

	// UpdateTag applies a partial update to the tag.
	UpdateTag(ctx context.Context, id uuid.UUID, input domain.UpdateTagInput) (*domain.Tag, error)

	// DeleteTag removes the tag everywhere. Its memo associations go with
	// it; the memos themselves are untouched.
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

// tagServiceImpl implements the TagService interface.
type tagServiceImpl struct {
	tagStore store.TagStore
	emitter  events.EventEmitter
	logger   *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(
	tagStore store.TagStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) (TagService, error) {
	if tagStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "tagStore cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "emitter cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}
	return &tagServiceImpl{
		tagStore: tagStore,
		emitter:  emitter,
		logger:   log.With("component", "tag_service"),
	}, nil
}

// ListTags implements TagService.ListTags.
func (s *tagServiceImpl) ListTags(ctx context.Context) ([]*domain.TagWithCount, error) {
	cache := viewcache.FromContext(ctx)
	const key = "tags"
	if cached, ok := viewcache.Lookup[[]*domain.TagWithCount](cache, key); ok {
		return cached, nil
	}

	tags, err := s.tagStore.ListWithCounts(ctx)
	if err != nil {
		s.logger.Error("failed to list tags", "error", err)
		return nil, NewServiceError("list_tags", "failed to list tags", err)
	}

	viewcache.Store(cache, key, tags)
	return tags, nil
}

// GetTag implements TagService.GetTag.
func (s *tagServiceImpl) GetTag(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	tag, err := s.tagStore.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve tag", "error", err, "tag_id", id)
		}
		return nil, NewServiceError("get_tag", "failed to retrieve tag", err)
	}
	return tag, nil
}

// CreateTag implements TagService.CreateTag.
func (s *tagServiceImpl) CreateTag(
	ctx context.Context,
	input domain.CreateTagInput,
) (*domain.Tag, error) {
	if fields := input.Validate(); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	if err := s.checkNameAvailable(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}

	tag := domain.NewTag(input)
	if err := s.tagStore.Create(ctx, tag); err != nil {
		// The pre-check races with concurrent creates; the unique
		// constraint is the authority.
		if errors.Is(err, store.ErrTagNameExists) {
			return nil, ErrTagNameTaken
		}
		s.logger.Error("failed to create tag", "error", err, "tag_id", tag.ID)
		return nil, NewServiceError("create_tag", "failed to save tag", err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)
	s.invalidate(ctx, events.ViewTagList)
	return tag, nil
}

// UpdateTag implements TagService.UpdateTag.
func (s *tagServiceImpl) UpdateTag(
	ctx context.Context,
	id uuid.UUID,
	input domain.UpdateTagInput,
) (*domain.Tag, error) {
	if fields := input.Validate(); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	tag, err := s.tagStore.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve tag for update", "error", err, "tag_id", id)
		}
		return nil, NewServiceError("update_tag", "failed to retrieve tag", err)
	}

	if input.Name != nil && *input.Name != tag.Name {
		if err := s.checkNameAvailable(ctx, *input.Name, id); err != nil {
			return nil, err
		}
	}

	tag.Apply(input)
	if err := s.tagStore.Update(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNameExists) {
			return nil, ErrTagNameTaken
		}
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update tag", "error", err, "tag_id", id)
		}
		return nil, NewServiceError("update_tag", "failed to update tag", err)
	}

	s.logger.Info("tag updated", "tag_id", id)
	s.invalidate(ctx, events.ViewTagList, events.ViewMemoList)
	return tag, nil
}

// DeleteTag implements TagService.DeleteTag.
func (s *tagServiceImpl) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := s.tagStore.Delete(ctx, id); err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete tag", "error", err, "tag_id", id)
		}
		return NewServiceError("delete_tag", "failed to delete tag", err)
	}

	s.logger.Info("tag deleted", "tag_id", id)
	s.invalidate(ctx, events.ViewTagList, events.ViewMemoList)
	return nil
}

// checkNameAvailable reports ErrTagNameTaken when another tag already
// holds the name. excludeID skips the tag being updated so renaming a tag
// to its own name is allowed.
func (s *tagServiceImpl) checkNameAvailable(ctx context.Context, name string, excludeID uuid.UUID) error {
	existing, err := s.tagStore.FindByName(ctx, name)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil
		}
		s.logger.Error("failed to check tag name", "error", err, "name", name)
		return NewServiceError("check_tag_name", "failed to check tag name", err)
	}
	if existing.ID != excludeID {
		return ErrTagNameTaken
	}
	return nil
}

// invalidate emits a view-invalidation event, logging handler failures
// instead of failing the committed mutation.
func (s *tagServiceImpl) invalidate(ctx context.Context, views ...string) {
	event := events.NewViewInvalidationEvent(views...)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("view invalidation handler failed",
			"error", err, "event_id", event.ID, "views", views)
	}
}
