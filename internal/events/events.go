package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Well-known view names used in invalidation events.
const (
	// ViewMemoList is the main filtered/paginated memo listing.
	ViewMemoList = "memo_list"

	// ViewTrash is the trash listing and its count.
	ViewTrash = "trash"

	// ViewTagList is the tag listing with memo counts.
	ViewTagList = "tag_list"
)

// ViewMemoDetail returns the view name for a single memo's detail view.
func ViewMemoDetail(id uuid.UUID) string {
	return "memo_detail:" + id.String()
}

// ViewInvalidationEvent signals that the named views may be stale and
// must be recomputed before their next read.
type ViewInvalidationEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Views lists the affected view names.
	Views []string `json:"views"`

	// OccurredAt is the timestamp when the event was created.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewViewInvalidationEvent creates an event for the given views.
func NewViewInvalidationEvent(views ...string) *ViewInvalidationEvent {
	return &ViewInvalidationEvent{
		ID:         uuid.New(),
		Views:      views,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle
// invalidation events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ViewInvalidationEvent) error
}

// EventEmitter defines an interface for components that can emit
// invalidation events. This allows services to publish events without
// direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ViewInvalidationEvent) error
}
