package domain

import (
	"time"

	"github.com/google/uuid"
)

// Memo represents a single note with markdown content. A memo with a non-nil
// DeletedAt is soft-deleted and only visible in the trash.
type Memo struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	IsPinned  bool       `json:"isPinned"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// MemoWithTags is a memo together with its fully resolved tag list.
// Tag resolution is always an explicit join at the point the memo is
// fetched; there is no lazy loading.
type MemoWithTags struct {
	Memo
	Tags []Tag `json:"tags"`
}

// NewMemo creates a new active memo from validated input.
// It generates a new UUID and sets both timestamps to the current time.
func NewMemo(input CreateMemoInput) *Memo {
	now := time.Now().UTC()
	return &Memo{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		IsPinned:  input.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTrashed reports whether the memo is currently soft-deleted.
func (m *Memo) IsTrashed() bool {
	return m.DeletedAt != nil
}

// Apply copies the supplied fields of a partial update onto the memo and
// bumps UpdatedAt. Absent (nil) fields are left unchanged.
func (m *Memo) Apply(input UpdateMemoInput) {
	if input.Title != nil {
		m.Title = *input.Title
	}
	if input.Content != nil {
		m.Content = *input.Content
	}
	if input.IsPinned != nil {
		m.IsPinned = *input.IsPinned
	}
	m.UpdatedAt = time.Now().UTC()
}
