package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTagColor is the color assigned to tags created without an
// explicit color.
const DefaultTagColor = "#6B7280"

// Tag represents a label that can be attached to any number of memos.
// Tag names are unique across the application (case-sensitive).
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagWithCount is a tag annotated with the number of active (non-trashed)
// memos referencing it.
type TagWithCount struct {
	Tag
	MemoCount int `json:"memoCount"`
}

// NewTag creates a new tag from validated input. An empty color falls back
// to DefaultTagColor.
func NewTag(input CreateTagInput) *Tag {
	color := input.Color
	if color == "" {
		color = DefaultTagColor
	}
	now := time.Now().UTC()
	return &Tag{
		ID:        uuid.New(),
		Name:      input.Name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply copies the supplied fields of a partial update onto the tag and
// bumps UpdatedAt. Absent (nil) fields are left unchanged.
func (t *Tag) Apply(input UpdateTagInput) {
	if input.Name != nil {
		t.Name = *input.Name
	}
	if input.Color != nil {
		t.Color = *input.Color
	}
	t.UpdatedAt = time.Now().UTC()
}
