package domain

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length limits for memos and tags.
const (
	MaxTitleLength   = 255
	MaxTagNameLength = 50
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// FieldErrors maps a field name to the list of human-readable validation
// messages recorded for it.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// ValidationError is returned when input fails field-level validation.
// Validation failure is an expected result, not an exceptional condition;
// callers surface Fields back to the user unchanged.
type ValidationError struct {
	Fields FieldErrors
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewValidationError creates a ValidationError from the given field errors.
func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidationError extracts a *ValidationError from err if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// CreateMemoInput holds the fields for creating a memo. Content, IsPinned
// and TagIDs are optional and default to their zero values.
type CreateMemoInput struct {
	Title    string
	Content  string
	IsPinned bool
	TagIDs   []uuid.UUID
}

// Validate checks the input and returns field-level errors, or nil when the
// input is valid. It also deduplicates TagIDs, keeping first occurrences.
func (in *CreateMemoInput) Validate() FieldErrors {
	fields := FieldErrors{}
	validateTitle(fields, in.Title)
	in.TagIDs = dedupeTagIDs(in.TagIDs)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// UpdateMemoInput holds a partial memo update. Nil fields mean "leave
// unchanged". A non-nil empty TagIDs slice clears all tag associations;
// nil leaves them untouched.
type UpdateMemoInput struct {
	Title    *string
	Content  *string
	IsPinned *bool
	TagIDs   []uuid.UUID

	// TagIDsSet distinguishes "replace with TagIDs" from "leave unchanged",
	// since a nil slice alone cannot express an explicit empty set.
	TagIDsSet bool
}

// Validate checks the supplied fields only.
func (in *UpdateMemoInput) Validate() FieldErrors {
	fields := FieldErrors{}
	if in.Title != nil {
		validateTitle(fields, *in.Title)
	}
	if in.TagIDsSet {
		in.TagIDs = dedupeTagIDs(in.TagIDs)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// IsEmpty reports whether the update supplies no fields at all.
func (in *UpdateMemoInput) IsEmpty() bool {
	return in.Title == nil && in.Content == nil && in.IsPinned == nil && !in.TagIDsSet
}

// CreateTagInput holds the fields for creating a tag. An empty Color
// defaults to DefaultTagColor.
type CreateTagInput struct {
	Name  string
	Color string
}

// Validate checks the input and returns field-level errors, or nil when the
// input is valid.
func (in *CreateTagInput) Validate() FieldErrors {
	fields := FieldErrors{}
	validateTagName(fields, in.Name)
	if in.Color != "" {
		validateTagColor(fields, in.Color)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// UpdateTagInput holds a partial tag update. Nil fields mean "leave
// unchanged".
type UpdateTagInput struct {
	Name  *string
	Color *string
}

// Validate checks the supplied fields only.
func (in *UpdateTagInput) Validate() FieldErrors {
	fields := FieldErrors{}
	if in.Name != nil {
		validateTagName(fields, *in.Name)
	}
	if in.Color != nil {
		validateTagColor(fields, *in.Color)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// IsEmpty reports whether the update supplies no fields at all.
func (in *UpdateTagInput) IsEmpty() bool {
	return in.Name == nil && in.Color == nil
}

func validateTitle(fields FieldErrors, title string) {
	if title == "" {
		fields.Add("title", "title is required")
		return
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		fields.Add("title", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
}

func validateTagName(fields FieldErrors, name string) {
	if name == "" {
		fields.Add("name", "name is required")
		return
	}
	if utf8.RuneCountInString(name) > MaxTagNameLength {
		fields.Add("name", fmt.Sprintf("name must be at most %d characters", MaxTagNameLength))
	}
}

func validateTagColor(fields FieldErrors, color string) {
	if !hexColorPattern.MatchString(color) {
		fields.Add("color", "color must be a hex color in #RRGGBB format")
	}
}

// dedupeTagIDs removes duplicate tag IDs, preserving first occurrences.
// A memo's tag set never contains the same tag twice.
func dedupeTagIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
