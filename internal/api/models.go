package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/domain"
)

// CreateMemoRequest is the request body for POST /api/memos.
type CreateMemoRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	IsPinned bool     `json:"isPinned"`
	TagIDs   []string `json:"tagIds"`
}

// ToInput converts the request to a domain input. Malformed tag IDs are
// reported as field errors rather than decode failures.
func (req *CreateMemoRequest) ToInput() (domain.CreateMemoInput, domain.FieldErrors) {
	tagIDs, fields := parseTagIDs(req.TagIDs)
	if fields != nil {
		return domain.CreateMemoInput{}, fields
	}
	return domain.CreateMemoInput{
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
		TagIDs:   tagIDs,
	}, nil
}

// UpdateMemoRequest is the request body for PATCH /api/memos/{id}. Absent
// fields leave the memo unchanged; a present tagIds array (including an
// empty one) replaces the whole association set.
type UpdateMemoRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	IsPinned *bool     `json:"isPinned"`
	TagIDs   *[]string `json:"tagIds"`
}

// ToInput converts the request to a domain input.
func (req *UpdateMemoRequest) ToInput() (domain.UpdateMemoInput, domain.FieldErrors) {
	input := domain.UpdateMemoInput{
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	}
	if req.TagIDs != nil {
		tagIDs, fields := parseTagIDs(*req.TagIDs)
		if fields != nil {
			return domain.UpdateMemoInput{}, fields
		}
		input.TagIDs = tagIDs
		input.TagIDsSet = true
	}
	return input, nil
}

// CreateTagRequest is the request body for POST /api/tags.
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ToInput converts the request to a domain input.
func (req *CreateTagRequest) ToInput() domain.CreateTagInput {
	return domain.CreateTagInput{Name: req.Name, Color: req.Color}
}

// UpdateTagRequest is the request body for PATCH /api/tags/{id}.
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// ToInput converts the request to a domain input.
func (req *UpdateTagRequest) ToInput() domain.UpdateTagInput {
	return domain.UpdateTagInput{Name: req.Name, Color: req.Color}
}

// TogglePinResponse is the data payload for POST /api/memos/{id}/pin.
type TogglePinResponse struct {
	IsPinned bool `json:"isPinned"`
}

// TrashCountResponse is the data payload for GET /api/trash/count.
type TrashCountResponse struct {
	Count int `json:"count"`
}

// MemoHTMLResponse is the data payload for GET /api/memos/{id}/html.
type MemoHTMLResponse struct {
	HTML string `json:"html"`
}

// parseMemoQuery reads the list query parameters. Unparseable values fall
// back to defaults; domain.MemoQuery.Normalize does the clamping.
func parseMemoQuery(r *http.Request) domain.MemoQuery {
	params := r.URL.Query()

	query := domain.MemoQuery{
		Search: params.Get("search"),
		Sort:   domain.SortField(params.Get("sort")),
		Order:  domain.SortOrder(params.Get("order")),
	}
	if tagID, err := uuid.Parse(params.Get("tag_id")); err == nil {
		query.TagID = tagID
	}
	if page, err := strconv.Atoi(params.Get("page")); err == nil {
		query.Page = page
	}
	if pageSize, err := strconv.Atoi(params.Get("page_size")); err == nil {
		query.PageSize = pageSize
	}
	return query
}

// parseTagIDs parses a list of tag ID strings, reporting malformed values
// as a field error on tagIds.
func parseTagIDs(raw []string) ([]uuid.UUID, domain.FieldErrors) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			fields := domain.FieldErrors{}
			fields.Add("tagIds", "tag IDs must be valid UUIDs")
			return nil, fields
		}
		ids = append(ids, id)
	}
	return ids, nil
}
