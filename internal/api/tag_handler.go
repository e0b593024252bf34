package api

import (
	"log/slog"
	"net/http"

	"github.com/memopad/memopad-api/internal/api/shared"
	"github.com/memopad/memopad-api/internal/service"
)

// TagHandler handles tag-related HTTP requests.
type TagHandler struct {
	tagService service.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService service.TagService, log *slog.Logger) *TagHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TagHandler{
		tagService: tagService,
		logger:     log.With(slog.String("component", "tag_handler")),
	}
}

// ListTags handles GET /api/tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTags(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/{id}.
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	tag, err := h.tagService.GetTag(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tag)
}

// CreateTag handles POST /api/tags.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), req.ToInput())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, tag)
}

// UpdateTag handles PATCH /api/tags/{id}.
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	tag, err := h.tagService.UpdateTag(r.Context(), id, req.ToInput())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/tags/{id}. The tag's memo associations
// are removed with it; the memos survive.
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := h.tagService.DeleteTag(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}
