package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/memopad/memopad-api/internal/api/shared"
	"github.com/memopad/memopad-api/internal/markdown"
	"github.com/memopad/memopad-api/internal/service"
)

// MemoHandler handles memo-related HTTP requests.
type MemoHandler struct {
	queryService service.MemoQueryService
	memoService  service.MemoService
	logger       *slog.Logger
}

// NewMemoHandler creates a new MemoHandler.
func NewMemoHandler(
	queryService service.MemoQueryService,
	memoService service.MemoService,
	log *slog.Logger,
) *MemoHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MemoHandler{
		queryService: queryService,
		memoService:  memoService,
		logger:       log.With(slog.String("component", "memo_handler")),
	}
}

// ListMemos handles GET /api/memos.
func (h *MemoHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryService.QueryMemos(r.Context(), parseMemoQuery(r))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, result)
}

// GetMemo handles GET /api/memos/{id}.
func (h *MemoHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	memo, err := h.queryService.GetMemo(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, memo)
}

// GetMemoHTML handles GET /api/memos/{id}/html. The memo's markdown
// content is rendered and sanitized server side.
func (h *MemoHandler) GetMemoHTML(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	memo, err := h.queryService.GetMemo(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	html, err := markdown.Render(memo.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to render memo", err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, MemoHTMLResponse{HTML: html})
}

// CreateMemo handles POST /api/memos.
func (h *MemoHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req CreateMemoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	input, fields := req.ToInput()
	if fields != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, fields)
		return
	}

	memo, err := h.memoService.CreateMemo(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, memo)
}

// UpdateMemo handles PATCH /api/memos/{id}.
func (h *MemoHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateMemoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	input, fields := req.ToInput()
	if fields != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, fields)
		return
	}

	memo, err := h.memoService.UpdateMemo(r.Context(), id, input)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, memo)
}

// DeleteMemo handles DELETE /api/memos/{id} by moving the memo to the
// trash.
func (h *MemoHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := h.memoService.SoftDeleteMemo(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}

// RestoreMemo handles POST /api/memos/{id}/restore.
func (h *MemoHandler) RestoreMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := h.memoService.RestoreMemo(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}

// TogglePin handles POST /api/memos/{id}/pin and returns the new pin
// state.
func (h *MemoHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	pinned, err := h.memoService.TogglePin(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, TogglePinResponse{IsPinned: pinned})
}

// PermanentlyDeleteMemo handles DELETE /api/memos/{id}/permanent.
func (h *MemoHandler) PermanentlyDeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := h.memoService.PermanentlyDeleteMemo(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}

// parseIDParam extracts and parses the {id} route parameter, writing a
// 400 response on malformed IDs.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
