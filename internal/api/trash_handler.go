package api

import (
	"log/slog"
	"net/http"

	"github.com/memopad/memopad-api/internal/api/shared"
	"github.com/memopad/memopad-api/internal/service"
)

// TrashHandler handles trash-related HTTP requests.
type TrashHandler struct {
	queryService service.MemoQueryService
	memoService  service.MemoService
	logger       *slog.Logger
}

// NewTrashHandler creates a new TrashHandler.
func NewTrashHandler(
	queryService service.MemoQueryService,
	memoService service.MemoService,
	log *slog.Logger,
) *TrashHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TrashHandler{
		queryService: queryService,
		memoService:  memoService,
		logger:       log.With(slog.String("component", "trash_handler")),
	}
}

// ListTrash handles GET /api/trash. Trashed memos come back most recently
// deleted first, without pagination.
func (h *TrashHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	memos, err := h.queryService.ListTrashedMemos(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, memos)
}

// CountTrash handles GET /api/trash/count.
func (h *TrashHandler) CountTrash(w http.ResponseWriter, r *http.Request) {
	count, err := h.queryService.CountTrashedMemos(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, TrashCountResponse{Count: count})
}

// EmptyTrash handles DELETE /api/trash. Emptying an already empty trash
// succeeds.
func (h *TrashHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	if err := h.memoService.EmptyTrash(r.Context()); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, nil)
}
