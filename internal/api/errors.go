package api

import (
	"errors"
	"net/http"

	"github.com/memopad/memopad-api/internal/api/shared"
	"github.com/memopad/memopad-api/internal/domain"
	"github.com/memopad/memopad-api/internal/service"
)

// MapErrorToStatusCode maps service errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrMemoNotFound),
		errors.Is(err, service.ErrTagNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrTagNameTaken):
		return http.StatusConflict

	default:
		if _, ok := domain.AsValidationError(err); ok {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// error. Unknown errors get a generic message; the detail stays in logs.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrMemoNotFound):
		return "Memo not found"

	case errors.Is(err, service.ErrTagNotFound):
		return "Tag not found"

	case errors.Is(err, service.ErrTagNameTaken):
		return "Tag name is already in use"

	default:
		return "An unexpected error occurred"
	}
}

// respondWithServiceError translates a service error into the right
// ActionResult failure: validation errors and name conflicts carry a
// field-keyed errors map, everything else a sanitized message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, ve.Fields)
		return
	}

	if errors.Is(err, service.ErrTagNameTaken) {
		fields := domain.FieldErrors{}
		fields.Add("name", "a tag with this name already exists")
		shared.RespondWithFieldErrors(w, r, http.StatusConflict, fields)
		return
	}

	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithError(w, r, status, GetSafeErrorMessage(err))
}
