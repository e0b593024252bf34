// Package shared provides helpers used by every HTTP handler: the
// ActionResult response envelope, JSON decoding and request-scoped
// trace IDs.
package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/memopad/memopad-api/internal/domain"
)

// ActionResult is the uniform response envelope. Success responses carry
// Data; failures carry either a general Error message or a field-keyed
// Errors map, never both.
type ActionResult struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
	Errors  domain.FieldErrors `json:"errors,omitempty"`
	TraceID string             `json:"traceId,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and
// body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response",
			"error", err,
			"path", r.URL.Path)
	}
}

// RespondWithData writes a successful ActionResult carrying data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any) {
	RespondWithJSON(w, r, status, ActionResult{Success: true, Data: data})
}

// RespondWithError writes a failed ActionResult with a general error
// message. The message must already be safe for clients; raw error detail
// belongs in the logs.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ActionResult{
		Success: false,
		Error:   message,
		TraceID: traceID,
	})
}

// RespondWithFieldErrors writes a failed ActionResult carrying field-level
// validation messages.
func RespondWithFieldErrors(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	fields domain.FieldErrors,
) {
	RespondWithJSON(w, r, status, ActionResult{
		Success: false,
		Errors:  fields,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a failed ActionResult with a sanitized
// message and logs the underlying error. Server errors log at ERROR,
// client errors at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", err.Error()))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ActionResult{
		Success: false,
		Error:   userMessage,
		TraceID: traceID,
	})
}
