package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/memopad/memopad-api/internal/api"
	apimiddleware "github.com/memopad/memopad-api/internal/api/middleware"
	"github.com/memopad/memopad-api/internal/api/shared"
)

// setupRouter configures the application router with all middleware and
// routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware(app.logger))
	r.Use(apimiddleware.ViewCacheMiddleware)

	memoHandler := api.NewMemoHandler(app.queryService, app.memoService, app.logger)
	trashHandler := api.NewTrashHandler(app.queryService, app.memoService, app.logger)
	tagHandler := api.NewTagHandler(app.tagService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/memos", func(r chi.Router) {
			r.Get("/", memoHandler.ListMemos)
			r.Post("/", memoHandler.CreateMemo)
			r.Get("/{id}", memoHandler.GetMemo)
			r.Patch("/{id}", memoHandler.UpdateMemo)
			r.Delete("/{id}", memoHandler.DeleteMemo)
			r.Get("/{id}/html", memoHandler.GetMemoHTML)
			r.Post("/{id}/restore", memoHandler.RestoreMemo)
			r.Post("/{id}/pin", memoHandler.TogglePin)
			r.Delete("/{id}/permanent", memoHandler.PermanentlyDeleteMemo)
		})

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", trashHandler.ListTrash)
			r.Get("/count", trashHandler.CountTrash)
			r.Delete("/", trashHandler.EmptyTrash)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagHandler.ListTags)
			r.Post("/", tagHandler.CreateTag)
			r.Get("/{id}", tagHandler.GetTag)
			r.Patch("/{id}", tagHandler.UpdateTag)
			r.Delete("/{id}", tagHandler.DeleteTag)
		})
	})

	r.Get("/healthz", app.handleHealthz)

	return r
}

// handleHealthz reports liveness, including a short database ping.
func (app *application) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
			"database unavailable", err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
