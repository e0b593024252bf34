package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/memopad/memopad-api/internal/config"
	"github.com/memopad/memopad-api/internal/events"
	"github.com/memopad/memopad-api/internal/platform/postgres"
	"github.com/memopad/memopad-api/internal/service"
	"github.com/memopad/memopad-api/internal/service/viewcache"
	"github.com/memopad/memopad-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	memoStore    store.MemoStore
	tagStore     store.TagStore
	memoTagStore store.MemoTagStore

	queryService service.MemoQueryService
	memoService  service.MemoService
	tagService   service.TagService

	eventEmitter events.EventEmitter
}

// newApplication creates an application with all dependencies
// initialized. Configuration, logger and database connection must already
// be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.memoStore = postgres.NewMemoStore(db, logger)
	app.tagStore = postgres.NewTagStore(db, logger)
	app.memoTagStore = postgres.NewMemoTagStore(db, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(viewcache.Invalidator{})
	app.eventEmitter = emitter

	var err error
	app.queryService, err = service.NewMemoQueryService(app.memoStore, app.memoTagStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo query service: %w", err)
	}

	app.memoService, err = service.NewMemoService(
		db, app.memoStore, app.memoTagStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo service: %w", err)
	}

	app.tagService, err = service.NewTagService(app.tagStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
