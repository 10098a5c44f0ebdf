package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/mrlokans/linkshelf/internal/audit"
	"github.com/mrlokans/linkshelf/internal/config"
	"github.com/mrlokans/linkshelf/internal/database"
	dbaudit "github.com/mrlokans/linkshelf/internal/database/audit"
	"github.com/mrlokans/linkshelf/internal/database/bookmarks"
	"github.com/mrlokans/linkshelf/internal/database/tags"
	"github.com/mrlokans/linkshelf/internal/events"
	"github.com/mrlokans/linkshelf/internal/importers"
	"github.com/mrlokans/linkshelf/internal/notify"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/services"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
)

// App holds the wired core shared by the server and the CLI commands.
type App struct {
	Config    *config.Config
	DB        *database.Database
	Bookmarks *bookmarks.Repository
	Tags      *tags.Repository
	Audit     *audit.Service
	Broker    *events.Broker
	Registry  *parsers.Registry
	Store     *settingsstore.SettingsStore
	Imports   *services.ImportService
}

// NewApp opens the database and loads the parser registry. Custom parsers
// that fail to load are reported and skipped; only database errors are fatal.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		Bookmarks: bookmarks.NewRepository(db.DB),
		Tags:      tags.NewRepository(db.DB),
		Audit:     audit.NewService(dbaudit.NewRepository(db.DB)),
		Broker:    events.NewBroker(cfg.Notifications.EventBuffer),
		Registry:  parsers.NewRegistry(),
		Store:     settingsstore.New(cfg.Parsers.ConfigPath),
	}

	pipeline := importers.NewPipeline(app.Bookmarks, cfg.Import.BatchSize, app.Broker)

	var failures services.FailureRecorder
	if cfg.Audit.Dir != "" {
		failures = audit.NewAuditor(cfg.Audit.Dir)
	}

	app.Imports = services.NewImportService(services.ImportServiceConfig{
		Registry:       app.Registry,
		Pipeline:       pipeline,
		Notifier:       notify.Multi{notify.LogNotifier{}, app.Audit, app.Broker},
		Store:          app.Store,
		Failures:       failures,
		DefaultTimeout: cfg.Parsers.DefaultTimeout,
	})

	if err := app.Imports.ReloadParsers(ctx); err != nil {
		log.Printf("[PARSERS] Continuing with the built-in parser only: %v", err)
	}

	return app, nil
}

// WatchParsers reloads the registry whenever the parser configuration file
// changes. A missing file is created empty first so there is something to watch.
func (a *App) WatchParsers(ctx context.Context) error {
	if _, err := os.Stat(a.Store.Path()); errors.Is(err, fs.ErrNotExist) {
		if err := a.Store.Save(settingsstore.State{DBPath: a.Config.Database.Path}); err != nil {
			return fmt.Errorf("creating %s: %w", a.Store.Path(), err)
		}
	}

	a.Store.Watch(a.Config.Parsers.WatchDebounce, func(state settingsstore.State, err error) {
		if err != nil {
			log.Printf("[PARSERS] Ignoring unreadable configuration: %v", err)
			a.Broker.Notify(ctx, notify.Error("Parser configuration error", err.Error()))
			return
		}
		a.Imports.ApplyParsers(ctx, state)
		a.Broker.Publish(events.ParsersReloaded, a.Registry.Descriptors())
	})
	return nil
}

// Close flushes pending notification writes and closes the database.
func (a *App) Close() error {
	a.Store.Stop()
	a.Audit.Wait()
	return a.DB.Close()
}
