package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/config"
	http_controllers "github.com/mrlokans/linkshelf/internal/http"
	"github.com/mrlokans/linkshelf/internal/scheduler"
	"github.com/mrlokans/linkshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the HTTP server
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting linkshelf v%s", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.Parsers.WatchEnabled {
		if err := app.WatchParsers(ctx); err != nil {
			log.Printf("WARNING: parser configuration will not be watched: %v", err)
		}
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportBookmarksQueue(app.Imports),
			tasks.NewCleanupNotificationsQueue(app.Audit),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(ctx)
		taskClient.Start(taskCtx)
	} else {
		log.Printf("Task queue disabled: imports run within the request")
	}

	var queue scheduler.Enqueuer
	if taskClient != nil {
		queue = taskClient
	}
	cleanup := scheduler.NewNotificationCleanupScheduler(
		cfg.Notifications.CleanupSchedule,
		cfg.Notifications.RetentionDays,
		queue,
		app.Audit,
	)
	if err := cleanup.Start(ctx); err != nil {
		log.Printf("WARNING: notification cleanup disabled: %v", err)
	}

	uploadDir := filepath.Join(filepath.Dir(cfg.Database.Path), "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory %s: %v", uploadDir, err)
	}

	routerCfg := http_controllers.RouterConfig{
		Parsers:       app.Imports,
		Importer:      app.Imports,
		Bookmarks:     app.Bookmarks,
		Tags:          app.Tags,
		Database:      app.DB,
		Notifications: app.Audit,
		Broker:        app.Broker,
		TaskClient:    taskClient,
		UploadDir:     uploadDir,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
