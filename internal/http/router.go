package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Controllers whose dependency is nil are not mounted.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Parsers, cfg.TaskClient, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	if cfg.Parsers != nil {
		pc := NewParsersController(cfg.Parsers)
		api.GET("/parsers", pc.List)
		api.GET("/parsers/formats/:format", pc.ListByFormat)
		api.POST("/parsers", pc.Register)
		api.DELETE("/parsers/:name", pc.Unregister)
		api.POST("/parsers/reload", pc.Reload)
	}

	if cfg.Importer != nil {
		ic := NewImportController(cfg.Importer, cfg.TaskClient, cfg.UploadDir)
		api.POST("/import", ic.Import)
	}

	if cfg.TaskClient != nil {
		tc := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/:id", tc.GetTaskStatus)
	}

	if cfg.Bookmarks != nil {
		bc := NewBookmarksController(cfg.Bookmarks)
		api.GET("/bookmarks", bc.List)
		api.GET("/bookmarks/:id", bc.Get)
		api.DELETE("/bookmarks/:id", bc.Delete)
	}

	if cfg.Tags != nil {
		tc := NewTagsController(cfg.Tags)
		api.GET("/tags", tc.List)
		api.GET("/tags/search", tc.Search)
		api.GET("/tags/:name/bookmarks", tc.Bookmarks)
		api.POST("/bookmarks/:id/tags", tc.AddTag)
		api.DELETE("/bookmarks/:id/tags/:name", tc.RemoveTag)
	}

	if cfg.Notifications != nil {
		nc := NewNotificationsController(cfg.Notifications)
		api.GET("/notifications", nc.List)
		api.GET("/notifications/runs/:run_id", nc.ForRun)
	}

	if cfg.Broker != nil {
		ec := NewEventsController(cfg.Broker)
		api.GET("/events", ec.Stream)
	}

	return router
}
