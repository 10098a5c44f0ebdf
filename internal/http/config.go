package http

import (
	"github.com/mrlokans/linkshelf/internal/database"
	"github.com/mrlokans/linkshelf/internal/events"
	"github.com/mrlokans/linkshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Parsers   ParserManager
	Importer  Importer
	Bookmarks BookmarkStore
	Tags      TagStore
	Database  *database.Database

	// Notification history and live events
	Notifications NotificationStore
	Broker        *events.Broker

	// Task queue client (optional). Without it imports run in the request.
	TaskClient *tasks.Client

	// UploadDir receives files posted to the import endpoint.
	UploadDir string

	// Application info
	Version string
}
