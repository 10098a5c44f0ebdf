package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/linkshelf/internal/audit"
	"github.com/mrlokans/linkshelf/internal/database/bookmarks"
	"github.com/mrlokans/linkshelf/internal/database/tags"
	"github.com/mrlokans/linkshelf/internal/events"
	"github.com/mrlokans/linkshelf/internal/http"
	"github.com/mrlokans/linkshelf/internal/importers"
	"github.com/mrlokans/linkshelf/internal/notify"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/scheduler"
	"github.com/mrlokans/linkshelf/internal/services"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
	"github.com/mrlokans/linkshelf/internal/tasks"
)

// =============================================================================
// Parsers
// =============================================================================

var _ parsers.Parser = (*parsers.BrowserJSONParser)(nil)
var _ parsers.Parser = (*parsers.ExternalParser)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ importers.BatchWriter = (*bookmarks.Repository)(nil)
var _ http.BookmarkStore = (*bookmarks.Repository)(nil)
var _ http.TagStore = (*tags.Repository)(nil)
var _ http.NotificationStore = (*audit.Service)(nil)
var _ tasks.NotificationCleaner = (*audit.Service)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ services.Ingester = (*importers.Pipeline)(nil)
var _ services.ParserStore = (*settingsstore.SettingsStore)(nil)
var _ services.FailureRecorder = (*audit.Auditor)(nil)
var _ importers.Observer = (*events.Broker)(nil)

var _ http.ParserManager = (*services.ImportService)(nil)
var _ http.Importer = (*services.ImportService)(nil)
var _ tasks.BookmarkImporter = (*services.ImportService)(nil)

// =============================================================================
// Notifications and Background Work
// =============================================================================

var _ notify.Notifier = notify.LogNotifier{}
var _ notify.Notifier = notify.Multi{}
var _ notify.Notifier = (*audit.Service)(nil)
var _ notify.Notifier = (*events.Broker)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
