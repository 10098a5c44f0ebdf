// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Parsing
//
//   - Parser: turns an input file into bookmark records (internal/parsers/parser.go)
//
// ## Data Access Interfaces
//
//   - BatchWriter: transactional batch insert (internal/importers/pipeline.go)
//   - BookmarkStore: bookmark listing and deletion (internal/http/bookmarks.go)
//   - TagStore: tag management (internal/http/tags.go)
//   - NotificationStore: notification history (internal/http/notifications.go)
//   - ParserStore: persisted parser configuration (internal/services/interfaces.go)
//
// ## Import Flow
//
//   - Ingester: batched ingestion (internal/services/interfaces.go)
//   - Observer: "bookmarks updated" listeners (internal/importers/pipeline.go)
//   - Notifier: user-facing outcome messages (internal/notify/notify.go)
//   - BookmarkImporter: imports run from the task queue (internal/tasks/import_bookmarks.go)
//
// # Adding a New Built-in Parser
//
//  1. Implement Parser in internal/parsers/
//
//     type NetscapeHTMLParser struct{}
//
//     func (p *NetscapeHTMLParser) Name() string
//     func (p *NetscapeHTMLParser) SupportedFormats() []string
//     func (p *NetscapeHTMLParser) Describe() Descriptor
//     func (p *NetscapeHTMLParser) Parse(ctx context.Context, inputPath string) (*ParseOutcome, error)
//
//  2. Register it in Registry.Reload next to the browser JSON parser.
//
//  3. Add a compile-time check to checks.go.
//
// Most new formats do not need Go code at all: an executable that prints a
// ParseOutcome as JSON can be registered as an external parser.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
