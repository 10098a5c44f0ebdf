// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, pool limits, migrations
//	├── bookmarks/       # Transactional batch writes and paged listing
//	├── tags/            # Tag lookups and single-tag edits
//	└── audit/           # Persisted notifications
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./linkshelf.db", 5)
//
//	bookmarksRepo := bookmarks.NewRepository(db.DB)
//	tagsRepo := tags.NewRepository(db.DB)
//
//	err = bookmarksRepo.WriteBatch(ctx, records)
//	page, err := bookmarksRepo.List(ctx, bookmarks.ListOptions{Page: 0, PageSize: 10})
//
// # Interface Implementations
//
//   - bookmarks.Repository: implements importers.BatchWriter and http.BookmarkStore
//   - tags.Repository: implements http.TagStore
//   - audit.Repository: backs audit.Service (http.NotificationStore)
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
