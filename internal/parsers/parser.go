// Package parsers turns bookmark export files into records ready for import.
//
// Two kinds of parser exist:
//
//   - BrowserJSONParser: the built-in parser for browser bookmark backups
//     (a tree of folders and links).
//   - ExternalParser: a user-supplied script run as a child process. It gets
//     the input path as its only argument and prints a ParseOutcome as JSON.
//
// Parsers never touch the database. They return a ParseOutcome and leave
// persistence to the import pipeline, so every import is written by a single
// transactional writer whatever parser produced it.
//
// # Registry
//
// Active parsers live in a Registry keyed by name:
//
//	registry := parsers.NewRegistry()
//	errs := registry.Reload(descriptors, 5*time.Minute)
//	parser, ok := registry.Get("Default JSON")
//	outcome, err := parser.Parse(ctx, "/path/to/bookmarks.json")
//
// The registry lock only covers lookups and registration. Parse is always
// called outside of it.
package parsers

import "context"

// Parser converts one input file into bookmark records.
type Parser interface {
	// Name is the registry key.
	Name() string
	// SupportedFormats lists the file extensions or format tags the parser
	// claims. It is used for discovery only.
	SupportedFormats() []string
	// Parse reads inputPath and returns the converted records. It must not
	// write anywhere and must leave no partial state behind on failure.
	Parse(ctx context.Context, inputPath string) (*ParseOutcome, error)
	// Describe returns the descriptor used for listing and persistence.
	Describe() Descriptor
}
