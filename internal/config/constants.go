package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./linkshelf.db"

	// DefaultParsersConfigPath is the default state file for custom parsers
	DefaultParsersConfigPath = "./parsers.json"

	DefaultMaxOpenConns    = 5
	DefaultImportBatchSize = 50
)
