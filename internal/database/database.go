package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/linkshelf/internal/entities"
)

// DefaultMaxOpenConns bounds the connection pool when no limit is configured.
const DefaultMaxOpenConns = 5

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string, maxOpenConns int) (*Database, error) {
	return open(dbPath, maxOpenConns, logger.Default.LogMode(logger.Warn))
}

// NewTestDatabase opens a database with gorm logging silenced.
func NewTestDatabase(dbPath string) (*Database, error) {
	return open(dbPath, DefaultMaxOpenConns, logger.Default.LogMode(logger.Silent))
}

func open(dbPath string, maxOpenConns int, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if maxOpenConns <= 0 {
		maxOpenConns = DefaultMaxOpenConns
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)

	err = db.AutoMigrate(
		&entities.Bookmark{},
		&entities.Tag{},
		&entities.Notification{},
	)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s (max %d connections)", dbPath, maxOpenConns)

	return &Database{DB: db}, nil
}

// dsn appends busy timeout, WAL and foreign key pragmas unless the caller
// already passed options.
func dsn(dbPath string) string {
	if dbPath == ":memory:" || strings.Contains(dbPath, "?") {
		return dbPath
	}
	return dbPath + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// Ping checks that the database is reachable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
