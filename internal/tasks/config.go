package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxRetries is how often a failed housekeeping task is retried. Imports
	// are never retried. Default: 2
	MaxRetries int

	// RetryDelay is the backoff between retries. Default: 1m
	RetryDelay time.Duration

	// TaskTimeout bounds a single import run. Default: 15m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 30m
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long to keep completed tasks. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        2,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       15 * time.Minute,
		ReleaseAfter:      30 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// workers clamps Workers to at least one.
func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// apply overrides a queue's static configuration with the client settings.
// Zero values keep the queue's own defaults.
func (c Config) apply(qc *backlite.QueueConfig) {
	if qc == nil {
		return
	}
	if c.RetentionDuration > 0 && qc.Retention != nil {
		qc.Retention.Duration = c.RetentionDuration
	}

	switch qc.Name {
	case ImportBookmarksQueue:
		if c.TaskTimeout > 0 {
			qc.Timeout = c.TaskTimeout
		}
	case CleanupNotificationsQueue:
		if c.MaxRetries >= 0 {
			qc.MaxAttempts = c.MaxRetries + 1
		}
		if c.RetryDelay > 0 {
			qc.Backoff = c.RetryDelay
		}
	}
}
