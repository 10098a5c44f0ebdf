package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	// CleanupNotificationsQueue is the backlite queue name for cleanup tasks.
	CleanupNotificationsQueue = "cleanup_notifications"

	defaultRetentionDays = 30
)

// NotificationCleaner deletes stored notifications past their retention.
type NotificationCleaner interface {
	DeleteOldNotifications(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupNotificationsTask removes notifications older than RetentionDays.
type CleanupNotificationsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for notification cleanup tasks.
func (t CleanupNotificationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupNotificationsQueue,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention converts RetentionDays, falling back to 30 days.
func (t CleanupNotificationsTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CleanupNotificationsProcessor creates a processor function for CleanupNotificationsTask.
func CleanupNotificationsProcessor(cleaner NotificationCleaner) backlite.QueueProcessor[CleanupNotificationsTask] {
	return func(ctx context.Context, task CleanupNotificationsTask) error {
		if cleaner == nil {
			return fmt.Errorf("notification cleaner not configured")
		}

		deleted, err := cleaner.DeleteOldNotifications(ctx, task.Retention())
		if err != nil {
			return fmt.Errorf("cleanup notifications: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d notifications older than %s", deleted, task.Retention())
		return nil
	}
}

// NewCleanupNotificationsQueue creates a backlite queue for notification cleanup tasks.
func NewCleanupNotificationsQueue(cleaner NotificationCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupNotificationsProcessor(cleaner))
}
