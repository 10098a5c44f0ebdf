package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/linkshelf/internal/database/audit"
	"github.com/mrlokans/linkshelf/internal/entities"
	"github.com/mrlokans/linkshelf/internal/notify"
)

const (
	maxTitleLen   = 200
	maxMessageLen = 4000
)

// Service persists notifications so they can be listed after the fact.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log stores a notification synchronously.
func (s *Service) Log(ctx context.Context, n *entities.Notification) error {
	return s.repo.LogNotification(ctx, n)
}

// LogAsync stores a notification in the background (non-blocking).
func (s *Service) LogAsync(ctx context.Context, n *entities.Notification) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogNotification(ctx, n); err != nil {
			log.Printf("Failed to store notification %q: %v", n.Title, err)
		}
	}()
}

// Wait blocks until every LogAsync write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Notify implements notify.Notifier.
func (s *Service) Notify(ctx context.Context, msg notify.Message) {
	s.LogAsync(ctx, &entities.Notification{
		Level:   msg.Level,
		Title:   truncate(msg.Title, maxTitleLen),
		Message: truncate(msg.Body, maxMessageLen),
		Source:  truncate(msg.Source, 100),
		RunID:   msg.RunID,
	})
}

// GetNotifications retrieves paginated notifications, optionally of one level.
func (s *Service) GetNotifications(ctx context.Context, level entities.NotificationLevel, limit, offset int) ([]entities.Notification, int64, error) {
	if level != "" {
		return s.repo.GetNotificationsByLevel(ctx, level, limit, offset)
	}
	return s.repo.GetNotifications(ctx, limit, offset)
}

// GetNotificationsForRun retrieves the notifications of one import run.
func (s *Service) GetNotificationsForRun(ctx context.Context, runID string) ([]entities.Notification, error) {
	return s.repo.GetNotificationsForRun(ctx, runID)
}

// DeleteOldNotifications removes notifications older than retention.
func (s *Service) DeleteOldNotifications(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
