package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/linkshelf/internal/tasks"
)

// Enqueuer hands a task to the background queue.
// Implemented by tasks.Client.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRunTime returns when schedule fires next after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// NotificationCleanupScheduler periodically removes old notifications. When
// a task queue is available the cleanup is enqueued there, otherwise it runs
// inline on the cron goroutine.
type NotificationCleanupScheduler struct {
	schedule      string
	retentionDays int
	queue         Enqueuer
	cleaner       tasks.NotificationCleaner

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	running   sync.Mutex
}

// NewNotificationCleanupScheduler creates a new scheduler instance. queue may be nil.
func NewNotificationCleanupScheduler(schedule string, retentionDays int, queue Enqueuer, cleaner tasks.NotificationCleaner) *NotificationCleanupScheduler {
	return &NotificationCleanupScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		queue:         queue,
		cleaner:       cleaner,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the cleanup. An empty schedule disables it.
func (s *NotificationCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("[SCHEDULER] Notification cleanup: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule, time.Now())
	log.Printf("[SCHEDULER] Notification cleanup: started with schedule '%s', keeping %d days. Next run: %v",
		s.schedule, s.retentionDays, nextRun)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running cleanup and stops the scheduler.
func (s *NotificationCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	log.Printf("[SCHEDULER] Notification cleanup: stopped")
}

// RunNow triggers an immediate cleanup and blocks until it is done or enqueued.
func (s *NotificationCleanupScheduler) RunNow(ctx context.Context) error {
	return s.run(ctx)
}

// IsRunning returns whether the scheduler is active.
func (s *NotificationCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *NotificationCleanupScheduler) run(ctx context.Context) error {
	if !s.running.TryLock() {
		log.Printf("[SCHEDULER] Notification cleanup already in progress, skipping")
		return nil
	}
	defer s.running.Unlock()

	task := tasks.CleanupNotificationsTask{RetentionDays: s.retentionDays}

	if s.queue != nil {
		id, err := s.queue.Enqueue(task)
		if err == nil {
			log.Printf("[SCHEDULER] Enqueued notification cleanup task %s", id)
			return nil
		}
		log.Printf("[SCHEDULER] Failed to enqueue cleanup, running inline: %v", err)
	}

	if err := tasks.CleanupNotificationsProcessor(s.cleaner)(ctx, task); err != nil {
		log.Printf("[SCHEDULER] Notification cleanup failed: %v", err)
		return err
	}
	return nil
}
