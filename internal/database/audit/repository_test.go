package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/linkshelf/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Notification{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func TestRepository_LogNotification(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	n := &entities.Notification{
		Level:   entities.NotificationInfo,
		Title:   "Import finished",
		Message: "Imported 10 bookmarks",
	}

	err := repo.LogNotification(context.Background(), n)
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestRepository_GetNotifications(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.LogNotification(ctx, &entities.Notification{
			Level:     entities.NotificationInfo,
			Title:     "info",
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogNotification(ctx, &entities.Notification{
			Level: entities.NotificationError,
			Title: "error",
		}))
	}

	t.Run("get all", func(t *testing.T) {
		notifications, total, err := repo.GetNotifications(ctx, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, notifications, 20)
	})

	t.Run("by level", func(t *testing.T) {
		notifications, total, err := repo.GetNotificationsByLevel(ctx, entities.NotificationError, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, n := range notifications {
			assert.Equal(t, entities.NotificationError, n.Level)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page1, total, err := repo.GetNotifications(ctx, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, page1, 5)

		page2, _, err := repo.GetNotifications(ctx, 5, 5)
		require.NoError(t, err)
		assert.Len(t, page2, 5)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		notifications, _, err := repo.GetNotifications(ctx, 20, 0)
		require.NoError(t, err)
		for i := 1; i < len(notifications); i++ {
			assert.False(t, notifications[i-1].CreatedAt.Before(notifications[i].CreatedAt))
		}
	})
}

func TestRepository_GetNotificationsForRun(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.LogNotification(ctx, &entities.Notification{Title: "a", RunID: "run-1"}))
	require.NoError(t, repo.LogNotification(ctx, &entities.Notification{Title: "b", RunID: "run-2"}))
	require.NoError(t, repo.LogNotification(ctx, &entities.Notification{Title: "c", RunID: "run-1"}))

	notifications, err := repo.GetNotificationsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "a", notifications[0].Title)
	assert.Equal(t, "c", notifications[1].Title)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.LogNotification(ctx, &entities.Notification{Title: "old", CreatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, repo.LogNotification(ctx, &entities.Notification{Title: "new", CreatedAt: now.Add(-1 * time.Hour)}))

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	notifications, total, err := repo.GetNotifications(ctx, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", notifications[0].Title)
}

func TestRepository_GetNotificationByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	n := &entities.Notification{Title: "lookup", Level: entities.NotificationWarning}
	require.NoError(t, repo.LogNotification(ctx, n))

	t.Run("existing", func(t *testing.T) {
		found, err := repo.GetNotificationByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "lookup", found.Title)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetNotificationByID(ctx, 999)
		assert.Error(t, err)
	})
}
