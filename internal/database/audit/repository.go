package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/linkshelf/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogNotification saves a notification to the database.
func (r *Repository) LogNotification(ctx context.Context, n *entities.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// GetNotifications retrieves paginated notifications, most recent first.
func (r *Repository) GetNotifications(ctx context.Context, limit, offset int) ([]entities.Notification, int64, error) {
	return r.query(ctx, r.db.WithContext(ctx).Model(&entities.Notification{}), limit, offset)
}

// GetNotificationsByLevel retrieves notifications of one level.
func (r *Repository) GetNotificationsByLevel(ctx context.Context, level entities.NotificationLevel, limit, offset int) ([]entities.Notification, int64, error) {
	return r.query(ctx, r.db.WithContext(ctx).Model(&entities.Notification{}).Where("level = ?", level), limit, offset)
}

// GetNotificationsForRun retrieves every notification of one import run.
func (r *Repository) GetNotificationsForRun(ctx context.Context, runID string) ([]entities.Notification, error) {
	notifications := []entities.Notification{}
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("created_at ASC, id ASC").Find(&notifications).Error
	return notifications, err
}

func (r *Repository) query(ctx context.Context, query *gorm.DB, limit, offset int) ([]entities.Notification, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	notifications := []entities.Notification{}
	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, total, err
}

// DeleteOlderThan removes notifications created before cutoff and returns how
// many were deleted.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.Notification{})
	return result.RowsAffected, result.Error
}

// GetNotificationByID retrieves a single notification by ID.
func (r *Repository) GetNotificationByID(ctx context.Context, id uint) (*entities.Notification, error) {
	var n entities.Notification
	err := r.db.WithContext(ctx).First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}
