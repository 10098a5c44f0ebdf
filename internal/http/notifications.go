package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/entities"
)

const defaultNotificationLimit = 50

// NotificationStore reads notification history.
// Implemented by audit.Service.
type NotificationStore interface {
	GetNotifications(ctx context.Context, level entities.NotificationLevel, limit, offset int) ([]entities.Notification, int64, error)
	GetNotificationsForRun(ctx context.Context, runID string) ([]entities.Notification, error)
}

type NotificationsController struct {
	store NotificationStore
}

func NewNotificationsController(store NotificationStore) *NotificationsController {
	return &NotificationsController{store: store}
}

// List returns notifications, newest first.
// GET /api/notifications?level=error&limit=50&offset=0
func (nc *NotificationsController) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultNotificationLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultNotificationLimit
	}

	level := entities.NotificationLevel(c.Query("level"))
	switch level {
	case "", entities.NotificationInfo, entities.NotificationWarning, entities.NotificationError:
	default:
		respondBadRequest(c, "invalid level")
		return
	}

	list, total, err := nc.store.GetNotifications(c.Request.Context(), level, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    list,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(list)) < total,
	})
}

// ForRun returns the notifications of one import run.
// GET /api/notifications/runs/:run_id
func (nc *NotificationsController) ForRun(c *gin.Context) {
	list, err := nc.store.GetNotificationsForRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		respondInternalError(c, err, "run notifications")
		return
	}
	c.JSON(http.StatusOK, list)
}
