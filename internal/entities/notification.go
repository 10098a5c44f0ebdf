package entities

import "time"

type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a user-facing message about an import, a parser reload or
// a registration.
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Level     NotificationLevel `gorm:"index;size:20" json:"level"`
	Title     string            `gorm:"size:200" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	Source    string            `gorm:"size:100" json:"source,omitempty"` // parser name or component
	RunID     string            `gorm:"index;size:36" json:"run_id,omitempty"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
