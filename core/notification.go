package core

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationAttendanceApproval = "ATTENDANCE_APPROVAL"
)

// Notification is an admin-facing record, created fire-and-forget when an
// event needs attention (e.g. a field engineer's attendance awaits approval).
type Notification struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Key        string `gorm:"size:64;uniqueIndex"`
	Kind       string `gorm:"size:40;index"`
	Message    string `gorm:"size:500"`
	EmployeeID *uint
	Read       bool
	CreatedAt  time.Time `gorm:"precision:6;autoCreateTime"`
}

func UnreadNotifications(db *gorm.DB, limit int) ([]Notification, error) {
	var notifications []Notification
	err := db.Where("`read` = ?", false).Order("id DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}
