package core

import (
	"time"

	"gorm.io/gorm"
)

const (
	AuditBypassCheckIn     = "ATTENDANCE_BYPASS_CREATE"
	AuditReEnableCheckIn   = "ATTENDANCE_RE_ENABLE"
	AuditApproveAttendance = "ATTENDANCE_APPROVE"
	AuditRejectAttendance  = "ATTENDANCE_REJECT"
)

// AuditLog records admin operations that skip or override normal business
// rules. Bypass check-ins and lockout resets must always leave a trail.
type AuditLog struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Action     string `gorm:"size:50;not null;index"`
	AdminID    uint   `gorm:"not null"`
	EmployeeID *uint
	RecordID   *uint
	Reason     *string   `gorm:"size:500"`
	CreatedAt  time.Time `gorm:"precision:6;autoCreateTime"`
}

func WriteAudit(db *gorm.DB, entry AuditLog) error {
	return db.Create(&entry).Error
}
