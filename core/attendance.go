package core

import (
	"errors"
	"time"

	"crewtrack.com/crewtrack/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttendanceStatusPresent = "PRESENT"
	AttendanceStatusLate    = "LATE"
	AttendanceStatusAbsent  = "ABSENT"

	ApprovalPending     = "PENDING"
	ApprovalApproved    = "APPROVED"
	ApprovalRejected    = "REJECTED"
	ApprovalNotRequired = "NOT_REQUIRED"

	AttendanceSourceSelf  = "SELF"
	AttendanceSourceAdmin = "ADMIN"
)

// Attendance is one row per employee per calendar day. The composite unique
// index is the only safeguard against double-created daily records; duplicate
// inserts from concurrent check-ins surface as a constraint violation.
type Attendance struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_employee_day"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_employee_day"`

	ClockIn  *time.Time
	ClockOut *time.Time

	Status         string `gorm:"size:20;default:PRESENT"`
	ApprovalStatus string `gorm:"size:20;default:PENDING"`
	ApprovedByID   *uint
	ApprovalReason *string

	// Attempt lockout is orthogonal to approval status. Once locked, check-ins
	// are refused until an admin re-enables the record.
	AttemptCount int `gorm:"not null;default:0"`
	Locked       bool
	LockedReason *string

	Location   *string
	Latitude   *float64
	Longitude  *float64
	IPAddress  *string `gorm:"size:45"`
	Photo      *string
	Source     string         `gorm:"size:10;default:SELF"`
	DeviceInfo datatypes.JSON `gorm:"type:json"`

	CreatedAt time.Time `gorm:"precision:6;autoCreateTime"`
	UpdatedAt time.Time `gorm:"precision:6;autoUpdateTime"`

	Employee Employee `gorm:"foreignKey:EmployeeID;references:EmployeeId"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// FindAttendanceForDay returns the employee's attendance row for the calendar
// day containing t, or nil when none exists.
func FindAttendanceForDay(db *gorm.DB, employeeID uint, t time.Time) (*Attendance, error) {
	var att Attendance
	err := db.Where("employee_id = ? AND date = ?", employeeID, utils.DayStart(t)).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func FindAttendanceByID(db *gorm.DB, id uint) (*Attendance, error) {
	var att Attendance
	err := db.First(&att, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}
