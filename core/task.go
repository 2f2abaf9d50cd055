package core

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusUnstarted  = "UNSTARTED"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusCompleted  = "COMPLETED"
)

type Task struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Title      string `gorm:"size:255;not null"`
	Category   string `gorm:"size:50"`
	EmployeeID uint   `gorm:"not null;index"`
	TicketID   *uint

	Status   string `gorm:"size:20;default:UNSTARTED;index"`
	CheckIn  *time.Time
	CheckOut *time.Time
	Location *string
	Photo    *string

	CreatedAt time.Time `gorm:"precision:6;autoCreateTime"`
	UpdatedAt time.Time `gorm:"precision:6;autoUpdateTime"`

	Employee Employee `gorm:"foreignKey:EmployeeID;references:EmployeeId"`
}

func FindTaskByID(db *gorm.DB, id uint) (*Task, error) {
	var task Task
	err := db.First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindActiveTask returns the employee's single IN_PROGRESS task, if any.
func FindActiveTask(db *gorm.DB, employeeID uint) (*Task, error) {
	var task Task
	err := db.Where("employee_id = ? AND status = ?", employeeID, TaskStatusInProgress).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}
