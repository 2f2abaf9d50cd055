package handlers

import (
	"time"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/web/common"
	"gorm.io/datatypes"
)

type CheckInDTO struct {
	EmployeeID uint           `json:"employeeId" binding:"required"`
	Latitude   *float64       `json:"latitude" binding:"omitempty,latitude"`
	Longitude  *float64       `json:"longitude" binding:"omitempty,longitude"`
	Photo      *string        `json:"photo"`
	DeviceInfo datatypes.JSON `json:"deviceInfo"`
}

type ApprovalDTO struct {
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

type RejectDTO struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ReEnableDTO struct {
	Reason        *string `json:"reason" binding:"omitempty,max=500"`
	RestoreStatus bool    `json:"restoreStatus"`
}

type BypassCreateDTO struct {
	EmployeeID uint                  `json:"employeeId" binding:"required"`
	Status     string                `json:"status" binding:"required,oneof=PRESENT LATE ABSENT"`
	ClockIn    *common.LocalDateTime `json:"clockIn"`
	Location   *string               `json:"location"`
	Reason     *string               `json:"reason" binding:"omitempty,max=500"`
}

type TaskCheckInDTO struct {
	EmployeeID uint     `json:"employeeId" binding:"required"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,longitude"`
	Photo      *string  `json:"photo"`
}

type TaskCheckOutDTO struct {
	EmployeeID uint `json:"employeeId" binding:"required"`
}

type AttendanceSearchDTO struct {
	EmployeeID *uint            `json:"employeeId"`
	DateFrom   *common.DateOnly `json:"dateFrom"`
	DateTo     *common.DateOnly `json:"dateTo"`
	Approval   *string          `json:"approval" binding:"omitempty,oneof=PENDING APPROVED REJECTED NOT_REQUIRED"`
	Limit      int              `json:"limit" binding:"omitempty,min=1,max=500"`
	Offset     int              `json:"offset" binding:"omitempty,min=0"`
}

type EmployeeCreateDTO struct {
	FirstName string  `json:"firstName" binding:"required,max=100"`
	Surname   string  `json:"surname" binding:"required,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Role      string  `json:"role" binding:"required,oneof=FIELD_ENGINEER IN_OFFICE"`
}

type EmployeeSearchDTO struct {
	Query  string  `json:"query"`
	Role   *string `json:"role" binding:"omitempty,oneof=FIELD_ENGINEER IN_OFFICE"`
	Status *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Limit  int     `json:"limit" binding:"omitempty,min=1,max=500"`
	Offset int     `json:"offset" binding:"omitempty,min=0"`
}

type CustomerCreateDTO struct {
	Name  string  `json:"name" binding:"required,max=255"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	ABN   *string `json:"abn" binding:"omitempty,max=20"`
}

type OfficeLocationDTO struct {
	// Either an address to forward-geocode or explicit coordinates.
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	RadiusM   *float64 `json:"radiusM" binding:"omitempty,min=10,max=100000"`
	Name      string   `json:"name" binding:"omitempty,max=255"`
}

type ConfigurationDTO struct {
	Value string `json:"value" binding:"required,max=255"`
}

type AttendanceDTO struct {
	ID             uint       `json:"id"`
	EmployeeID     uint       `json:"employeeId"`
	Date           string     `json:"date"`
	ClockIn        *time.Time `json:"clockIn"`
	ClockOut       *time.Time `json:"clockOut"`
	Status         string     `json:"status"`
	ApprovalStatus string     `json:"approvalStatus"`
	AttemptCount   int        `json:"attemptCount"`
	Locked         bool       `json:"locked"`
	LockedReason   *string    `json:"lockedReason,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Source         string     `json:"source"`
}

func toAttendanceDTO(att *core.Attendance) AttendanceDTO {
	return AttendanceDTO{
		ID:             att.ID,
		EmployeeID:     att.EmployeeID,
		Date:           att.Date.Format("2006-01-02"),
		ClockIn:        att.ClockIn,
		ClockOut:       att.ClockOut,
		Status:         att.Status,
		ApprovalStatus: att.ApprovalStatus,
		AttemptCount:   att.AttemptCount,
		Locked:         att.Locked,
		LockedReason:   att.LockedReason,
		Location:       att.Location,
		Source:         att.Source,
	}
}

type TaskDTO struct {
	ID       uint       `json:"id"`
	Title    string     `json:"title"`
	Category string     `json:"category,omitempty"`
	Status   string     `json:"status"`
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
	Location *string    `json:"location,omitempty"`
	TicketID *uint      `json:"ticketId,omitempty"`
}

func toTaskDTO(t *core.Task) TaskDTO {
	return TaskDTO{
		ID:       t.ID,
		Title:    t.Title,
		Category: t.Category,
		Status:   t.Status,
		CheckIn:  t.CheckIn,
		CheckOut: t.CheckOut,
		Location: t.Location,
		TicketID: t.TicketID,
	}
}

type EmployeeDTO struct {
	ID        uint    `json:"id"`
	Code      string  `json:"code"`
	FirstName string  `json:"firstName"`
	Surname   string  `json:"surname"`
	Email     *string `json:"email,omitempty"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
}

func toEmployeeDTO(emp *core.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        emp.EmployeeId,
		Code:      emp.Code,
		FirstName: emp.FirstName,
		Surname:   emp.Surname,
		Email:     emp.Email,
		Role:      emp.Role,
		Status:    emp.Status,
	}
}
