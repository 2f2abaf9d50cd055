package v1

import (
	"encoding/json"
	"fmt"
	"time"
)

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

type CheckInRequest struct {
	EmployeeID uint     `json:"employeeId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Photo      *string  `json:"photo,omitempty"`
}

type attendanceEnvelope struct {
	Success bool          `json:"success"`
	Data    AttendanceDTO `json:"data"`
	Message string        `json:"message"`
}

type AttendanceEndpoint struct {
	transport *Transport
}

func (e *AttendanceEndpoint) CheckIn(req *CheckInRequest) (*AttendanceDTO, error) {
	resp, err := e.transport.Post("/api/attendance/check-in", req, nil)
	if err != nil {
		return nil, err
	}

	var result attendanceEnvelope
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("check-in rejected: %s", result.Message)
	}
	return &result.Data, nil
}

func (e *AttendanceEndpoint) Approve(id uint, reason *string) (*AttendanceDTO, error) {
	return e.resolve(fmt.Sprintf("/api/attendance/%d/approve", id), map[string]any{"reason": reason})
}

func (e *AttendanceEndpoint) Reject(id uint, reason string) (*AttendanceDTO, error) {
	return e.resolve(fmt.Sprintf("/api/attendance/%d/reject", id), map[string]any{"reason": reason})
}

func (e *AttendanceEndpoint) resolve(path string, body map[string]any) (*AttendanceDTO, error) {
	resp, err := e.transport.Put(path, body)
	if err != nil {
		return nil, err
	}

	var result attendanceEnvelope
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("approval update rejected: %s", result.Message)
	}
	return &result.Data, nil
}

// Search returns attendance rows matching the filter along with the total
// count before paging.
func (e *AttendanceEndpoint) Search(filter map[string]any) ([]AttendanceDTO, int64, error) {
	resp, err := e.transport.Post("/api/attendance/search", filter, nil)
	if err != nil {
		return nil, 0, err
	}

	var result struct {
		Success    bool            `json:"success"`
		Data       []AttendanceDTO `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, 0, err
	}
	return result.Data, result.Pagination.Total, nil
}
