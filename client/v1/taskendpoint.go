package v1

import (
	"encoding/json"
	"fmt"
	"time"
)

type TaskDTO struct {
	ID       uint       `json:"id"`
	Title    string     `json:"title"`
	Category string     `json:"category,omitempty"`
	Status   string     `json:"status"`
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
	Location *string    `json:"location,omitempty"`
}

type TaskCheckInRequest struct {
	EmployeeID uint     `json:"employeeId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Photo      *string  `json:"photo,omitempty"`
}

type taskEnvelope struct {
	Success bool    `json:"success"`
	Data    TaskDTO `json:"data"`
	Message string  `json:"message"`
}

type TaskEndpoint struct {
	transport *Transport
}

func (e *TaskEndpoint) CheckIn(taskID uint, req *TaskCheckInRequest) (*TaskDTO, error) {
	resp, err := e.transport.Post(fmt.Sprintf("/api/tasks/%d/check-in", taskID), req, nil)
	if err != nil {
		return nil, err
	}

	var result taskEnvelope
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("task check-in rejected: %s", result.Message)
	}
	return &result.Data, nil
}

func (e *TaskEndpoint) CheckOut(taskID uint, employeeID uint) (*TaskDTO, error) {
	resp, err := e.transport.Post(
		fmt.Sprintf("/api/tasks/%d/check-out", taskID),
		map[string]uint{"employeeId": employeeID},
		nil,
	)
	if err != nil {
		return nil, err
	}

	var result taskEnvelope
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("task check-out rejected: %s", result.Message)
	}
	return &result.Data, nil
}
