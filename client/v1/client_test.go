package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crewtrack.com/crewtrack/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "dGVzdC1zaWduaW5nLXNlY3JldC1mb3ItdW5pdC10ZXN0cw=="

func TestAttendanceCheckIn(t *testing.T) {
	token, err := security.CreateIdentityToken(&security.CrewtrackIdentity{
		Id:       5,
		UserName: "jordan",
		Email:    "jordan@acme.crewtrack.net",
		Role:     "EMPLOYEE",
	}, testSecret, 3600)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/attendance/check-in", r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))

		var body CheckInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, uint(5), body.EmployeeID)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id":             1,
				"employeeId":     5,
				"date":           "2026-08-20",
				"status":         "PRESENT",
				"approvalStatus": "PENDING",
				"attemptCount":   1,
			},
		})
	}))
	defer server.Close()

	client := NewCrewtrackClient(server.URL, token)

	att, err := client.Attendance.CheckIn(&CheckInRequest{EmployeeID: 5})
	require.NoError(t, err)
	assert.Equal(t, "PRESENT", att.Status)
	assert.Equal(t, "PENDING", att.ApprovalStatus)
	assert.Equal(t, 1, att.AttemptCount)
}

func TestAttendanceCheckInRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "attendance locked: too many failed attempts",
		})
	}))
	defer server.Close()

	client := NewCrewtrackClient(server.URL, "token")

	_, err := client.Attendance.CheckIn(&CheckInRequest{EmployeeID: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 400")
}

func TestTaskCheckOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks/42/check-out", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id":     42,
				"title":  "Install router",
				"status": "COMPLETED",
			},
		})
	}))
	defer server.Close()

	client := NewCrewtrackClient(server.URL, "token")

	task, err := client.Tasks.CheckOut(42, 5)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", task.Status)
}
