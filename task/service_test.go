package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"crewtrack.com/crewtrack/attendance"
	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 8, 20, 8, 30, 0, 0, time.UTC)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, core.Migrate(db))
	return db
}

func newService(at time.Time) *Service {
	attSvc := attendance.NewService(core.NewSettingsService(), nil, nil)
	attSvc.Now = func() time.Time { return at }
	svc := NewService(attSvc)
	svc.Now = func() time.Time { return at }
	return svc
}

func createEmployee(t *testing.T, db *gorm.DB, role string) *core.Employee {
	t.Helper()
	emp := &core.Employee{
		FirstName: "Sam",
		Surname:   "Carter",
		Role:      role,
		Status:    core.EmployeeStatusActive,
	}
	require.NoError(t, core.CreateEmployee(db, emp))
	return emp
}

func createTask(t *testing.T, db *gorm.DB, employeeID uint, title string) *core.Task {
	t.Helper()
	task := &core.Task{
		Title:      title,
		Category:   "INSTALLATION",
		EmployeeID: employeeID,
		Status:     core.TaskStatusUnstarted,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestFieldEngineerNeedsApprovedAttendance(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	task := createTask(t, db, emp.EmployeeId, "Install router")

	// No attendance at all.
	_, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, ErrAttendanceNotApproved)

	// Clocked in but still pending approval.
	att, err := svc.Attendance.CheckIn(context.Background(), db, "acme", attendance.CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, ErrAttendanceNotApproved)

	// Approved: check-in goes through.
	_, err = svc.Attendance.Approve(context.Background(), db, att.ID, 1, nil)
	require.NoError(t, err)

	started, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusInProgress, started.Status)
	require.NotNil(t, started.CheckIn)
}

func TestRejectedAttendanceBlocksTask(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	task := createTask(t, db, emp.EmployeeId, "Install router")

	att, err := svc.Attendance.CheckIn(context.Background(), db, "acme", attendance.CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)
	_, err = svc.Attendance.Reject(context.Background(), db, att.ID, 1, utils.Ptr("not on site"))
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, ErrAttendanceNotApproved)
}

func TestInOfficeCheckInInfersAttendance(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	task := createTask(t, db, emp.EmployeeId, "Prepare quote")

	started, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusInProgress, started.Status)

	// The task check-in doubled as the daily clock-in.
	att, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	require.NotNil(t, att)
	require.NotNil(t, att.ClockIn)
	assert.Equal(t, core.ApprovalNotRequired, att.ApprovalStatus)
}

func TestLockedAttendanceBlocksInOfficeTask(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	task := createTask(t, db, emp.EmployeeId, "Prepare quote")

	require.NoError(t, db.Create(&core.SystemConfiguration{
		Key:       core.ConfigOfficeLocation,
		Value:     "Head Office",
		Latitude:  utils.Ptr(-33.8688),
		Longitude: utils.Ptr(151.2093),
		RadiusM:   utils.Ptr(250.0),
	}).Error)

	outside := attendance.CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(-33.9000),
		Longitude:  utils.Ptr(151.2500),
	}
	for i := 0; i < 4; i++ {
		svc.Attendance.CheckIn(context.Background(), db, "acme", outside)
	}

	// A task check-in must not open the locked record via the inferred
	// clock-in.
	_, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, attendance.ErrLockedAttendance)

	att, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.True(t, att.Locked)
	assert.Nil(t, att.ClockIn)

	var reloaded core.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.Equal(t, core.TaskStatusUnstarted, reloaded.Status)
}

func TestSingleActiveTask(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	first := createTask(t, db, emp.EmployeeId, "Prepare quote")
	second := createTask(t, db, emp.EmployeeId, "Stock take")

	_, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     first.ID,
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     second.ID,
	})
	var active *AnotherTaskActiveError
	require.True(t, errors.As(err, &active))
	assert.Equal(t, first.ID, active.TaskID)
	assert.Equal(t, "Prepare quote", active.Title)

	// Completing the first frees the slot.
	_, err = svc.CheckOut(context.Background(), db, emp.EmployeeId, first.ID)
	require.NoError(t, err)

	started, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     second.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusInProgress, started.Status)
}

func TestCheckInStatusGuards(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	task := createTask(t, db, emp.EmployeeId, "Prepare quote")

	_, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	require.NoError(t, err)

	// Re-checking into the same in-progress task is rejected.
	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, ErrAlreadyInProgress)

	_, err = svc.CheckOut(context.Background(), db, emp.EmployeeId, task.ID)
	require.NoError(t, err)

	// Completed tasks cannot be restarted.
	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCheckOutGuards(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	task := createTask(t, db, emp.EmployeeId, "Prepare quote")

	// Not started yet.
	_, err := svc.CheckOut(context.Background(), db, emp.EmployeeId, task.ID)
	assert.ErrorIs(t, err, ErrNotInProgress)

	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	require.NoError(t, err)

	done, err := svc.CheckOut(context.Background(), db, emp.EmployeeId, task.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusCompleted, done.Status)
	require.NotNil(t, done.CheckOut)

	// Checkout is final.
	_, err = svc.CheckOut(context.Background(), db, emp.EmployeeId, task.ID)
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestTaskOwnership(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	owner := createEmployee(t, db, core.RoleInOffice)
	other := createEmployee(t, db, core.RoleInOffice)
	task := createTask(t, db, owner.EmployeeId, "Prepare quote")

	_, err := svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: other.EmployeeId,
		TaskID:     task.ID,
	})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.CheckOut(context.Background(), db, other.EmployeeId, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCurrentTask(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	task := createTask(t, db, emp.EmployeeId, "Prepare quote")

	current, err := svc.CurrentTask(context.Background(), db, emp.EmployeeId)
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = svc.CheckIn(context.Background(), db, CheckInInput{
		Tenant:     "acme",
		EmployeeID: emp.EmployeeId,
		TaskID:     task.ID,
	})
	require.NoError(t, err)

	current, err = svc.CurrentTask(context.Background(), db, emp.EmployeeId)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, task.ID, current.ID)
}
