package attendance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Office at Sydney CBD; a point ~5km away is outside the default fence.
const (
	officeLat = -33.8688
	officeLng = 151.2093
	farLat    = -33.9000
	farLng    = 151.2500
)

var testNow = time.Date(2026, 8, 20, 8, 30, 0, 0, time.UTC)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database so every pooled connection sees the
	// same in-memory schema, isolated per test.
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
	svc := NewService(core.NewSettingsService(), nil, nil)
	svc.Now = func() time.Time { return at }
	return svc
}

func createEmployee(t *testing.T, db *gorm.DB, role string) *core.Employee {
	t.Helper()
	emp := &core.Employee{
		FirstName: "Jordan",
		Surname:   "Lee",
		Role:      role,
		Status:    core.EmployeeStatusActive,
	}
	require.NoError(t, core.CreateEmployee(db, emp))
	return emp
}

func configureOffice(t *testing.T, db *gorm.DB, radiusM float64) {
	t.Helper()
	require.NoError(t, db.Create(&core.SystemConfiguration{
		Key:       core.ConfigOfficeLocation,
		Value:     "Head Office",
		Latitude:  utils.Ptr(officeLat),
		Longitude: utils.Ptr(officeLng),
		RadiusM:   utils.Ptr(radiusM),
	}).Error)
}

func TestCheckInFieldEngineer(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)

	att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)

	assert.Equal(t, core.AttendanceStatusPresent, att.Status)
	assert.Equal(t, core.ApprovalPending, att.ApprovalStatus)
	assert.Equal(t, 1, att.AttemptCount)
	assert.Equal(t, core.AttendanceSourceSelf, att.Source)
	require.NotNil(t, att.ClockIn)
	assert.Equal(t, testNow, att.ClockIn.UTC())

	// Approval notification row is created for admins.
	notifications, err := core.UnreadNotifications(db, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, core.NotificationAttendanceApproval, notifications[0].Kind)
}

func TestCheckInInOfficeSkipsApproval(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)

	att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)

	assert.Equal(t, core.ApprovalNotRequired, att.ApprovalStatus)

	notifications, err := core.UnreadNotifications(db, 10)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestCheckInAfterCutoffIsLate(t *testing.T) {
	db := setupDB(t)
	svc := newService(time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC))
	emp := createEmployee(t, db, core.RoleInOffice)

	att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)
	assert.Equal(t, core.AttendanceStatusLate, att.Status)
}

func TestCheckInInactiveEmployee(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	require.NoError(t, db.Model(emp).Update("status", core.EmployeeStatusInactive).Error)

	_, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	assert.ErrorIs(t, err, ErrEmployeeInactive)
}

func TestCheckInUnknownEmployee(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)

	_, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInGeofence(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	configureOffice(t, db, 250)

	t.Run("Missing coordinates", func(t *testing.T) {
		_, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
		assert.ErrorIs(t, err, ErrLocationRequired)
	})

	t.Run("Outside the fence", func(t *testing.T) {
		_, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{
			EmployeeID: emp.EmployeeId,
			Latitude:   utils.Ptr(farLat),
			Longitude:  utils.Ptr(farLng),
		})
		assert.ErrorIs(t, err, ErrOutsideGeofence)
	})

	t.Run("Failed attempts were counted", func(t *testing.T) {
		att, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
		require.NoError(t, err)
		require.NotNil(t, att)
		assert.Equal(t, 2, att.AttemptCount)
		assert.Nil(t, att.ClockIn)
	})

	t.Run("Inside the fence succeeds", func(t *testing.T) {
		att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{
			EmployeeID: emp.EmployeeId,
			Latitude:   utils.Ptr(officeLat + 0.0005),
			Longitude:  utils.Ptr(officeLng),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, att.AttemptCount)
		require.NotNil(t, att.ClockIn)
		require.NotNil(t, att.Location)
		// No geocoder wired; location falls back to formatted coordinates.
		assert.Contains(t, *att.Location, "151.209")
	})
}

func TestCheckInLockout(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	configureOffice(t, db, 250)

	outside := CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(farLat),
		Longitude:  utils.Ptr(farLng),
	}

	// Three failed attempts use up the allowance.
	for i := 0; i < 3; i++ {
		_, err := svc.CheckIn(context.Background(), db, "acme", outside)
		assert.ErrorIs(t, err, ErrOutsideGeofence)
	}

	// The fourth locks the record.
	_, err := svc.CheckIn(context.Background(), db, "acme", outside)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)

	att, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.True(t, att.Locked)
	assert.Equal(t, 4, att.AttemptCount)
	assert.Equal(t, core.AttendanceStatusAbsent, att.Status)

	// Further attempts are refused without touching the counter, even from
	// inside the fence.
	_, err = svc.CheckIn(context.Background(), db, "acme", CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(officeLat),
		Longitude:  utils.Ptr(officeLng),
	})
	assert.ErrorIs(t, err, ErrLockedAttendance)

	att, err = core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	assert.Equal(t, 4, att.AttemptCount)
}

func TestReEnableAfterLockout(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	configureOffice(t, db, 250)

	outside := CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(farLat),
		Longitude:  utils.Ptr(farLng),
	}
	for i := 0; i < 4; i++ {
		svc.CheckIn(context.Background(), db, "acme", outside)
	}

	locked, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	require.True(t, locked.Locked)

	att, err := svc.ReEnable(context.Background(), db, locked.ID, 1, utils.Ptr("verified by phone"), false)
	require.NoError(t, err)
	assert.False(t, att.Locked)
	assert.Equal(t, 0, att.AttemptCount)
	assert.Nil(t, att.LockedReason)

	// Check-in works again from inside the fence.
	att, err = svc.CheckIn(context.Background(), db, "acme", CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(officeLat),
		Longitude:  utils.Ptr(officeLng),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, att.AttemptCount)
	require.NotNil(t, att.ClockIn)

	// The reset is audited.
	var audits []core.AuditLog
	require.NoError(t, db.Where("action = ?", core.AuditReEnableCheckIn).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, uint(1), audits[0].AdminID)
}

func TestReEnableIsIdempotent(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)

	first, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)

	// The record is unlocked but carries one counted attempt; clear it.
	_, err = svc.ReEnable(context.Background(), db, first.ID, 1, nil, false)
	require.NoError(t, err)

	// A second call is a no-op and writes no further audit rows.
	_, err = svc.ReEnable(context.Background(), db, first.ID, 1, nil, false)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&core.AuditLog{}).Where("action = ?", core.AuditReEnableCheckIn).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApprovalTransitions(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)

	att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)
	require.Equal(t, core.ApprovalPending, att.ApprovalStatus)

	approved, err := svc.Approve(context.Background(), db, att.ID, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, core.ApprovalApproved, approved.ApprovalStatus)
	require.NotNil(t, approved.ApprovedByID)
	assert.Equal(t, uint(7), *approved.ApprovedByID)

	// Approved records cannot be re-resolved.
	_, err = svc.Approve(context.Background(), db, att.ID, 7, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Reject(context.Background(), db, att.ID, 7, utils.Ptr("too late"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectKeepsClockIn(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)

	att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), db, att.ID, 7, utils.Ptr("not on site"))
	require.NoError(t, err)
	assert.Equal(t, core.ApprovalRejected, rejected.ApprovalStatus)
	assert.NotNil(t, rejected.ClockIn)
}

func TestApproveUnknownRecord(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)

	_, err := svc.Approve(context.Background(), db, 12345, 7, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestBypassCreate(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	configureOffice(t, db, 250)

	// No coordinates, no attempts: the admin path skips both checks.
	att, err := svc.BypassCreate(context.Background(), db, "acme", BypassCreateInput{
		EmployeeID: emp.EmployeeId,
		AdminID:    7,
		Status:     core.AttendanceStatusPresent,
		Location:   utils.Ptr("Head Office"),
		Reason:     utils.Ptr("device left at home"),
	})
	require.NoError(t, err)

	assert.Equal(t, core.AttendanceSourceAdmin, att.Source)
	assert.Equal(t, core.ApprovalApproved, att.ApprovalStatus)
	assert.Equal(t, 0, att.AttemptCount)
	require.NotNil(t, att.ClockIn)

	var audits []core.AuditLog
	require.NoError(t, db.Where("action = ?", core.AuditBypassCheckIn).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, uint(7), audits[0].AdminID)
}

func TestBypassCreateBackfillsSuppliedDay(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)

	yesterday := testNow.AddDate(0, 0, -1).Add(-30 * time.Minute)
	att, err := svc.BypassCreate(context.Background(), db, "acme", BypassCreateInput{
		EmployeeID: emp.EmployeeId,
		AdminID:    7,
		Status:     core.AttendanceStatusPresent,
		ClockIn:    utils.Ptr(yesterday),
		Reason:     utils.Ptr("badge reader outage"),
	})
	require.NoError(t, err)

	assert.Equal(t, utils.DayStart(yesterday), att.Date)
	require.NotNil(t, att.ClockIn)
	assert.True(t, att.ClockIn.Equal(yesterday))

	// Today stays untouched.
	today, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	assert.Nil(t, today)
}

func TestBypassCreateUnlocksRecord(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	configureOffice(t, db, 250)

	outside := CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(farLat),
		Longitude:  utils.Ptr(farLng),
	}
	for i := 0; i < 4; i++ {
		svc.CheckIn(context.Background(), db, "acme", outside)
	}

	att, err := svc.BypassCreate(context.Background(), db, "acme", BypassCreateInput{
		EmployeeID: emp.EmployeeId,
		AdminID:    7,
		Status:     core.AttendanceStatusLate,
	})
	require.NoError(t, err)
	assert.False(t, att.Locked)
	assert.Equal(t, core.AttendanceStatusLate, att.Status)
}

func TestRemainingAttemptsToday(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)
	configureOffice(t, db, 250)

	remaining, found, err := svc.RemainingAttemptsToday(context.Background(), db, "acme", emp.EmployeeId)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, core.DefaultMaxAttempts, remaining)

	svc.CheckIn(context.Background(), db, "acme", CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(farLat),
		Longitude:  utils.Ptr(farLng),
	})

	remaining, found, err = svc.RemainingAttemptsToday(context.Background(), db, "acme", emp.EmployeeId)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, core.DefaultMaxAttempts-1, remaining)
}

func TestEnsureInferredAttendance(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)

	att, err := svc.EnsureInferredAttendance(context.Background(), db, "acme", emp.EmployeeId)
	require.NoError(t, err)
	assert.Equal(t, core.ApprovalNotRequired, att.ApprovalStatus)
	assert.Equal(t, core.AttendanceStatusPresent, att.Status)
	require.NotNil(t, att.ClockIn)

	// A second call leaves the existing clock-in untouched.
	again, err := svc.EnsureInferredAttendance(context.Background(), db, "acme", emp.EmployeeId)
	require.NoError(t, err)
	assert.Equal(t, att.ID, again.ID)
	assert.Equal(t, att.ClockIn.UTC(), again.ClockIn.UTC())
}

func TestEnsureInferredAttendanceRefusesLockedRecord(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleInOffice)
	configureOffice(t, db, 250)

	outside := CheckInInput{
		EmployeeID: emp.EmployeeId,
		Latitude:   utils.Ptr(farLat),
		Longitude:  utils.Ptr(farLng),
	}
	for i := 0; i < 4; i++ {
		svc.CheckIn(context.Background(), db, "acme", outside)
	}

	// The lock holds until an admin re-enables, even on the inferred path.
	_, err := svc.EnsureInferredAttendance(context.Background(), db, "acme", emp.EmployeeId)
	assert.ErrorIs(t, err, ErrLockedAttendance)

	att, err := core.FindAttendanceForDay(db, emp.EmployeeId, testNow)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.True(t, att.Locked)
	assert.Nil(t, att.ClockIn)
}

func TestCheckInRaceKeepsSingleDailyRow(t *testing.T) {
	db := setupDB(t)
	svc := newService(testNow)
	emp := createEmployee(t, db, core.RoleFieldEngineer)

	// Slip a competing row in between the find and the create, the way a
	// second request racing on the (employee, day) unique index would.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("race_daily_row", func(tx *gorm.DB) {
		if raced || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "attendances" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Create(&core.Attendance{
			EmployeeID:     emp.EmployeeId,
			Date:           utils.DayStart(testNow),
			Status:         core.AttendanceStatusAbsent,
			ApprovalStatus: core.ApprovalPending,
		})
	})
	require.NoError(t, err)

	// The losing insert is re-read and the check-in proceeds on that row.
	att, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)
	assert.True(t, raced)
	require.NotNil(t, att.ClockIn)
	assert.Equal(t, 1, att.AttemptCount)

	var count int64
	require.NoError(t, db.Model(&core.Attendance{}).Where("employee_id = ?", emp.EmployeeId).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingNotifier) AttendanceNeedsApproval(ctx context.Context, tenant string, emp *core.Employee, att *core.Attendance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, emp.Code)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestCheckInNotifiesApprover(t *testing.T) {
	db := setupDB(t)
	notifier := &recordingNotifier{}
	svc := newService(testNow)
	svc.Notifier = notifier
	emp := createEmployee(t, db, core.RoleFieldEngineer)

	_, err := svc.CheckIn(context.Background(), db, "acme", CheckInInput{EmployeeID: emp.EmployeeId})
	require.NoError(t, err)

	// The notifier runs on its own goroutine.
	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
}
