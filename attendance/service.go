package attendance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/geo"
	"crewtrack.com/crewtrack/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier fans an admin notification out to external channels (Slack,
// email). Implementations must not block the request path.
type Notifier interface {
	AttendanceNeedsApproval(ctx context.Context, tenant string, emp *core.Employee, att *core.Attendance)
}

// Service runs the daily clock-in/out and approval workflow.
type Service struct {
	Settings *core.SettingsService
	Geocoder *geo.Geocoder
	Notifier Notifier

	// Now is swappable for tests.
	Now func() time.Time
}

func NewService(settings *core.SettingsService, geocoder *geo.Geocoder, notifier Notifier) *Service {
	return &Service{
		Settings: settings,
		Geocoder: geocoder,
		Notifier: notifier,
		Now:      time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CheckInInput struct {
	EmployeeID uint
	Latitude   *float64
	Longitude  *float64
	Photo      *string
	IPAddress  string
	DeviceInfo datatypes.JSON
}

// CheckIn creates or updates today's attendance row for the employee.
//
// Attempt accounting: every call on an unlocked record increments the
// attempt counter, a geofence failure leaves the counter incremented without
// a clock-in, and once the counter passes the configured maximum the record
// locks with status ABSENT until an admin re-enables it. A locked record
// refuses further check-ins without incrementing anything.
func (s *Service) CheckIn(ctx context.Context, db *gorm.DB, tenant string, input CheckInInput) (*core.Attendance, error) {
	emp, err := core.FindEmployeeByID(db, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrNotFound
	}
	if !emp.IsActive() {
		return nil, ErrEmployeeInactive
	}

	settings, err := s.Settings.Load(db, tenant)
	if err != nil {
		return nil, err
	}

	now := s.now()
	att, err := s.todayRecord(db, emp.EmployeeId, now)
	if err != nil {
		return nil, err
	}

	if att.Locked {
		return nil, lockedError(att)
	}

	att.AttemptCount++
	if AttemptsExhausted(att.AttemptCount, settings.MaxAttempts) {
		att.Locked = true
		att.LockedReason = utils.Ptr(fmt.Sprintf("locked after %d failed check-in attempts", settings.MaxAttempts))
		att.Status = core.AttendanceStatusAbsent
		if err := db.Save(att).Error; err != nil {
			return nil, err
		}
		return nil, ErrAttemptsExhausted
	}

	if failure := s.checkGeofence(settings, input.Latitude, input.Longitude); failure != nil {
		// The failed attempt still counts.
		if err := db.Save(att).Error; err != nil {
			return nil, err
		}
		return nil, failure
	}

	att.ClockIn = &now
	att.Status = DeriveStatus(now, settings.CutoffTime)
	att.ApprovalStatus = InitialApprovalStatus(emp)
	att.Source = core.AttendanceSourceSelf
	att.IPAddress = utils.Ptr(input.IPAddress)
	att.Photo = input.Photo
	if len(input.DeviceInfo) > 0 {
		att.DeviceInfo = input.DeviceInfo
	}
	if input.Latitude != nil && input.Longitude != nil {
		att.Latitude = input.Latitude
		att.Longitude = input.Longitude
		att.Location = utils.Ptr(s.Geocoder.ResolveLocationName(ctx, *input.Latitude, *input.Longitude))
	}

	if err := db.Save(att).Error; err != nil {
		return nil, err
	}

	if emp.IsFieldEngineer() {
		s.notifyApprovalNeeded(ctx, db, tenant, emp, att)
	}

	return att, nil
}

// lockedError surfaces the stored lock reason with the sentinel wrapped in.
func lockedError(att *core.Attendance) error {
	reason := utils.Format(att.LockedReason)
	if reason == "" {
		reason = ErrLockedAttendance.Error()
	}
	return fmt.Errorf("%w: %s", ErrLockedAttendance, reason)
}

// todayRecord loads or creates today's row. A concurrent create losing the
// unique-index race is re-read instead of failing the request.
func (s *Service) todayRecord(db *gorm.DB, employeeID uint, now time.Time) (*core.Attendance, error) {
	att, err := core.FindAttendanceForDay(db, employeeID, now)
	if err != nil {
		return nil, err
	}
	if att != nil {
		return att, nil
	}

	att = &core.Attendance{
		EmployeeID:     employeeID,
		Date:           utils.DayStart(now),
		ApprovalStatus: core.ApprovalPending,
		Status:         core.AttendanceStatusAbsent,
	}
	if err := db.Create(att).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.FindAttendanceForDay(db, employeeID, now)
		}
		return nil, err
	}
	return att, nil
}

func (s *Service) checkGeofence(settings *core.Settings, lat, lng *float64) error {
	if !settings.HasOffice {
		return nil
	}
	if lat == nil || lng == nil {
		return ErrLocationRequired
	}
	if !geo.WithinRadius(*lat, *lng, settings.OfficeLat, settings.OfficeLng, settings.RadiusM) {
		return ErrOutsideGeofence
	}
	return nil
}

func (s *Service) notifyApprovalNeeded(ctx context.Context, db *gorm.DB, tenant string, emp *core.Employee, att *core.Attendance) {
	notification := core.Notification{
		Key:        fmt.Sprintf("approval-%d-%s", emp.EmployeeId, att.Date.Format("2006-01-02")),
		Kind:       core.NotificationAttendanceApproval,
		Message:    fmt.Sprintf("Attendance for %s %s (%s) needs approval", emp.FirstName, emp.Surname, emp.Code),
		EmployeeID: &emp.EmployeeId,
	}
	// Best-effort: a duplicate key just means the admin was already told.
	if err := db.Create(&notification).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("failed to create approval notification: %v", err)
	}

	if s.Notifier != nil {
		go s.Notifier.AttendanceNeedsApproval(context.WithoutCancel(ctx), tenant, emp, att)
	}
}

// Approve transitions PENDING -> APPROVED. Only valid from PENDING.
func (s *Service) Approve(ctx context.Context, db *gorm.DB, attendanceID, adminID uint, reason *string) (*core.Attendance, error) {
	return s.resolveApproval(db, attendanceID, adminID, reason, core.ApprovalApproved, core.AuditApproveAttendance)
}

// Reject transitions PENDING -> REJECTED. The clock-in is kept; rejection
// only blocks task check-in.
func (s *Service) Reject(ctx context.Context, db *gorm.DB, attendanceID, adminID uint, reason *string) (*core.Attendance, error) {
	return s.resolveApproval(db, attendanceID, adminID, reason, core.ApprovalRejected, core.AuditRejectAttendance)
}

func (s *Service) resolveApproval(db *gorm.DB, attendanceID, adminID uint, reason *string, target, auditAction string) (*core.Attendance, error) {
	att, err := core.FindAttendanceByID(db, attendanceID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrRecordNotFound
	}
	if att.ApprovalStatus != core.ApprovalPending {
		return nil, ErrInvalidTransition
	}

	att.ApprovalStatus = target
	att.ApprovedByID = &adminID
	att.ApprovalReason = reason
	if err := db.Save(att).Error; err != nil {
		return nil, err
	}

	if err := core.WriteAudit(db, core.AuditLog{
		Action:     auditAction,
		AdminID:    adminID,
		EmployeeID: &att.EmployeeID,
		RecordID:   &att.ID,
		Reason:     reason,
	}); err != nil {
		log.Printf("failed to write audit entry: %v", err)
	}

	return att, nil
}

// ReEnable clears the attempt lockout: locked=false, attempt count zeroed,
// and optionally status restored to PRESENT. Idempotent if already unlocked.
func (s *Service) ReEnable(ctx context.Context, db *gorm.DB, attendanceID, adminID uint, reason *string, restoreStatus bool) (*core.Attendance, error) {
	att, err := core.FindAttendanceByID(db, attendanceID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrRecordNotFound
	}

	if !att.Locked && att.AttemptCount == 0 {
		return att, nil
	}

	att.Locked = false
	att.LockedReason = nil
	att.AttemptCount = 0
	if restoreStatus {
		att.Status = core.AttendanceStatusPresent
	}
	if err := db.Save(att).Error; err != nil {
		return nil, err
	}

	if err := core.WriteAudit(db, core.AuditLog{
		Action:     core.AuditReEnableCheckIn,
		AdminID:    adminID,
		EmployeeID: &att.EmployeeID,
		RecordID:   &att.ID,
		Reason:     reason,
	}); err != nil {
		log.Printf("failed to write audit entry: %v", err)
	}

	return att, nil
}

type BypassCreateInput struct {
	EmployeeID uint
	AdminID    uint
	Status     string
	// ClockIn overrides the recorded clock-in time, e.g. when backfilling
	// a missed day. Defaults to now.
	ClockIn  *time.Time
	Location *string
	Reason   *string
}

// BypassCreate writes an admin-authored attendance row for today, skipping
// attempt and geofence checks entirely. Always audited.
func (s *Service) BypassCreate(ctx context.Context, db *gorm.DB, tenant string, input BypassCreateInput) (*core.Attendance, error) {
	emp, err := core.FindEmployeeByID(db, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrNotFound
	}

	clockIn := s.now()
	if input.ClockIn != nil {
		clockIn = *input.ClockIn
	}
	att, err := s.todayRecord(db, emp.EmployeeId, clockIn)
	if err != nil {
		return nil, err
	}

	att.ClockIn = &clockIn
	att.Status = input.Status
	att.Source = core.AttendanceSourceAdmin
	att.Location = input.Location
	att.Locked = false
	att.LockedReason = nil
	att.AttemptCount = 0
	if emp.IsFieldEngineer() {
		// Admin-authored presence is already verified.
		att.ApprovalStatus = core.ApprovalApproved
		att.ApprovedByID = &input.AdminID
	} else {
		att.ApprovalStatus = core.ApprovalNotRequired
	}

	if err := db.Save(att).Error; err != nil {
		return nil, err
	}

	if err := core.WriteAudit(db, core.AuditLog{
		Action:     core.AuditBypassCheckIn,
		AdminID:    input.AdminID,
		EmployeeID: &emp.EmployeeId,
		RecordID:   &att.ID,
		Reason:     input.Reason,
	}); err != nil {
		log.Printf("failed to write audit entry: %v", err)
	}

	return att, nil
}

// RemainingAttemptsToday returns max-attemptCount for today's record. The
// second return is false when no record exists yet.
func (s *Service) RemainingAttemptsToday(ctx context.Context, db *gorm.DB, tenant string, employeeID uint) (int, bool, error) {
	settings, err := s.Settings.Load(db, tenant)
	if err != nil {
		return 0, false, err
	}

	att, err := core.FindAttendanceForDay(db, employeeID, s.now())
	if err != nil {
		return 0, false, err
	}
	if att == nil {
		return settings.MaxAttempts, false, nil
	}
	return RemainingAttempts(att.AttemptCount, settings.MaxAttempts), true, nil
}

// ApprovedForToday reports whether the employee has an approved, clocked-in
// attendance row for today. The task service gates field-engineer check-ins
// on this.
func (s *Service) ApprovedForToday(ctx context.Context, db *gorm.DB, employeeID uint) (bool, error) {
	att, err := core.FindAttendanceForDay(db, employeeID, s.now())
	if err != nil {
		return false, err
	}
	return att != nil && att.ClockIn != nil && att.ApprovalStatus == core.ApprovalApproved, nil
}

// EnsureInferredAttendance creates today's NOT_REQUIRED attendance row for an
// in-office employee whose task check-in doubles as a clock-in. Existing rows
// are left untouched except for a missing clock-in, which is set. A locked
// record stays locked; only ReEnable opens it again.
func (s *Service) EnsureInferredAttendance(ctx context.Context, db *gorm.DB, tenant string, employeeID uint) (*core.Attendance, error) {
	now := s.now()
	att, err := s.todayRecord(db, employeeID, now)
	if err != nil {
		return nil, err
	}
	if att.Locked {
		return nil, lockedError(att)
	}

	if att.ClockIn == nil {
		att.ClockIn = &now
		settings, err := s.Settings.Load(db, tenant)
		if err != nil {
			return nil, err
		}
		att.ApprovalStatus = core.ApprovalNotRequired
		att.Status = DeriveStatus(now, settings.CutoffTime)
		att.Source = core.AttendanceSourceSelf
		if err := db.Save(att).Error; err != nil {
			return nil, err
		}
	}
	return att, nil
}
