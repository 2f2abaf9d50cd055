package task

import (
	"context"
	"errors"
	"time"

	"crewtrack.com/crewtrack/attendance"
	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/geo"
	"crewtrack.com/crewtrack/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service tracks a single employee's active task session. It never touches
// the attendance table directly; the dependency on daily attendance goes
// through the attendance service API so the gating stays auditable.
type Service struct {
	Attendance *attendance.Service
	Geocoder   *geo.Geocoder

	Now func() time.Time
}

func NewService(att *attendance.Service) *Service {
	return &Service{
		Attendance: att,
		Geocoder:   att.Geocoder,
		Now:        time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CheckInInput struct {
	Tenant     string
	EmployeeID uint
	TaskID     uint
	IPAddress  string
	UserAgent  string
	Photo      *string
	Latitude   *float64
	Longitude  *float64
}

// CheckIn starts a work session on the task.
//
// Field engineers need today's attendance approved first; in-office staff
// get an attendance row inferred from the task check-in. The whole check is
// a transaction so two simultaneous check-ins cannot both pass the
// single-active-task test.
func (s *Service) CheckIn(ctx context.Context, db *gorm.DB, input CheckInInput) (*core.Task, error) {
	var checked *core.Task

	err := db.Transaction(func(tx *gorm.DB) error {
		emp, err := core.FindEmployeeByID(tx, input.EmployeeID)
		if err != nil {
			return err
		}
		if emp == nil {
			return ErrEmployeeNotFound
		}

		t, err := core.FindTaskByID(tx, input.TaskID)
		if err != nil {
			return err
		}
		if t == nil || t.EmployeeID != emp.EmployeeId {
			return ErrTaskNotFound
		}

		switch t.Status {
		case core.TaskStatusCompleted:
			return ErrAlreadyCompleted
		case core.TaskStatusInProgress:
			return ErrAlreadyInProgress
		}

		if emp.IsFieldEngineer() {
			approved, err := s.Attendance.ApprovedForToday(ctx, tx, emp.EmployeeId)
			if err != nil {
				return err
			}
			if !approved {
				return ErrAttendanceNotApproved
			}
		} else {
			// Task check-in doubles as clock-in for in-office staff.
			if _, err := s.Attendance.EnsureInferredAttendance(ctx, tx, input.Tenant, emp.EmployeeId); err != nil {
				return err
			}
		}

		// Lock any active row so a concurrent check-in serializes here.
		// sqlite has no row locks; its single writer serializes anyway.
		lockQuery := tx.Where("employee_id = ? AND status = ?", emp.EmployeeId, core.TaskStatusInProgress)
		if tx.Dialector.Name() != "sqlite" {
			lockQuery = lockQuery.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var active core.Task
		err = lockQuery.First(&active).Error
		if err == nil {
			return &AnotherTaskActiveError{TaskID: active.ID, Title: active.Title}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.now()
		t.Status = core.TaskStatusInProgress
		t.CheckIn = &now
		t.Photo = input.Photo
		if input.Latitude != nil && input.Longitude != nil {
			t.Location = utils.Ptr(s.Geocoder.ResolveLocationName(ctx, *input.Latitude, *input.Longitude))
		}
		if err := tx.Save(t).Error; err != nil {
			return err
		}

		checked = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checked, nil
}

// CheckOut completes the task's work session. Irreversible; there is no
// re-open operation.
func (s *Service) CheckOut(ctx context.Context, db *gorm.DB, employeeID, taskID uint) (*core.Task, error) {
	var checked *core.Task

	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := core.FindTaskByID(tx, taskID)
		if err != nil {
			return err
		}
		if t == nil || t.EmployeeID != employeeID {
			return ErrTaskNotFound
		}

		if t.Status != core.TaskStatusInProgress || t.CheckIn == nil {
			return ErrNotInProgress
		}

		now := s.now()
		t.Status = core.TaskStatusCompleted
		t.CheckOut = &now
		if err := tx.Save(t).Error; err != nil {
			return err
		}

		checked = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checked, nil
}

// CurrentTask returns the employee's single IN_PROGRESS task, or nil.
func (s *Service) CurrentTask(ctx context.Context, db *gorm.DB, employeeID uint) (*core.Task, error) {
	emp, err := core.FindEmployeeByID(db, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return core.FindActiveTask(db, employeeID)
}
