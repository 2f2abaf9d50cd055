package task

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrAlreadyCompleted      = errors.New("task is already completed")
	ErrAlreadyInProgress     = errors.New("task is already in progress")
	ErrNotInProgress         = errors.New("task is not in progress")
	ErrAttendanceNotApproved = errors.New("attendance for today has not been approved")
)

// AnotherTaskActiveError names the task blocking a new check-in. An employee
// can only have one task in progress at a time.
type AnotherTaskActiveError struct {
	TaskID uint
	Title  string
}

func (e *AnotherTaskActiveError) Error() string {
	return "another task is already in progress: " + e.Title
}

// IsBusinessError reports whether err should surface as a 400.
func IsBusinessError(err error) bool {
	var active *AnotherTaskActiveError
	if errors.As(err, &active) {
		return true
	}
	for _, e := range []error{
		ErrEmployeeNotFound,
		ErrTaskNotFound,
		ErrAlreadyCompleted,
		ErrAlreadyInProgress,
		ErrNotInProgress,
		ErrAttendanceNotApproved,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
