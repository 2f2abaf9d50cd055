package attendance

import "errors"

// Business-rule failures. Handlers translate these into 400 responses with
// the error text as the user-visible message; anything else is a 500.
var (
	ErrNotFound          = errors.New("employee not found")
	ErrEmployeeInactive  = errors.New("employee is not active")
	ErrLockedAttendance  = errors.New("attendance record is locked")
	ErrAttemptsExhausted = errors.New("check-in attempts exhausted, contact an administrator")
	ErrOutsideGeofence   = errors.New("check-in location is outside the allowed area")
	ErrLocationRequired  = errors.New("check-in location is required")
	ErrInvalidTransition = errors.New("attendance record is not pending approval")
	ErrRecordNotFound    = errors.New("attendance record not found")
)

// IsBusinessError reports whether err is a business-rule failure that should
// surface as a 400 rather than a 500.
func IsBusinessError(err error) bool {
	for _, e := range []error{
		ErrNotFound,
		ErrEmployeeInactive,
		ErrLockedAttendance,
		ErrAttemptsExhausted,
		ErrOutsideGeofence,
		ErrLocationRequired,
		ErrInvalidTransition,
		ErrRecordNotFound,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
