package attendance

import (
	"time"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/utils"
)

// DeriveStatus classifies a clock-in against the configured cutoff time
// ("HH:MM" on the clock-in's day). At or before the cutoff is PRESENT,
// after is LATE. An unparsable cutoff falls back to PRESENT.
func DeriveStatus(clockIn time.Time, cutoff string) string {
	cutoffAt, err := utils.ParseTimeOnDate(utils.DayStart(clockIn), cutoff)
	if err != nil {
		return core.AttendanceStatusPresent
	}
	if clockIn.After(cutoffAt) {
		return core.AttendanceStatusLate
	}
	return core.AttendanceStatusPresent
}

// InitialApprovalStatus returns the approval state a fresh self check-in
// starts in. Field engineers work off-site, so their presence needs admin
// sign-off before task time is trusted; in-office staff are physically
// supervised and skip the approval step.
func InitialApprovalStatus(emp *core.Employee) string {
	if emp.IsFieldEngineer() {
		return core.ApprovalPending
	}
	return core.ApprovalNotRequired
}

// AttemptsExhausted reports whether attemptCount has passed the configured
// maximum. The count includes the attempt being evaluated, so with max 3 the
// fourth attempt locks the record.
func AttemptsExhausted(attemptCount, maxAttempts int) bool {
	return attemptCount > maxAttempts
}

// RemainingAttempts returns max-count clamped at zero.
func RemainingAttempts(attemptCount, maxAttempts int) int {
	remaining := maxAttempts - attemptCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
