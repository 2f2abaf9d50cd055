package attendance

import (
	"testing"
	"time"

	"crewtrack.com/crewtrack/core"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		clockIn  time.Time
		cutoff   string
		expected string
	}{
		{
			name:     "Well before cutoff",
			clockIn:  day.Add(8 * time.Hour),
			cutoff:   "09:00",
			expected: core.AttendanceStatusPresent,
		},
		{
			name:     "Exactly at cutoff",
			clockIn:  day.Add(9 * time.Hour),
			cutoff:   "09:00",
			expected: core.AttendanceStatusPresent,
		},
		{
			name:     "One minute late",
			clockIn:  day.Add(9*time.Hour + time.Minute),
			cutoff:   "09:00",
			expected: core.AttendanceStatusLate,
		},
		{
			name:     "Late afternoon",
			clockIn:  day.Add(15 * time.Hour),
			cutoff:   "09:00",
			expected: core.AttendanceStatusLate,
		},
		{
			name:     "Custom cutoff",
			clockIn:  day.Add(10 * time.Hour),
			cutoff:   "10:30",
			expected: core.AttendanceStatusPresent,
		},
		{
			name:     "Unparsable cutoff falls back to present",
			clockIn:  day.Add(23 * time.Hour),
			cutoff:   "not-a-time",
			expected: core.AttendanceStatusPresent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStatus(tt.clockIn, tt.cutoff))
		})
	}
}

func TestInitialApprovalStatus(t *testing.T) {
	fieldEngineer := &core.Employee{Role: core.RoleFieldEngineer}
	inOffice := &core.Employee{Role: core.RoleInOffice}

	assert.Equal(t, core.ApprovalPending, InitialApprovalStatus(fieldEngineer))
	assert.Equal(t, core.ApprovalNotRequired, InitialApprovalStatus(inOffice))
}

func TestAttemptsExhausted(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		max       int
		exhausted bool
	}{
		{name: "First attempt", count: 1, max: 3, exhausted: false},
		{name: "At the maximum", count: 3, max: 3, exhausted: false},
		{name: "One past the maximum", count: 4, max: 3, exhausted: true},
		{name: "Far past the maximum", count: 10, max: 3, exhausted: true},
		{name: "Single-attempt policy", count: 2, max: 1, exhausted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exhausted, AttemptsExhausted(tt.count, tt.max))
		})
	}
}

func TestRemainingAttempts(t *testing.T) {
	assert.Equal(t, 3, RemainingAttempts(0, 3))
	assert.Equal(t, 1, RemainingAttempts(2, 3))
	assert.Equal(t, 0, RemainingAttempts(3, 3))
	assert.Equal(t, 0, RemainingAttempts(7, 3))
}
