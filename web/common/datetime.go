package common

import (
	"encoding/json"
	"time"
)

// LocalDateTime is a wall-clock timestamp without a zone, exchanged as
// "2006-01-02T15:04:05". Interpreted in the tenant's local time.
type LocalDateTime struct {
	time.Time
}

const dateTimeLayout = "2006-01-02T15:04:05"

func (l *LocalDateTime) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		l.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateTimeLayout, *s)
	if err != nil {
		return err
	}
	l.Time = t
	return nil
}

func (l LocalDateTime) MarshalJSON() ([]byte, error) {
	if l.Time.IsZero() {
		return json.Marshal(nil)
	}
	return json.Marshal(l.Format(dateTimeLayout))
}

// TimePtr returns the wrapped time, or nil when the value is absent or zero.
func (l *LocalDateTime) TimePtr() *time.Time {
	if l == nil || l.Time.IsZero() {
		return nil
	}
	t := l.Time
	return &t
}
