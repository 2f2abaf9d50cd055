package helper

import (
	"fmt"
	"io"
	"time"

	"crewtrack.com/crewtrack/utils"
)

// ClockEvent is one row from a badge-reader export:
// EmployeeCode,Timestamp,Location
type ClockEvent struct {
	EmployeeCode string
	Timestamp    time.Time
	Date         string
	Location     string
}

// DaySpan is the earliest and latest event for one employee on one day.
type DaySpan struct {
	EmployeeCode string
	Date         string
	From         time.Time
	To           time.Time
	Location     string
	Events       []ClockEvent
}

// ParseClockEventCSV reads a badge-reader export. Timestamps are ISO 8601
// (readers differ on the exact flavour) and shifted into the fixed offset
// (seconds east of UTC) so the day boundary matches the site's calendar.
func ParseClockEventCSV(r io.Reader, offset int) ([]ClockEvent, error) {
	rows, err := utils.ParseCSVRows(r, 3)
	if err != nil {
		return nil, err
	}

	loc := time.FixedZone("OFFSET", offset)

	var events []ClockEvent
	for i, row := range rows {
		parsed, err := utils.ParseISOTime(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", i+1, err)
		}
		timestamp := parsed.In(loc)

		events = append(events, ClockEvent{
			EmployeeCode: row[0],
			Timestamp:    timestamp,
			Date:         timestamp.Format("2006-01-02"),
			Location:     row[2],
		})
	}

	return events, nil
}

// GroupEvents collapses raw events into one span per employee per day.
// From/To are the min and max timestamps; the location of the earliest
// event wins.
func GroupEvents(events []ClockEvent) []DaySpan {
	grouped := make(map[string]DaySpan)
	var order []string

	for _, e := range events {
		key := e.EmployeeCode + "|" + e.Date
		span, exists := grouped[key]

		if !exists {
			order = append(order, key)
			grouped[key] = DaySpan{
				EmployeeCode: e.EmployeeCode,
				Date:         e.Date,
				From:         e.Timestamp,
				To:           e.Timestamp,
				Location:     e.Location,
				Events:       []ClockEvent{e},
			}
		} else {
			if e.Timestamp.Before(span.From) {
				span.From = e.Timestamp
				span.Location = e.Location
			}
			if e.Timestamp.After(span.To) {
				span.To = e.Timestamp
			}
			span.Events = append(span.Events, e)
			grouped[key] = span
		}
	}

	spans := make([]DaySpan, 0, len(grouped))
	for _, key := range order {
		spans = append(spans, grouped[key])
	}
	return spans
}
