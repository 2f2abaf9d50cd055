package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"crewtrack.com/crewtrack/attendance"
	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/infrastructure/communication"
	"crewtrack.com/crewtrack/infrastructure/filesystem"
	"crewtrack.com/crewtrack/lambdas/attendanceimport/helper"
	"crewtrack.com/crewtrack/utils"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"gorm.io/gorm"
)

// Badge-reader exports land in S3 and trigger this function. Each file is
// one tenant's day of raw clock events; rows collapse into one attendance
// record per employee per day, created as an admin import so the normal
// attempt lockout does not apply.

const defaultUTCOffset = 10 * 60 * 60 // AEST

func importSpan(db *gorm.DB, cutoff string, span helper.DaySpan) error {
	emp, err := core.FindEmployeeByCode(db, span.EmployeeCode)
	if err != nil {
		return err
	}
	if emp == nil {
		return fmt.Errorf("unknown employee code %s", span.EmployeeCode)
	}

	date := utils.MustParseDate(span.Date)
	existing, err := core.FindAttendanceForDay(db, emp.EmployeeId, date)
	if err != nil {
		return err
	}

	if existing != nil {
		// Imported events only widen the day, never shrink it.
		updates := map[string]interface{}{}
		if existing.ClockIn == nil || span.From.Before(*existing.ClockIn) {
			updates["clock_in"] = span.From
		}
		if existing.ClockOut == nil || span.To.After(*existing.ClockOut) {
			updates["clock_out"] = span.To
		}
		if len(updates) == 0 {
			return nil
		}
		return db.Model(existing).Updates(updates).Error
	}

	approval := core.ApprovalNotRequired
	if emp.IsFieldEngineer() {
		approval = core.ApprovalApproved
	}

	att := core.Attendance{
		EmployeeID:     emp.EmployeeId,
		Date:           date,
		ClockIn:        &span.From,
		ClockOut:       &span.To,
		Status:         attendance.DeriveStatus(span.From, cutoff),
		ApprovalStatus: approval,
		Location:       &span.Location,
		Source:         core.AttendanceSourceAdmin,
	}
	return db.Create(&att).Error
}

func importFile(ctx context.Context, db *gorm.DB, cutoff string, bucket, key string) (int, error) {
	var buf bytes.Buffer
	if err := filesystem.ReadFile(bucket, key, ctx, &buf); err != nil {
		return 0, err
	}

	events, err := helper.ParseClockEventCSV(&buf, defaultUTCOffset)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	imported := 0
	for _, span := range helper.GroupEvents(events) {
		if err := importSpan(db, cutoff, span); err != nil {
			fmt.Printf("[ERROR] %s %s: %v\n", span.EmployeeCode, span.Date, err)
			continue
		}
		imported++
	}
	return imported, nil
}

func HandleRequest(ctx context.Context, event events.S3Event) error {
	dsn := os.Getenv("CREWTRACK_DSN")
	if dsn == "" {
		return fmt.Errorf("CREWTRACK_DSN is not set")
	}
	tenant := os.Getenv("CREWTRACK_TENANT")

	db := core.ConnectDB(dsn)
	settings, err := core.NewSettingsService().Load(db, tenant)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	slack := communication.ConnectSlack()
	hasError := false

	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key
		fmt.Printf("[INFO] importing %s/%s\n", bucket, key)

		imported, err := importFile(ctx, db, settings.CutoffTime, bucket, key)
		if err != nil {
			fmt.Printf("[ERROR] failed to import %s: %v\n", key, err)
			hasError = true
			continue
		}
		fmt.Printf("[INFO] imported %d attendance records from %s\n", imported, key)
	}

	if hasError {
		slack.Error("Error occurred while importing clock events")
		return fmt.Errorf("error while importing clock events")
	}
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
