package communication

import (
	"context"
	"fmt"
	"log"

	"crewtrack.com/crewtrack/core"
)

// ApprovalNotifier pushes pending-approval alerts to Slack and, when an
// admin address is configured, email. Failures are logged and swallowed;
// the attendance record is already persisted by the time we get here.
type ApprovalNotifier struct {
	Slack      *Slack
	FromEmail  string
	AdminEmail string
}

func (n *ApprovalNotifier) AttendanceNeedsApproval(ctx context.Context, tenant string, emp *core.Employee, att *core.Attendance) {
	clockIn := "(unknown time)"
	if att.ClockIn != nil {
		clockIn = att.ClockIn.Format("15:04")
	}
	location := "(unknown location)"
	if att.Location != nil {
		location = *att.Location
	}

	message := fmt.Sprintf("[%s] %s (%s) clocked in at %s from %s and needs approval",
		tenant,
		emp.DisplayName(),
		emp.Code,
		clockIn,
		location,
	)

	if n.Slack != nil {
		if err := n.Slack.Info(message); err != nil {
			log.Printf("slack approval notification failed: %v", err)
		}
	}

	if n.AdminEmail == "" {
		return
	}

	err := SendEmail(ctx, &Email{
		From:    n.FromEmail,
		To:      []string{n.AdminEmail},
		Subject: fmt.Sprintf("Attendance approval needed: %s", emp.Code),
		Text:    message,
	})
	if err != nil {
		log.Printf("email approval notification failed: %v", err)
	}
}
