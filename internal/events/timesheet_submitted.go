package events

import "time"

const TimesheetLifecycleTopic = "time.timesheet.lifecycle.v1"

type TimesheetSubmittedEvent struct {
	EventType     string    `json:"event_type"`
	TimesheetID   string    `json:"timesheet_id"`
	CompanyID     string    `json:"company_id"`
	UserID        string    `json:"user_id"`
	WeekStartDate string    `json:"week_start_date"`
	Resubmission  bool      `json:"resubmission"`
	OccurredAt    time.Time `json:"occurred_at"`
}
