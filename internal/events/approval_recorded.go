package events

import "time"

const ApprovalRecordedTopic = "time.approval.recorded.v1"

type ApprovalRecordedEvent struct {
	EventType    string    `json:"event_type"`
	TimesheetID  string    `json:"timesheet_id"`
	CompanyID    string    `json:"company_id"`
	ProjectID    string    `json:"project_id,omitempty"`
	ApproverID   string    `json:"approver_id"`
	ApproverRole string    `json:"approver_role"`
	Action       string    `json:"action"`
	StatusAfter  string    `json:"status_after"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
