package timesheet

type CreateTimesheetRequest struct {
	WeekStartDate string `json:"week_start_date" binding:"required"`
}

type EntryInput struct {
	ID                    *string `json:"id" binding:"omitempty,uuid"`
	ProjectID             *string `json:"project_id" binding:"omitempty,uuid"`
	TaskID                *string `json:"task_id" binding:"omitempty,uuid"`
	CustomTaskDescription *string `json:"custom_task_description"`
	EntryDate             string  `json:"entry_date" binding:"required"`
	Hours                 float64 `json:"hours" binding:"required,gt=0,lte=24,hourstep"`
	IsBillable            bool    `json:"is_billable"`
	EntryCategory         string  `json:"entry_category" binding:"required,oneof=PROJECT LEAVE TRAINING MISCELLANEOUS"`
	LeaveSession          *string `json:"leave_session" binding:"omitempty,oneof=MORNING AFTERNOON FULL_DAY"`
}

type UpdateEntriesRequest struct {
	Entries []EntryInput `json:"entries" binding:"required,dive"`
}

type RejectProjectRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type EntryResponse struct {
	ID                    string  `json:"id"`
	ProjectID             *string `json:"project_id,omitempty"`
	TaskID                *string `json:"task_id,omitempty"`
	CustomTaskDescription *string `json:"custom_task_description,omitempty"`
	EntryDate             string  `json:"entry_date"`
	Hours                 float64 `json:"hours"`
	IsBillable            bool    `json:"is_billable"`
	EntryCategory         string  `json:"entry_category"`
	LeaveSession          *string `json:"leave_session,omitempty"`
	IsEditable            bool    `json:"is_editable"`
	RejectionReason       *string `json:"rejection_reason,omitempty"`
}

type ApprovalResponse struct {
	ProjectID              string  `json:"project_id"`
	ProjectName            string  `json:"project_name,omitempty"`
	LeadID                 *string `json:"lead_id,omitempty"`
	LeadStatus             string  `json:"lead_status"`
	LeadRejectionReason    *string `json:"lead_rejection_reason,omitempty"`
	ManagerID              string  `json:"manager_id"`
	ManagerStatus          string  `json:"manager_status"`
	ManagerRejectionReason *string `json:"manager_rejection_reason,omitempty"`
	EntriesCount           int     `json:"entries_count"`
	TotalHours             float64 `json:"total_hours"`
}

type HistoryResponse struct {
	Action       string  `json:"action"`
	ApproverRole string  `json:"approver_role"`
	ApproverID   string  `json:"approver_id"`
	ProjectID    *string `json:"project_id,omitempty"`
	StatusBefore string  `json:"status_before"`
	StatusAfter  string  `json:"status_after"`
	Reason       *string `json:"reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type TimesheetResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name,omitempty"`
	WeekStartDate string  `json:"week_start_date"`
	Status        string  `json:"status"`
	Version       int     `json:"version"`
	WeeklyTotal   float64 `json:"weekly_total"`
}

type TimesheetDetailResponse struct {
	TimesheetResponse
	Entries          []EntryResponse    `json:"entries"`
	Approvals        []ApprovalResponse `json:"approvals"`
	History          []HistoryResponse  `json:"history"`
	DailyTotals      map[string]float64 `json:"daily_totals"`
	PartialRejection bool               `json:"partial_rejection"`
	CanAddEntry      bool               `json:"can_add_entry"`
}
