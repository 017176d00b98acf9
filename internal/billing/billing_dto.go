package billing

type BillableTimesheetResponse struct {
	TimesheetID   string  `json:"timesheet_id"`
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name,omitempty"`
	WeekStartDate string  `json:"week_start_date"`
	Status        string  `json:"status"`
	BillableHours float64 `json:"billable_hours"`
	TotalHours    float64 `json:"total_hours"`
}

type BillResponse struct {
	TimesheetID string `json:"timesheet_id"`
	Status      string `json:"status"`
	InvoicePath string `json:"invoice_path,omitempty"`
}
