package timesheet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft           = "DRAFT"
	StatusSubmitted       = "SUBMITTED"
	StatusLeadApproved    = "LEAD_APPROVED"
	StatusManagerApproved = "MANAGER_APPROVED"
	StatusLeadRejected    = "LEAD_REJECTED"
	StatusManagerRejected = "MANAGER_REJECTED"
	StatusFrozen          = "FROZEN"
	StatusBilled          = "BILLED"
)

const (
	ApprovalPending     = "PENDING"
	ApprovalApproved    = "APPROVED"
	ApprovalRejected    = "REJECTED"
	ApprovalNotRequired = "NOT_REQUIRED"
)

const (
	CategoryProject       = "PROJECT"
	CategoryLeave         = "LEAVE"
	CategoryTraining      = "TRAINING"
	CategoryMiscellaneous = "MISCELLANEOUS"
)

const (
	SessionMorning   = "MORNING"
	SessionAfternoon = "AFTERNOON"
	SessionFullDay   = "FULL_DAY"
)

const (
	RoleLead    = "LEAD"
	RoleManager = "MANAGER"
)

const (
	ActionApproved = "APPROVED"
	ActionRejected = "REJECTED"
	ActionVerified = "VERIFIED"
	ActionBilled   = "BILLED"
)

type Timesheet struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index:idx_timesheets_company_status"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_timesheets_user_week"`
	WeekStartDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_timesheets_user_week"`

	Status  string `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_timesheets_company_status"`
	Version int    `gorm:"type:int;not null;default:1"`

	Entries   []TimeEntry            `gorm:"foreignKey:TimesheetID"`
	Approvals []ProjectApproval      `gorm:"foreignKey:TimesheetID"`
	History   []ApprovalHistoryEntry `gorm:"foreignKey:TimesheetID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_timesheets_deleted_at"`

	Owner *UserRef `gorm:"foreignKey:UserID;references:ID"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

type TimeEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TimesheetID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index"`
	TaskID      *uuid.UUID `gorm:"type:uuid"`

	CustomTaskDescription *string   `gorm:"type:text"`
	EntryDate             time.Time `gorm:"type:date;not null;index"`
	Hours                 float64   `gorm:"type:decimal(4,2);not null"`
	IsBillable            bool      `gorm:"not null;default:false"`
	EntryCategory         string    `gorm:"type:varchar(20);not null;default:'PROJECT'"`
	LeaveSession          *string   `gorm:"type:varchar(10)"`
	RejectionReason       *string   `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

type ProjectApproval struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TimesheetID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_project_approvals_sheet_project"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_project_approvals_sheet_project"`

	LeadID              *uuid.UUID `gorm:"type:uuid;index"`
	LeadStatus          string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	LeadRejectionReason *string    `gorm:"type:text"`

	ManagerID              uuid.UUID `gorm:"type:uuid;not null;index"`
	ManagerStatus          string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ManagerRejectionReason *string   `gorm:"type:text"`

	EntriesCount int     `gorm:"type:int;not null;default:0"`
	TotalHours   float64 `gorm:"type:decimal(5,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Project *ProjectRef `gorm:"foreignKey:ProjectID;references:ID"`
}

func (ProjectApproval) TableName() string {
	return "project_approvals"
}

// ApprovalHistoryEntry is append-only; rows are never updated or deleted.
type ApprovalHistoryEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TimesheetID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProjectID   *uuid.UUID `gorm:"type:uuid"`

	Action       string    `gorm:"type:varchar(20);not null"`
	ApproverRole string    `gorm:"type:varchar(20);not null"`
	ApproverID   uuid.UUID `gorm:"type:uuid;not null"`
	StatusBefore string    `gorm:"type:varchar(20);not null"`
	StatusAfter  string    `gorm:"type:varchar(20);not null"`
	Reason       *string   `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index"`
}

func (ApprovalHistoryEntry) TableName() string {
	return "approval_history_entries"
}

type UserRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (UserRef) TableName() string {
	return "users"
}

type ProjectRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (ProjectRef) TableName() string {
	return "projects"
}

// DailyTotals sums entry hours per ISO day across the sheet.
func (t *Timesheet) DailyTotals() map[string]float64 {
	totals := make(map[string]float64, 7)
	for _, e := range t.Entries {
		totals[e.EntryDate.Format("2006-01-02")] += e.Hours
	}
	return totals
}

func (t *Timesheet) WeeklyTotal() float64 {
	var total float64
	for _, e := range t.Entries {
		total += e.Hours
	}
	return total
}

// IsEditableStatus reports whether the owner may mutate entries.
func IsEditableStatus(status string) bool {
	switch status {
	case StatusDraft, StatusLeadRejected, StatusManagerRejected:
		return true
	default:
		return false
	}
}

func IsTerminalStatus(status string) bool {
	return status == StatusFrozen || status == StatusBilled
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
