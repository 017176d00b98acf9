package timesheet

import (
	"context"
	"database/sql"
	"time"

	timesheeterrors "go-timesheet/internal/timesheet/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=timesheet_repo.go -destination=mock/timesheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Timesheet) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Timesheet, error)
	FindByStatus(ctx context.Context, companyID, status string) ([]Timesheet, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Timesheet, error)
	ExistsForUserWeek(ctx context.Context, companyID, userID string, weekStart time.Time) (bool, error)
	UpdateStatusVersioned(ctx context.Context, t *Timesheet, fromVersion int) error
	ReplaceEntries(ctx context.Context, timesheetID uuid.UUID, entries []TimeEntry) error
	ReplaceApprovals(ctx context.Context, timesheetID uuid.UUID, approvals []ProjectApproval) error
	UpdateApproval(ctx context.Context, pa *ProjectApproval) error
	SetEntriesRejectionReason(ctx context.Context, timesheetID, projectID uuid.UUID, reason *string) error
	ClearEntriesRejectionReasons(ctx context.Context, timesheetID uuid.UUID) error
	AppendHistory(ctx context.Context, h *ApprovalHistoryEntry) error
	FindHistory(ctx context.Context, timesheetID string) ([]ApprovalHistoryEntry, error)
	FindPendingReviews(ctx context.Context, companyID, approverID string) ([]PendingReview, error)
	ProjectAssignments(ctx context.Context, companyID string, projectIDs []uuid.UUID) (map[uuid.UUID]ProjectAssignment, error)
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, t *Timesheet) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Timesheet, error) {
	var sheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("company_id = ?", companyID).
		Order("week_start_date DESC").
		Find(&sheets).Error
	return sheets, err
}

func (r *repository) FindByStatus(ctx context.Context, companyID, status string) ([]Timesheet, error) {
	var sheets []Timesheet
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Approvals").
		Preload("Approvals.Project").
		Where("company_id = ?", companyID).
		Where("status = ?", status).
		Order("week_start_date ASC").
		Find(&sheets).Error
	return sheets, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Timesheet, error) {
	var t Timesheet
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, created_at ASC")
		}).
		Preload("Approvals").
		Preload("Approvals.Project").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("company_id = ?", companyID).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) ExistsForUserWeek(ctx context.Context, companyID, userID string, weekStart time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Timesheet{}).
		Where("company_id = ?", companyID).
		Where("user_id = ?", userID).
		Where("week_start_date = ?", weekStart).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatusVersioned persists a status change guarded by the
// optimistic version check. Zero affected rows means someone else
// moved the sheet first.
func (r *repository) UpdateStatusVersioned(ctx context.Context, t *Timesheet, fromVersion int) error {
	res := r.db.WithContext(ctx).
		Model(&Timesheet{}).
		Where("id = ?", t.ID).
		Where("version = ?", fromVersion).
		Updates(map[string]any{
			"status":  t.Status,
			"version": fromVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return timesheeterrors.ErrTimesheetConflict
	}
	t.Version = fromVersion + 1
	return nil
}

func (r *repository) ReplaceEntries(ctx context.Context, timesheetID uuid.UUID, entries []TimeEntry) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("timesheet_id = ?", timesheetID).Delete(&TimeEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].TimesheetID = timesheetID
	}
	return db.Create(&entries).Error
}

func (r *repository) ReplaceApprovals(ctx context.Context, timesheetID uuid.UUID, approvals []ProjectApproval) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("timesheet_id = ?", timesheetID).Delete(&ProjectApproval{}).Error; err != nil {
		return err
	}
	if len(approvals) == 0 {
		return nil
	}
	for i := range approvals {
		approvals[i].TimesheetID = timesheetID
	}
	return db.Create(&approvals).Error
}

func (r *repository) UpdateApproval(ctx context.Context, pa *ProjectApproval) error {
	return r.db.WithContext(ctx).Save(pa).Error
}

func (r *repository) SetEntriesRejectionReason(ctx context.Context, timesheetID, projectID uuid.UUID, reason *string) error {
	return r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Where("timesheet_id = ?", timesheetID).
		Where("project_id = ?", projectID).
		Update("rejection_reason", reason).Error
}

func (r *repository) ClearEntriesRejectionReasons(ctx context.Context, timesheetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Where("timesheet_id = ?", timesheetID).
		Update("rejection_reason", nil).Error
}

func (r *repository) AppendHistory(ctx context.Context, h *ApprovalHistoryEntry) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindHistory(ctx context.Context, timesheetID string) ([]ApprovalHistoryEntry, error) {
	var history []ApprovalHistoryEntry
	err := r.db.WithContext(ctx).
		Where("timesheet_id = ?", timesheetID).
		Order("created_at DESC").
		Find(&history).Error
	return history, err
}

type pendingReviewRow struct {
	TimesheetID   string
	ProjectID     string
	ProjectName   string
	EmployeeName  string
	WeekStartDate time.Time
	Stage         string
}

// FindPendingReviews lists every project approval the approver still
// owes on other users' submitted timesheets, lead stage first.
func (r *repository) FindPendingReviews(ctx context.Context, companyID, approverID string) ([]PendingReview, error) {
	var rows []pendingReviewRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
	t.id::text            AS timesheet_id,
	pa.project_id::text   AS project_id,
	p.name                AS project_name,
	u.full_name           AS employee_name,
	t.week_start_date     AS week_start_date,
	CASE WHEN pa.lead_id = ? AND pa.lead_status = ? THEN 'LEAD' ELSE 'MANAGER' END AS stage
FROM project_approvals pa
JOIN timesheets t ON t.id = pa.timesheet_id
JOIN projects p   ON p.id = pa.project_id
JOIN users u      ON u.id = t.user_id
WHERE t.company_id = ?
	AND t.deleted_at IS NULL
	AND t.user_id <> ?
	AND pa.entries_count > 0
	AND (
		(pa.lead_id = ? AND pa.lead_status = ? AND t.status = ?)
		OR (
			pa.manager_id = ?
			AND pa.manager_status = ?
			AND pa.lead_status IN (?, ?)
			AND t.status IN (?, ?)
		)
	)
ORDER BY t.week_start_date ASC, p.name ASC
`,
		approverID, ApprovalPending,
		companyID, approverID,
		approverID, ApprovalPending, StatusSubmitted,
		approverID, ApprovalPending, ApprovalApproved, ApprovalNotRequired,
		StatusSubmitted, StatusLeadApproved,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	pending := make([]PendingReview, len(rows))
	for i, row := range rows {
		pending[i] = PendingReview{
			TimesheetID:   row.TimesheetID,
			ProjectID:     row.ProjectID,
			ProjectName:   row.ProjectName,
			EmployeeName:  row.EmployeeName,
			WeekStartDate: row.WeekStartDate.Format("2006-01-02"),
			Stage:         row.Stage,
		}
	}
	return pending, nil
}

type projectAssignmentRow struct {
	ID        uuid.UUID
	LeadID    *uuid.UUID
	ManagerID uuid.UUID
}

func (r *repository) ProjectAssignments(ctx context.Context, companyID string, projectIDs []uuid.UUID) (map[uuid.UUID]ProjectAssignment, error) {
	if len(projectIDs) == 0 {
		return map[uuid.UUID]ProjectAssignment{}, nil
	}

	var rows []projectAssignmentRow
	err := r.db.WithContext(ctx).
		Table("projects").
		Select("id", "lead_id", "manager_id").
		Where("company_id = ?", companyID).
		Where("id IN ?", projectIDs).
		Where("deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	assignments := make(map[uuid.UUID]ProjectAssignment, len(rows))
	for _, row := range rows {
		assignments[row.ID] = ProjectAssignment{
			LeadID:    row.LeadID,
			ManagerID: row.ManagerID,
		}
	}
	return assignments, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&Timesheet{}, "id = ?", id).Error
}
