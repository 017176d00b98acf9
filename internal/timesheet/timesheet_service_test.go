package timesheet_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/timesheet"
	timesheeterrors "go-timesheet/internal/timesheet/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepository struct {
	withTxFn                    func(tx *sql.Tx) timesheet.Repository
	createFn                    func(ctx context.Context, t *timesheet.Timesheet) error
	findAllByCompanyFn          func(ctx context.Context, companyID string) ([]timesheet.Timesheet, error)
	findByStatusFn              func(ctx context.Context, companyID, status string) ([]timesheet.Timesheet, error)
	findByIDAndCompanyFn        func(ctx context.Context, companyID, id string) (*timesheet.Timesheet, error)
	existsForUserWeekFn         func(ctx context.Context, companyID, userID string, weekStart time.Time) (bool, error)
	updateStatusVersionedFn     func(ctx context.Context, t *timesheet.Timesheet, fromVersion int) error
	replaceEntriesFn            func(ctx context.Context, timesheetID uuid.UUID, entries []timesheet.TimeEntry) error
	replaceApprovalsFn          func(ctx context.Context, timesheetID uuid.UUID, approvals []timesheet.ProjectApproval) error
	updateApprovalFn            func(ctx context.Context, pa *timesheet.ProjectApproval) error
	setEntriesRejectionReasonFn func(ctx context.Context, timesheetID, projectID uuid.UUID, reason *string) error
	clearEntriesRejectionFn     func(ctx context.Context, timesheetID uuid.UUID) error
	appendHistoryFn             func(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error
	findHistoryFn               func(ctx context.Context, timesheetID string) ([]timesheet.ApprovalHistoryEntry, error)
	findPendingReviewsFn        func(ctx context.Context, companyID, approverID string) ([]timesheet.PendingReview, error)
	projectAssignmentsFn        func(ctx context.Context, companyID string, projectIDs []uuid.UUID) (map[uuid.UUID]timesheet.ProjectAssignment, error)
	deleteFn                    func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepository) WithTx(tx *sql.Tx) timesheet.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRepository) Create(ctx context.Context, t *timesheet.Timesheet) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]timesheet.Timesheet, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRepository) FindByStatus(ctx context.Context, companyID, status string) ([]timesheet.Timesheet, error) {
	if f.findByStatusFn != nil {
		return f.findByStatusFn(ctx, companyID, status)
	}
	return nil, nil
}

func (f *fakeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*timesheet.Timesheet, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeRepository) ExistsForUserWeek(ctx context.Context, companyID, userID string, weekStart time.Time) (bool, error) {
	if f.existsForUserWeekFn != nil {
		return f.existsForUserWeekFn(ctx, companyID, userID, weekStart)
	}
	return false, nil
}

func (f *fakeRepository) UpdateStatusVersioned(ctx context.Context, t *timesheet.Timesheet, fromVersion int) error {
	if f.updateStatusVersionedFn != nil {
		return f.updateStatusVersionedFn(ctx, t, fromVersion)
	}
	t.Version = fromVersion + 1
	return nil
}

func (f *fakeRepository) ReplaceEntries(ctx context.Context, timesheetID uuid.UUID, entries []timesheet.TimeEntry) error {
	if f.replaceEntriesFn != nil {
		return f.replaceEntriesFn(ctx, timesheetID, entries)
	}
	return nil
}

func (f *fakeRepository) ReplaceApprovals(ctx context.Context, timesheetID uuid.UUID, approvals []timesheet.ProjectApproval) error {
	if f.replaceApprovalsFn != nil {
		return f.replaceApprovalsFn(ctx, timesheetID, approvals)
	}
	return nil
}

func (f *fakeRepository) UpdateApproval(ctx context.Context, pa *timesheet.ProjectApproval) error {
	if f.updateApprovalFn != nil {
		return f.updateApprovalFn(ctx, pa)
	}
	return nil
}

func (f *fakeRepository) SetEntriesRejectionReason(ctx context.Context, timesheetID, projectID uuid.UUID, reason *string) error {
	if f.setEntriesRejectionReasonFn != nil {
		return f.setEntriesRejectionReasonFn(ctx, timesheetID, projectID, reason)
	}
	return nil
}

func (f *fakeRepository) ClearEntriesRejectionReasons(ctx context.Context, timesheetID uuid.UUID) error {
	if f.clearEntriesRejectionFn != nil {
		return f.clearEntriesRejectionFn(ctx, timesheetID)
	}
	return nil
}

func (f *fakeRepository) AppendHistory(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error {
	if f.appendHistoryFn != nil {
		return f.appendHistoryFn(ctx, h)
	}
	return nil
}

func (f *fakeRepository) FindHistory(ctx context.Context, timesheetID string) ([]timesheet.ApprovalHistoryEntry, error) {
	if f.findHistoryFn != nil {
		return f.findHistoryFn(ctx, timesheetID)
	}
	return nil, nil
}

func (f *fakeRepository) FindPendingReviews(ctx context.Context, companyID, approverID string) ([]timesheet.PendingReview, error) {
	if f.findPendingReviewsFn != nil {
		return f.findPendingReviewsFn(ctx, companyID, approverID)
	}
	return nil, nil
}

func (f *fakeRepository) ProjectAssignments(ctx context.Context, companyID string, projectIDs []uuid.UUID) (map[uuid.UUID]timesheet.ProjectAssignment, error) {
	if f.projectAssignmentsFn != nil {
		return f.projectAssignmentsFn(ctx, companyID, projectIDs)
	}
	return map[uuid.UUID]timesheet.ProjectAssignment{}, nil
}

func (f *fakeRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service timesheet.Service
	repo    *fakeRepository
	outbox  *fakeOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRepository{}
	outbox := &fakeOutboxRepository{}
	svc := timesheet.NewServiceWithOutbox(db, repo, outbox, timesheet.DefaultRules())

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

// fullWeek is five weekday entries of 8 hours on one project.
func fullWeek(projectID, taskID uuid.UUID, weekStart time.Time) []timesheet.TimeEntry {
	entries := make([]timesheet.TimeEntry, 5)
	for i := range entries {
		tid := taskID
		pid := projectID
		entries[i] = timesheet.TimeEntry{
			ID:            uuid.New(),
			ProjectID:     &pid,
			TaskID:        &tid,
			EntryDate:     weekStart.AddDate(0, 0, i),
			Hours:         8,
			IsBillable:    true,
			EntryCategory: timesheet.CategoryProject,
		}
	}
	return entries
}

func TestTimesheetService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, sheet *timesheet.Timesheet) error {
			assert.Equal(t, uuid.MustParse(companyID), sheet.CompanyID)
			assert.Equal(t, uuid.MustParse(actorID), sheet.UserID)
			assert.Equal(t, timesheet.StatusDraft, sheet.Status)
			assert.Equal(t, 1, sheet.Version)
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, timesheet.CreateTimesheetRequest{
			WeekStartDate: "2026-03-02",
		})

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusDraft, resp.Status)
		assert.Equal(t, "2026-03-02", resp.WeekStartDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative week start is not a monday", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID, actorID, timesheet.CreateTimesheetRequest{
			WeekStartDate: "2026-03-03",
		})

		assert.ErrorIs(t, err, timesheeterrors.ErrWeekStartNotMonday)
	})

	t.Run("negative week already exists", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.existsForUserWeekFn = func(ctx context.Context, cid, uid string, weekStart time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, timesheet.CreateTimesheetRequest{
			WeekStartDate: "2026-03-02",
		})

		assert.ErrorIs(t, err, timesheeterrors.ErrTimesheetExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimesheetService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	projectID := uuid.New()
	taskID := uuid.New()
	leadID := uuid.New()

	draftSheet := func() *timesheet.Timesheet {
		return &timesheet.Timesheet{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			UserID:        uuid.MustParse(actorID),
			WeekStartDate: weekStart,
			Status:        timesheet.StatusDraft,
			Version:       1,
			Entries:       fullWeek(projectID, taskID, weekStart),
		}
	}

	t.Run("success first submission", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		sheet := draftSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}
		deps.repo.projectAssignmentsFn = func(ctx context.Context, cid string, ids []uuid.UUID) (map[uuid.UUID]timesheet.ProjectAssignment, error) {
			assert.Equal(t, []uuid.UUID{projectID}, ids)
			return map[uuid.UUID]timesheet.ProjectAssignment{
				projectID: {LeadID: &leadID, ManagerID: uuid.New()},
			}, nil
		}

		var replaced []timesheet.ProjectApproval
		deps.repo.replaceApprovalsFn = func(ctx context.Context, tid uuid.UUID, approvals []timesheet.ProjectApproval) error {
			replaced = approvals
			return nil
		}
		deps.repo.updateStatusVersionedFn = func(ctx context.Context, s *timesheet.Timesheet, fromVersion int) error {
			assert.Equal(t, timesheet.StatusSubmitted, s.Status)
			assert.Equal(t, 1, fromVersion)
			s.Version = fromVersion + 1
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, actorID, sheet.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusSubmitted, resp.Status)
		assert.Len(t, replaced, 1)
		assert.Equal(t, 5, replaced[0].EntriesCount)
		assert.Equal(t, 40.0, replaced[0].TotalHours)

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "timesheet_submitted", deps.outbox.events[0].EventType)
		assert.Equal(t, sheet.ID.String(), deps.outbox.events[0].AggregateID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative blocked by pending reviews", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := draftSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}
		deps.repo.findPendingReviewsFn = func(ctx context.Context, cid, approverID string) ([]timesheet.PendingReview, error) {
			assert.Equal(t, actorID, approverID)
			return []timesheet.PendingReview{
				{TimesheetID: uuid.New().String(), Stage: timesheet.RoleLead},
				{TimesheetID: uuid.New().String(), Stage: timesheet.RoleManager},
			}, nil
		}

		_, err := deps.service.Submit(ctx, companyID, actorID, sheet.ID.String())

		var pendingErr *timesheet.PendingReviewsError
		assert.ErrorAs(t, err, &pendingErr)
		assert.Len(t, pendingErr.Pending, 2)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative blocked by validation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := draftSheet()
		sheet.Entries[4].Hours = 6 // short friday

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		_, err := deps.service.Submit(ctx, companyID, actorID, sheet.ID.String())

		var validationErr *timesheet.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.NotEmpty(t, validationErr.Result.BlockingErrors)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not the owner", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := draftSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		_, err := deps.service.Submit(ctx, companyID, uuid.New().String(), sheet.ID.String())

		assert.ErrorIs(t, err, timesheeterrors.ErrNotTimesheetOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent update loses", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := draftSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}
		deps.repo.projectAssignmentsFn = func(ctx context.Context, cid string, ids []uuid.UUID) (map[uuid.UUID]timesheet.ProjectAssignment, error) {
			return map[uuid.UUID]timesheet.ProjectAssignment{
				projectID: {LeadID: &leadID, ManagerID: uuid.New()},
			}, nil
		}
		deps.repo.updateStatusVersionedFn = func(ctx context.Context, s *timesheet.Timesheet, fromVersion int) error {
			return timesheeterrors.ErrTimesheetConflict
		}

		_, err := deps.service.Submit(ctx, companyID, actorID, sheet.ID.String())

		assert.ErrorIs(t, err, timesheeterrors.ErrTimesheetConflict)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("resubmission resets rejected stages only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		reason := "wrong task"
		sheet := draftSheet()
		sheet.Status = timesheet.StatusLeadRejected
		sheet.Version = 3
		sheet.Approvals = []timesheet.ProjectApproval{
			{
				TimesheetID:         sheet.ID,
				ProjectID:           projectID,
				LeadID:              &leadID,
				LeadStatus:          timesheet.ApprovalRejected,
				LeadRejectionReason: &reason,
				ManagerID:           uuid.New(),
				ManagerStatus:       timesheet.ApprovalPending,
				EntriesCount:        5,
				TotalHours:          40,
			},
		}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		var updated *timesheet.ProjectApproval
		deps.repo.updateApprovalFn = func(ctx context.Context, pa *timesheet.ProjectApproval) error {
			updated = pa
			return nil
		}
		cleared := false
		deps.repo.clearEntriesRejectionFn = func(ctx context.Context, tid uuid.UUID) error {
			cleared = true
			return nil
		}
		deps.repo.updateStatusVersionedFn = func(ctx context.Context, s *timesheet.Timesheet, fromVersion int) error {
			assert.Equal(t, 3, fromVersion)
			assert.Equal(t, timesheet.StatusSubmitted, s.Status)
			s.Version = fromVersion + 1
			return nil
		}

		_, err := deps.service.Submit(ctx, companyID, actorID, sheet.ID.String())

		assert.NoError(t, err)
		assert.NotNil(t, updated)
		assert.Equal(t, timesheet.ApprovalPending, updated.LeadStatus)
		assert.Nil(t, updated.LeadRejectionReason)
		assert.True(t, cleared)
		assert.Len(t, deps.outbox.events, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimesheetService_ProjectDecisions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	projectID := uuid.New()
	taskID := uuid.New()
	leadID := uuid.New()
	managerID := uuid.New()
	ownerID := uuid.New()

	submittedSheet := func() *timesheet.Timesheet {
		return &timesheet.Timesheet{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			UserID:        ownerID,
			WeekStartDate: weekStart,
			Status:        timesheet.StatusSubmitted,
			Version:       2,
			Entries:       fullWeek(projectID, taskID, weekStart),
			Approvals: []timesheet.ProjectApproval{
				{
					ProjectID:     projectID,
					LeadID:        &leadID,
					LeadStatus:    timesheet.ApprovalPending,
					ManagerID:     managerID,
					ManagerStatus: timesheet.ApprovalPending,
					EntriesCount:  5,
					TotalHours:    40,
				},
			},
		}
	}

	t.Run("lead approval rolls the sheet forward", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		sheet := submittedSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}
		deps.repo.updateStatusVersionedFn = func(ctx context.Context, s *timesheet.Timesheet, fromVersion int) error {
			assert.Equal(t, timesheet.StatusLeadApproved, s.Status)
			assert.Equal(t, 2, fromVersion)
			s.Version = fromVersion + 1
			return nil
		}

		var history *timesheet.ApprovalHistoryEntry
		deps.repo.appendHistoryFn = func(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error {
			history = h
			return nil
		}

		resp, err := deps.service.ApproveProject(ctx, companyID, leadID.String(), sheet.ID.String(), projectID.String(), timesheet.RoleLead)

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusLeadApproved, resp.Status)
		assert.NotNil(t, history)
		assert.Equal(t, timesheet.ActionApproved, history.Action)
		assert.Equal(t, timesheet.RoleLead, history.ApproverRole)
		assert.Equal(t, timesheet.StatusSubmitted, history.StatusBefore)
		assert.Equal(t, timesheet.StatusLeadApproved, history.StatusAfter)

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "approval_recorded", deps.outbox.events[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative wrong approver", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := submittedSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		_, err := deps.service.ApproveProject(ctx, companyID, uuid.New().String(), sheet.ID.String(), projectID.String(), timesheet.RoleLead)

		assert.ErrorIs(t, err, timesheeterrors.ErrNotProjectApprover)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reject without reason", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.RejectProject(ctx, companyID, leadID.String(), uuid.New().String(), projectID.String(), timesheet.RoleLead, "")

		assert.ErrorIs(t, err, timesheeterrors.ErrRejectionReasonRequired)
	})

	t.Run("negative manager before lead", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := submittedSheet()

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		_, err := deps.service.ApproveProject(ctx, companyID, managerID.String(), sheet.ID.String(), projectID.String(), timesheet.RoleManager)

		assert.ErrorIs(t, err, timesheeterrors.ErrLeadApprovalRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("manager rejection marks entries", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		sheet := submittedSheet()
		sheet.Approvals[0].LeadStatus = timesheet.ApprovalApproved

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}
		deps.repo.updateStatusVersionedFn = func(ctx context.Context, s *timesheet.Timesheet, fromVersion int) error {
			assert.Equal(t, timesheet.StatusManagerRejected, s.Status)
			s.Version = fromVersion + 1
			return nil
		}

		var taggedReason *string
		deps.repo.setEntriesRejectionReasonFn = func(ctx context.Context, tid, pid uuid.UUID, reason *string) error {
			assert.Equal(t, projectID, pid)
			taggedReason = reason
			return nil
		}

		var history *timesheet.ApprovalHistoryEntry
		deps.repo.appendHistoryFn = func(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error {
			history = h
			return nil
		}

		resp, err := deps.service.RejectProject(ctx, companyID, managerID.String(), sheet.ID.String(), projectID.String(), timesheet.RoleManager, "budget exceeded")

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusManagerRejected, resp.Status)
		assert.NotNil(t, taggedReason)
		assert.Equal(t, "budget exceeded", *taggedReason)
		assert.Equal(t, timesheet.ActionRejected, history.Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative decision on draft sheet", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := submittedSheet()
		sheet.Status = timesheet.StatusDraft

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		_, err := deps.service.ApproveProject(ctx, companyID, leadID.String(), sheet.ID.String(), projectID.String(), timesheet.RoleLead)

		assert.ErrorIs(t, err, timesheeterrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimesheetService_UpdateEntries(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	projectA := uuid.New()
	projectB := uuid.New()
	taskID := uuid.New()

	entryInput := func(e timesheet.TimeEntry) timesheet.EntryInput {
		id := e.ID.String()
		in := timesheet.EntryInput{
			ID:            &id,
			EntryDate:     e.EntryDate.Format("2006-01-02"),
			Hours:         e.Hours,
			IsBillable:    e.IsBillable,
			EntryCategory: e.EntryCategory,
		}
		if e.ProjectID != nil {
			v := e.ProjectID.String()
			in.ProjectID = &v
		}
		if e.TaskID != nil {
			v := e.TaskID.String()
			in.TaskID = &v
		}
		return in
	}

	t.Run("draft edit rebuilds approvals", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		sheet := &timesheet.Timesheet{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			UserID:        uuid.MustParse(actorID),
			WeekStartDate: weekStart,
			Status:        timesheet.StatusDraft,
			Version:       1,
		}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}
		deps.repo.projectAssignmentsFn = func(ctx context.Context, cid string, ids []uuid.UUID) (map[uuid.UUID]timesheet.ProjectAssignment, error) {
			return map[uuid.UUID]timesheet.ProjectAssignment{
				projectA: {ManagerID: uuid.New()},
			}, nil
		}

		var replacedEntries []timesheet.TimeEntry
		deps.repo.replaceEntriesFn = func(ctx context.Context, tid uuid.UUID, entries []timesheet.TimeEntry) error {
			replacedEntries = entries
			return nil
		}
		var replacedApprovals []timesheet.ProjectApproval
		deps.repo.replaceApprovalsFn = func(ctx context.Context, tid uuid.UUID, approvals []timesheet.ProjectApproval) error {
			replacedApprovals = approvals
			return nil
		}

		pid := projectA.String()
		tid := taskID.String()
		req := timesheet.UpdateEntriesRequest{
			Entries: []timesheet.EntryInput{
				{
					ProjectID:     &pid,
					TaskID:        &tid,
					EntryDate:     "2026-03-02",
					Hours:         8,
					IsBillable:    true,
					EntryCategory: timesheet.CategoryProject,
				},
			},
		}

		_, err := deps.service.UpdateEntries(ctx, companyID, actorID, sheet.ID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, replacedEntries, 1)
		assert.Len(t, replacedApprovals, 1)
		assert.Equal(t, projectA, replacedApprovals[0].ProjectID)
		assert.Equal(t, timesheet.ApprovalNotRequired, replacedApprovals[0].LeadStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative locked entry modified during partial rejection", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		reason := "wrong hours"
		lockedEntry := timesheet.TimeEntry{
			ID:            uuid.New(),
			ProjectID:     &projectA,
			TaskID:        &taskID,
			EntryDate:     weekStart,
			Hours:         8,
			EntryCategory: timesheet.CategoryProject,
		}
		rejectedEntry := timesheet.TimeEntry{
			ID:            uuid.New(),
			ProjectID:     &projectB,
			TaskID:        &taskID,
			EntryDate:     weekStart.AddDate(0, 0, 1),
			Hours:         8,
			EntryCategory: timesheet.CategoryProject,
		}
		sheet := &timesheet.Timesheet{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			UserID:        uuid.MustParse(actorID),
			WeekStartDate: weekStart,
			Status:        timesheet.StatusLeadRejected,
			Version:       2,
			Entries:       []timesheet.TimeEntry{lockedEntry, rejectedEntry},
			Approvals: []timesheet.ProjectApproval{
				{ProjectID: projectA, LeadStatus: timesheet.ApprovalApproved, ManagerStatus: timesheet.ApprovalPending, EntriesCount: 1},
				{ProjectID: projectB, LeadStatus: timesheet.ApprovalRejected, LeadRejectionReason: &reason, ManagerStatus: timesheet.ApprovalPending, EntriesCount: 1},
			},
		}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		// the locked entry comes back with different hours
		changed := entryInput(lockedEntry)
		changed.Hours = 4
		req := timesheet.UpdateEntriesRequest{
			Entries: []timesheet.EntryInput{changed, entryInput(rejectedEntry)},
		}

		_, err := deps.service.UpdateEntries(ctx, companyID, actorID, sheet.ID.String(), req)

		assert.ErrorIs(t, err, timesheeterrors.ErrEntryLocked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative new entry added during partial rejection", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		reason := "wrong hours"
		lockedEntry := timesheet.TimeEntry{
			ID:            uuid.New(),
			ProjectID:     &projectA,
			TaskID:        &taskID,
			EntryDate:     weekStart,
			Hours:         8,
			EntryCategory: timesheet.CategoryProject,
		}
		rejectedEntry := timesheet.TimeEntry{
			ID:            uuid.New(),
			ProjectID:     &projectB,
			TaskID:        &taskID,
			EntryDate:     weekStart.AddDate(0, 0, 1),
			Hours:         8,
			EntryCategory: timesheet.CategoryProject,
		}
		sheet := &timesheet.Timesheet{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			UserID:        uuid.MustParse(actorID),
			WeekStartDate: weekStart,
			Status:        timesheet.StatusLeadRejected,
			Version:       2,
			Entries:       []timesheet.TimeEntry{lockedEntry, rejectedEntry},
			Approvals: []timesheet.ProjectApproval{
				{ProjectID: projectA, LeadStatus: timesheet.ApprovalApproved, ManagerStatus: timesheet.ApprovalPending, EntriesCount: 1},
				{ProjectID: projectB, LeadStatus: timesheet.ApprovalRejected, LeadRejectionReason: &reason, ManagerStatus: timesheet.ApprovalPending, EntriesCount: 1},
			},
		}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		pid := projectB.String()
		tid := taskID.String()
		brandNew := timesheet.EntryInput{
			ProjectID:     &pid,
			TaskID:        &tid,
			EntryDate:     "2026-03-04",
			Hours:         8,
			EntryCategory: timesheet.CategoryProject,
		}
		req := timesheet.UpdateEntriesRequest{
			Entries: []timesheet.EntryInput{entryInput(lockedEntry), entryInput(rejectedEntry), brandNew},
		}

		_, err := deps.service.UpdateEntries(ctx, companyID, actorID, sheet.ID.String(), req)

		assert.ErrorIs(t, err, timesheeterrors.ErrAddEntryLocked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative submitted sheet is not editable", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		sheet := &timesheet.Timesheet{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			UserID:        uuid.MustParse(actorID),
			WeekStartDate: weekStart,
			Status:        timesheet.StatusSubmitted,
			Version:       2,
		}

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			return sheet, nil
		}

		_, err := deps.service.UpdateEntries(ctx, companyID, actorID, sheet.ID.String(), timesheet.UpdateEntriesRequest{})

		assert.ErrorIs(t, err, timesheeterrors.ErrTimesheetNotEditable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimesheetService_CanSubmit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("allowed when nothing is pending", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		check, err := deps.service.CanSubmit(ctx, companyID, actorID)

		assert.NoError(t, err)
		assert.True(t, check.Allowed)
		assert.Empty(t, check.PendingReviews)
	})

	t.Run("blocked with the pending list attached", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findPendingReviewsFn = func(ctx context.Context, cid, approverID string) ([]timesheet.PendingReview, error) {
			return []timesheet.PendingReview{
				{TimesheetID: uuid.New().String(), ProjectName: "Atlas", Stage: timesheet.RoleLead},
			}, nil
		}

		check, err := deps.service.CanSubmit(ctx, companyID, actorID)

		assert.NoError(t, err)
		assert.False(t, check.Allowed)
		assert.Len(t, check.PendingReviews, 1)
		assert.Contains(t, check.Reason, "1 timesheet reviews pending")
	})
}
