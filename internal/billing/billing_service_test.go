package billing_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"go-timesheet/internal/billing"
	billingerrors "go-timesheet/internal/billing/errors"
	"go-timesheet/internal/timesheet"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeSheetRepository struct {
	timesheet.Repository

	findByStatusFn          func(ctx context.Context, companyID, status string) ([]timesheet.Timesheet, error)
	findByIDAndCompanyFn    func(ctx context.Context, companyID, id string) (*timesheet.Timesheet, error)
	updateStatusVersionedFn func(ctx context.Context, t *timesheet.Timesheet, fromVersion int) error
	appendHistoryFn         func(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error
}

func (f *fakeSheetRepository) WithTx(tx *sql.Tx) timesheet.Repository {
	return f
}

func (f *fakeSheetRepository) FindByStatus(ctx context.Context, companyID, status string) ([]timesheet.Timesheet, error) {
	return f.findByStatusFn(ctx, companyID, status)
}

func (f *fakeSheetRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*timesheet.Timesheet, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}

func (f *fakeSheetRepository) UpdateStatusVersioned(ctx context.Context, t *timesheet.Timesheet, fromVersion int) error {
	if f.updateStatusVersionedFn != nil {
		return f.updateStatusVersionedFn(ctx, t, fromVersion)
	}
	t.Version = fromVersion + 1
	return nil
}

func (f *fakeSheetRepository) AppendHistory(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error {
	if f.appendHistoryFn != nil {
		return f.appendHistoryFn(ctx, h)
	}
	return nil
}

func approvedSheet(companyID string) *timesheet.Timesheet {
	projectID := uuid.New()
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	entries := make([]timesheet.TimeEntry, 5)
	for i := range entries {
		pid := projectID
		entries[i] = timesheet.TimeEntry{
			ID:            uuid.New(),
			ProjectID:     &pid,
			EntryDate:     weekStart.AddDate(0, 0, i),
			Hours:         8,
			IsBillable:    true,
			EntryCategory: timesheet.CategoryProject,
		}
	}

	return &timesheet.Timesheet{
		ID:            uuid.New(),
		CompanyID:     uuid.MustParse(companyID),
		UserID:        uuid.New(),
		WeekStartDate: weekStart,
		Status:        timesheet.StatusManagerApproved,
		Version:       4,
		Entries:       entries,
		Approvals: []timesheet.ProjectApproval{
			{
				ProjectID:     projectID,
				LeadStatus:    timesheet.ApprovalApproved,
				ManagerID:     uuid.New(),
				ManagerStatus: timesheet.ApprovalApproved,
				EntriesCount:  5,
				TotalHours:    40,
			},
		},
	}
}

func TestBillingService_Verify(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success freezes the sheet", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		sheet := approvedSheet(companyID)
		var history *timesheet.ApprovalHistoryEntry
		repo := &fakeSheetRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
			appendHistoryFn: func(ctx context.Context, h *timesheet.ApprovalHistoryEntry) error {
				history = h
				return nil
			},
		}

		svc := billing.NewService(db, repo, t.TempDir())
		resp, err := svc.Verify(ctx, companyID, actorID, sheet.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusFrozen, resp.Status)
		assert.Equal(t, timesheet.ActionVerified, history.Action)
		assert.Equal(t, timesheet.StatusManagerApproved, history.StatusBefore)
		assert.Equal(t, timesheet.StatusFrozen, history.StatusAfter)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative sheet not manager approved", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		sheet := approvedSheet(companyID)
		sheet.Status = timesheet.StatusSubmitted
		repo := &fakeSheetRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}

		svc := billing.NewService(db, repo, t.TempDir())
		_, err = svc.Verify(ctx, companyID, actorID, sheet.ID.String())

		assert.ErrorIs(t, err, billingerrors.ErrTimesheetNotBillable)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestBillingService_Bill(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success writes the invoice pdf", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		sheet := approvedSheet(companyID)
		sheet.Status = timesheet.StatusFrozen
		repo := &fakeSheetRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}

		svc := billing.NewService(db, repo, t.TempDir())
		resp, err := svc.Bill(ctx, companyID, actorID, sheet.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusBilled, resp.Status)
		assert.NotEmpty(t, resp.InvoicePath)

		info, err := os.Stat(resp.InvoicePath)
		assert.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("manager approved bills without an explicit verify", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		sheet := approvedSheet(companyID)
		repo := &fakeSheetRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}

		svc := billing.NewService(db, repo, t.TempDir())
		resp, err := svc.Bill(ctx, companyID, actorID, sheet.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusBilled, resp.Status)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative draft sheet", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		sheet := approvedSheet(companyID)
		sheet.Status = timesheet.StatusDraft
		repo := &fakeSheetRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
				return sheet, nil
			},
		}

		svc := billing.NewService(db, repo, t.TempDir())
		_, err = svc.Bill(ctx, companyID, actorID, sheet.ID.String())

		assert.ErrorIs(t, err, billingerrors.ErrTimesheetNotFrozen)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestBillingService_ListBillable(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	sheet := approvedSheet(companyID)
	repo := &fakeSheetRepository{
		findByStatusFn: func(ctx context.Context, cid, status string) ([]timesheet.Timesheet, error) {
			assert.Equal(t, timesheet.StatusManagerApproved, status)
			return []timesheet.Timesheet{*sheet}, nil
		},
		findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*timesheet.Timesheet, error) {
			assert.Equal(t, sheet.ID.String(), id)
			return sheet, nil
		},
	}

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := billing.NewService(db, repo, t.TempDir())
	resp, err := svc.ListBillable(ctx, companyID)

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, 40.0, resp[0].BillableHours)
	assert.Equal(t, 40.0, resp[0].TotalHours)
}
