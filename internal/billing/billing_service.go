package billing

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	billingerrors "go-timesheet/internal/billing/errors"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

//go:generate mockgen -source=billing_service.go -destination=mock/billing_service_mock.go -package=mock
type Service interface {
	ListBillable(ctx context.Context, companyID string) ([]BillableTimesheetResponse, error)
	Verify(ctx context.Context, companyID, actorID, timesheetID string) (BillResponse, error)
	Bill(ctx context.Context, companyID, actorID, timesheetID string) (BillResponse, error)
}

type service struct {
	db         *sql.DB
	sheets     timesheet.Repository
	invoiceDir string
	logger     *zap.Logger
}

func NewService(db *sql.DB, sheets timesheet.Repository, invoiceDir string, logger ...*zap.Logger) Service {
	l := zap.L().Named("billing.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("billing.service")
	}
	if invoiceDir == "" {
		invoiceDir = filepath.Join("storage", "invoices")
	}
	return &service{db: db, sheets: sheets, invoiceDir: invoiceDir, logger: l}
}

// ListBillable returns fully manager approved timesheets awaiting the
// billing pass.
func (s *service) ListBillable(ctx context.Context, companyID string) ([]BillableTimesheetResponse, error) {
	sheets, err := s.sheets.FindByStatus(ctx, companyID, timesheet.StatusManagerApproved)
	if err != nil {
		return nil, err
	}

	resp := make([]BillableTimesheetResponse, len(sheets))
	for i, t := range sheets {
		full, err := s.sheets.FindByIDAndCompany(ctx, companyID, t.ID.String())
		if err != nil {
			return nil, err
		}
		resp[i] = mapBillable(full)
	}
	return resp, nil
}

// Verify freezes a manager approved timesheet so no further edits or
// approval churn can touch it before invoicing.
func (s *service) Verify(ctx context.Context, companyID, actorID, timesheetID string) (BillResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BillResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.sheets.WithTx(tx)

	t, err := qtx.FindByIDAndCompany(ctx, companyID, timesheetID)
	if err != nil {
		return BillResponse{}, err
	}
	if t.Status != timesheet.StatusManagerApproved {
		return BillResponse{}, billingerrors.ErrTimesheetNotBillable
	}

	if err := s.moveStatus(ctx, qtx, t, timesheet.StatusFrozen, timesheet.ActionVerified, actorID); err != nil {
		return BillResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BillResponse{}, err
	}

	s.logger.Info("timesheet verified for billing",
		zap.String("timesheet_id", timesheetID),
		zap.String("actor_id", actorID),
	)
	return BillResponse{TimesheetID: timesheetID, Status: t.Status}, nil
}

// Bill marks a frozen timesheet as billed and emits the invoice PDF.
// MANAGER_APPROVED is accepted directly; verification is implied.
func (s *service) Bill(ctx context.Context, companyID, actorID, timesheetID string) (BillResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BillResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.sheets.WithTx(tx)

	t, err := qtx.FindByIDAndCompany(ctx, companyID, timesheetID)
	if err != nil {
		return BillResponse{}, err
	}
	if t.Status != timesheet.StatusFrozen && t.Status != timesheet.StatusManagerApproved {
		return BillResponse{}, billingerrors.ErrTimesheetNotFrozen
	}

	if err := s.moveStatus(ctx, qtx, t, timesheet.StatusBilled, timesheet.ActionBilled, actorID); err != nil {
		return BillResponse{}, err
	}

	invoicePath, err := s.generateInvoice(t)
	if err != nil {
		s.logger.Error("invoice generation failed",
			zap.String("timesheet_id", timesheetID),
			zap.Error(err),
		)
		return BillResponse{}, billingerrors.ErrInvoiceGenerationFailed
	}

	if err := tx.Commit(); err != nil {
		return BillResponse{}, err
	}

	s.logger.Info("timesheet billed",
		zap.String("timesheet_id", timesheetID),
		zap.String("invoice_path", invoicePath),
	)
	return BillResponse{TimesheetID: timesheetID, Status: t.Status, InvoicePath: invoicePath}, nil
}

func (s *service) moveStatus(ctx context.Context, repo timesheet.Repository, t *timesheet.Timesheet, to, action, actorID string) error {
	if !timesheet.CanTransition(t.Status, to) {
		return billingerrors.ErrTimesheetNotBillable
	}

	statusBefore := t.Status
	fromVersion := t.Version
	t.Status = to
	if err := repo.UpdateStatusVersioned(ctx, t, fromVersion); err != nil {
		return err
	}

	return repo.AppendHistory(ctx, &timesheet.ApprovalHistoryEntry{
		ID:           uuid.New(),
		TimesheetID:  t.ID,
		Action:       action,
		ApproverRole: timesheet.RoleManager,
		ApproverID:   uuid.MustParse(actorID),
		StatusBefore: statusBefore,
		StatusAfter:  t.Status,
	})
}

func (s *service) generateInvoice(t *timesheet.Timesheet) (string, error) {
	if err := os.MkdirAll(s.invoiceDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.invoiceDir, t.ID.String()+".pdf")

	userName := t.UserID.String()
	if t.Owner != nil && t.Owner.FullName != "" {
		userName = t.Owner.FullName
	}

	var billable float64
	for _, e := range t.Entries {
		if e.IsBillable {
			billable += e.Hours
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet Invoice")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", userName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Week starting: %s", t.WeekStartDate.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(90, 8, "Project")
	pdf.Cell(40, 8, "Entries")
	pdf.Cell(40, 8, "Hours")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, pa := range t.Approvals {
		if pa.EntriesCount == 0 {
			continue
		}
		name := pa.ProjectID.String()
		if pa.Project != nil && pa.Project.Name != "" {
			name = pa.Project.Name
		}
		pdf.Cell(90, 8, name)
		pdf.Cell(40, 8, fmt.Sprintf("%d", pa.EntriesCount))
		pdf.Cell(40, 8, fmt.Sprintf("%.2f", pa.TotalHours))
		pdf.Ln(7)
	}

	pdf.Ln(5)
	pdf.Cell(0, 8, fmt.Sprintf("Billable hours: %.2f", billable))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total hours: %.2f", t.WeeklyTotal()))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func mapBillable(t *timesheet.Timesheet) BillableTimesheetResponse {
	var billable float64
	for _, e := range t.Entries {
		if e.IsBillable {
			billable += e.Hours
		}
	}

	resp := BillableTimesheetResponse{
		TimesheetID:   t.ID.String(),
		UserID:        t.UserID.String(),
		WeekStartDate: t.WeekStartDate.Format("2006-01-02"),
		Status:        t.Status,
		BillableHours: billable,
		TotalHours:    t.WeeklyTotal(),
	}
	if t.Owner != nil {
		resp.UserName = t.Owner.FullName
	}
	return resp
}
